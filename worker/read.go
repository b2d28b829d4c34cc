// File: worker/read.go
// License: Apache-2.0

package worker

import "io"

// ReadResult is the outcome of an asynchronous read.
type ReadResult struct {
	N   int
	Err error
}

// ReadAsync starts one read into buf on its own goroutine and returns a
// channel that receives the result. buf must not be touched until the
// result arrives. The channel is buffered, so an abandoned read does not
// leak its goroutine once the reader is closed.
func ReadAsync(r io.Reader, buf []byte) <-chan ReadResult {
	out := make(chan ReadResult, 1)
	go func() {
		n, err := r.Read(buf)
		out <- ReadResult{N: n, Err: err}
	}()
	return out
}

// Pump runs next in a loop on its own goroutine, delivering each result on
// the returned channel. Only one call to next is outstanding; the next one
// starts after the previous result was received or stop is closed. The
// channel is closed after next returns an error.
func Pump[T any](next func() (T, error), stop <-chan struct{}) <-chan Item[T] {
	out := make(chan Item[T])
	go func() {
		defer close(out)
		for {
			v, err := next()
			select {
			case out <- Item[T]{Value: v, Err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return out
}

// Item is one value produced by Pump.
type Item[T any] struct {
	Value T
	Err   error
}
