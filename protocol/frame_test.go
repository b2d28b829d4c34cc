package protocol_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/protocol"
)

func TestFrameLengthEncodings(t *testing.T) {
	for _, n := range []int{0, 1, 125, 126, 65535, 65536} {
		payload := bytes.Repeat([]byte{'x'}, n)
		raw := protocol.EncodeText(payload)
		assert.Len(t, raw, protocol.HeaderLen(n)+n, "len %d", n)

		f, err := protocol.DecodeFrame(bytes.NewReader(raw))
		require.NoError(t, err, "len %d", n)
		assert.True(t, f.IsFinal)
		assert.Equal(t, byte(protocol.OpcodeText), f.Opcode)
		assert.False(t, f.Masked)
		assert.Equal(t, int64(n), f.PayloadLen)
		assert.Equal(t, payload, f.Payload)
	}
}

func TestHeaderLenBoundaries(t *testing.T) {
	assert.Equal(t, 2, protocol.HeaderLen(125))
	assert.Equal(t, 4, protocol.HeaderLen(126))
	assert.Equal(t, 4, protocol.HeaderLen(65535))
	assert.Equal(t, 10, protocol.HeaderLen(65536))
}

func TestMaskedFramesWithOddTails(t *testing.T) {
	key := [4]byte{0x37, 0xfa, 0x21, 0x3d}
	for _, n := range []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 130} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i * 7)
		}
		orig := append([]byte(nil), payload...)

		raw := protocol.AppendFrame(nil, protocol.OpcodeText, true, payload, &key)
		assert.Equal(t, orig, payload, "caller payload must not be modified")

		f, err := protocol.DecodeFrame(bytes.NewReader(raw))
		require.NoError(t, err, "len %d", n)
		assert.True(t, f.Masked)
		assert.Equal(t, key, f.MaskKey)
		assert.Equal(t, orig, f.Payload, "len %d", n)
	}
}

func TestMaskBytesMatchesBytewise(t *testing.T) {
	key := [4]byte{1, 2, 3, 4}
	b := []byte("Hello, tweaklib!!")
	want := make([]byte, len(b))
	for i := range b {
		want[i] = b[i] ^ key[i%4]
	}
	protocol.MaskBytes(key, b)
	assert.Equal(t, want, b)
}

func TestDecodeRejectsOversizedFrame(t *testing.T) {
	var hdr bytes.Buffer
	hdr.Write([]byte{protocol.FinBit | protocol.OpcodeText, 127})
	hdr.Write([]byte{0, 0, 0, 0, 0, 0x20, 0, 0}) // 2 MiB
	_, err := protocol.DecodeFrame(&hdr)
	assert.True(t, errors.Is(err, protocol.ErrFrameTooLarge))
}

func TestDecodeNonFinalFrameConsumesPayload(t *testing.T) {
	var stream []byte
	stream = protocol.AppendFrame(stream, protocol.OpcodeText, false, []byte("part"), nil)
	stream = protocol.AppendFrame(stream, protocol.OpcodeText, true, []byte("next"), nil)
	r := bytes.NewReader(stream)

	f, err := protocol.DecodeFrame(r)
	require.NoError(t, err)
	assert.False(t, f.IsFinal)

	f, err = protocol.DecodeFrame(r)
	require.NoError(t, err)
	assert.Equal(t, "next", string(f.Payload))
}

func TestDecodeTruncated(t *testing.T) {
	raw := protocol.EncodeText([]byte("hello"))
	_, err := protocol.DecodeFrame(bytes.NewReader(raw[:4]))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReservedBitsDecodedAndReported(t *testing.T) {
	key := [4]byte{9, 8, 7, 6}
	raw := protocol.AppendFrame(nil, protocol.OpcodeText, true, []byte("abc"), &key)
	raw[0] |= 0x40 // RSV1
	raw = protocol.AppendFrame(raw, protocol.OpcodeText, true, []byte("next"), nil)
	r := bytes.NewReader(raw)

	f, err := protocol.DecodeFrame(r)
	require.NoError(t, err)
	assert.Equal(t, byte(0x40), f.Rsv)
	assert.Equal(t, "abc", string(f.Payload))
	assert.True(t, errors.Is(f.Check(), protocol.ErrReservedBits))

	f, err = protocol.DecodeFrame(r)
	require.NoError(t, err)
	assert.NoError(t, f.Check())
	assert.Equal(t, "next", string(f.Payload))
}

func TestLongControlFrameDecodedAndReported(t *testing.T) {
	key := [4]byte{1, 2, 3, 4}
	payload := bytes.Repeat([]byte{'p'}, 200)
	raw := protocol.AppendFrame(nil, protocol.OpcodePing, true, payload, &key)

	f, err := protocol.DecodeFrame(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, payload, f.Payload)
	assert.True(t, errors.Is(f.Check(), protocol.ErrControlTooLarge))

	short := protocol.AppendFrame(nil, protocol.OpcodePing, true, payload[:125], &key)
	f, err = protocol.DecodeFrame(bytes.NewReader(short))
	require.NoError(t, err)
	assert.NoError(t, f.Check())
}
