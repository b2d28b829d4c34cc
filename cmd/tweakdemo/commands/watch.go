// File: cmd/tweakdemo/commands/watch.go
// License: Apache-2.0

package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/frobnicators/tweaklib/client"
	"github.com/frobnicators/tweaklib/internal/printer"
)

var (
	watchAddr    string
	watchTimeout time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "List the variables of a running program and follow changes",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchAddr, "addr", "a", "localhost:8080", "address of the tweaklib server")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 5*time.Second, "handshake timeout")
	watchCmd.Flags().Bool("once", false, "print the variables and exit")
	rootCmd.AddCommand(watchCmd)
}

func dial(ctx context.Context) (*client.Client, error) {
	c, err := client.Dial(ctx, watchAddr, client.Config{HandshakeTimeout: watchTimeout})
	if err != nil {
		return nil, printer.Error("cannot connect", err.Error(),
			"is \"tweakdemo serve\" running?",
			"pass the server address with --addr")
	}
	return c, nil
}

func printVar(v client.Var) {
	desc := ""
	if v.Description != nil {
		desc = *v.Description
	}
	printer.Variable(v.Name, string(v.Value), desc)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	names := make(map[uint64]string)
	for _, v := range c.Vars() {
		names[v.Handle] = v.Name
		printVar(v)
	}
	if once, _ := cmd.Flags().GetBool("once"); once {
		return nil
	}

	for {
		changes, err := c.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return printer.Error("connection lost", err.Error())
		}
		for _, ch := range changes {
			name, ok := names[ch.Handle]
			if !ok {
				name = "#" + strconv.FormatUint(ch.Handle, 10)
			}
			printer.Variable(name, string(ch.Value), "")
		}
	}
}
