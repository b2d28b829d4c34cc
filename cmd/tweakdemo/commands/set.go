// File: cmd/tweakdemo/commands/set.go
// License: Apache-2.0

package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/frobnicators/tweaklib/client"
	"github.com/frobnicators/tweaklib/internal/printer"
)

var setCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Change a variable of a running program",
	Long: `Parses value according to the variable's datatype and sends an update.
The server does not acknowledge updates; use "watch" to see the result.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVarP(&watchAddr, "addr", "a", "localhost:8080", "address of the tweaklib server")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	c, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	name, value := args[0], args[1]
	if err := c.SetByName(name, value); err != nil {
		if errors.Is(err, client.ErrUnknownVariable) {
			return printer.Error("unknown variable", err.Error(),
				`run "tweakdemo watch --once" to list variables`)
		}
		return printer.Error("update failed", err.Error())
	}
	printer.Success("%s = %s sent\n", name, value)
	return nil
}
