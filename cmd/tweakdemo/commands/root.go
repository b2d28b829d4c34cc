// File: cmd/tweakdemo/commands/root.go
// License: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "tweakdemo",
	Short: "tweakdemo - live variable tweaking over WebSocket",
	Long: `tweakdemo exercises tweaklib. "serve" runs a small program with a few
tweakable variables, "watch" and "set" talk to a running instance the same
way the browser UI does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (env TWEAKLIB_* overrides)")
}
