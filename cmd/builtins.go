package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/josephlewis42/minishell/commands"
	"github.com/josephlewis42/minishell/core/shell"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range commands.Builtins().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	},
}

// builtinCmd runs one builtin in a child process, the shell starts it for
// builtins that are part of a pipeline.
var builtinCmd = &cobra.Command{
	Use:                shell.BuiltinSubcommand + " STATUS NAME [ARG...]",
	Short:              "Run a single builtin.",
	Hidden:             true,
	DisableFlagParsing: true,
	Args:               cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		lastStatus, err := strconv.Atoi(args[0])
		if err != nil {
			lastStatus = 0
		}

		os.Exit(commands.RunDetached(commands.Builtins(), lastStatus, args[1:], os.Stdin, os.Stdout, os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
	rootCmd.AddCommand(builtinCmd)
}
