package shell

import (
	"os"
	"strconv"
	"testing"

	"github.com/josephlewis42/minishell/commands"
)

// TestMain lets the test binary stand in for the minishell binary when a
// pipeline forks a builtin.
func TestMain(m *testing.M) {
	if len(os.Args) > 2 && os.Args[1] == BuiltinSubcommand {
		status, _ := strconv.Atoi(os.Args[2])
		os.Exit(commands.RunDetached(commands.Builtins(), status, os.Args[3:], os.Stdin, os.Stdout, os.Stderr))
	}

	os.Exit(m.Run())
}
