package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/minishell/core/env"
)

// RunDetached runs a builtin as the whole body of a forked child process. The
// child's own environment is the variable view, so nothing the builtin
// changes is visible to the parent shell.
func RunDetached(reg Registry, lastStatus int, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(stderr, "%s: builtin: missing builtin name\n", ProgramName)
		return 2
	}

	builtin, ok := reg.Lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "%s: builtin: %s: not a shell builtin\n", ProgramName, args[0])
		return 127
	}

	return builtin(&Proc{
		Args:       args,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Vars:       env.NewVars(os.Environ()),
		LastStatus: lastStatus,
		Detached:   true,
	})
}
