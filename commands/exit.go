package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// Exit quits the shell.
//
// Without arguments the shell exits with the last status. A non-numeric
// argument still exits, with status 2; several arguments are an error and the
// shell keeps running.
func Exit(p *Proc) int {
	if p.Interactive && !p.Detached {
		fmt.Fprintln(p.Stderr, "exit")
	}

	args := p.Args[1:]
	code := p.LastStatus
	if len(args) > 0 {
		n, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
		switch {
		case err != nil:
			p.Errorf("%s: numeric argument required", args[0])
			code = 2
		case len(args) > 1:
			p.Errorf("too many arguments")
			return 1
		default:
			code = int(uint8(n))
		}
	}

	if p.Exit != nil {
		p.Exit(code)
	}
	return code
}

func init() {
	mustAddBuiltin("exit", Exit)
}
