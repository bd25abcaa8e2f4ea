package commands

import (
	"fmt"
)

// Env prints the exported environment in the order variables were defined.
func Env(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "env",
		Short: "Print the exported environment.",
	}

	opts := cmd.Flags()
	return cmd.Run(p, func() int {
		if args := opts.Args(); len(args) > 0 {
			p.Errorf("%s: No such file or directory", args[0])
			return 127
		}

		for _, envDef := range p.Vars.Global.Environ() {
			fmt.Fprintln(p.Stdout, envDef)
		}

		return 0
	})
}

func init() {
	mustAddBuiltin("env", Env)
}
