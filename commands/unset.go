package commands

import (
	"github.com/josephlewis42/minishell/core/env"
)

// Unset removes variables from both the exported and the local stores.
func Unset(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "unset [-fv] [NAME ...]",
		Short: "Unset values and attributes of shell variables.",
	}
	opts := cmd.Flags()
	opts.Bool('f', "treat each NAME as a shell function")
	opts.Bool('v', "treat each NAME as a shell variable")

	return cmd.Run(p, func() int {
		status := 0
		for _, name := range opts.Args() {
			if !env.IsName(name) {
				p.Errorf("`%s': not a valid identifier", name)
				status = 1
				continue
			}
			p.Vars.Unset(name)
		}
		return status
	})
}

func init() {
	mustAddBuiltin("unset", Unset)
}
