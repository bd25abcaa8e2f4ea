package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephlewis42/minishell/core/env"
)

var declareEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// Export marks variables for export to child processes.
func Export(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "export [-p] [NAME[=VALUE] ...]",
		Short: "Set export attribute for shell variables.",
	}
	opts := cmd.Flags()
	opts.Bool('p', "display all exported variables")

	return cmd.Run(p, func() int {
		args := opts.Args()
		if len(args) == 0 {
			printExports(p)
			return 0
		}

		status := 0
		for _, arg := range args {
			if assignment, ok := env.ParseAssignment(arg); ok {
				p.Vars.Export(assignment, true)
				continue
			}

			if env.IsName(arg) {
				p.Vars.Export(env.Assignment{Name: arg}, false)
				continue
			}

			p.Errorf("`%s': not a valid identifier", arg)
			status = 1
		}

		return status
	})
}

func printExports(p *Proc) {
	keys := p.Vars.Global.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(p.Stdout, "declare -x %s=\"%s\"\n", k, declareEscaper.Replace(p.Vars.Global.Get(k)))
	}
}

func init() {
	mustAddBuiltin("export", Export)
}
