package commands

import (
	"fmt"
	"os"

	"github.com/josephlewis42/minishell/core/env"
)

const (
	EnvHome   = "HOME"
	EnvPWD    = "PWD"
	EnvOldPWD = "OLDPWD"
)

// Cd is the cd shell builtin.
func Cd(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "cd [-LP] [DIR]",
		Short: "Change the shell working directory.",
	}
	opts := cmd.Flags()
	opts.Bool('L', "follow symbolic links")
	opts.Bool('P', "use the physical directory structure")

	return cmd.Run(p, func() int {
		args := opts.Args()

		var dir string
		switch len(args) {
		case 0:
			home, ok := p.Vars.Lookup(EnvHome)
			if !ok || home == "" {
				p.Errorf("HOME not set")
				return 1
			}
			dir = home
		case 1:
			dir = args[0]
			if dir == "-" {
				old, ok := p.Vars.Lookup(EnvOldPWD)
				if !ok || old == "" {
					p.Errorf("OLDPWD not set")
					return 1
				}
				dir = old
				fmt.Fprintln(p.Stdout, dir)
			}
		default:
			p.Errorf("too many arguments")
			return 1
		}

		oldWd, err := os.Getwd()
		if err != nil {
			oldWd = p.Vars.Getenv(EnvPWD)
		}

		if err := os.Chdir(dir); err != nil {
			p.Errorf("%s: %s", dir, DescribeError(err))
			return 1
		}

		newWd, err := os.Getwd()
		if err != nil {
			newWd = dir
		}

		p.Vars.Assign(env.Assignment{Name: EnvOldPWD, Value: oldWd})
		p.Vars.Assign(env.Assignment{Name: EnvPWD, Value: newWd})
		return 0
	})
}

func init() {
	mustAddBuiltin("cd", Cd)
}
