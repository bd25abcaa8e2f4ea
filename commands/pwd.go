package commands

import (
	"fmt"
	"os"
)

// Pwd prints the current working directory.
func Pwd(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "pwd [-LP]",
		Short: "Print the name of the current working directory.",
	}
	opts := cmd.Flags()
	opts.Bool('L', "print the value of $PWD if it names the current working directory")
	opts.Bool('P', "print the physical directory, without any symbolic links")

	return cmd.Run(p, func() int {
		wd, err := os.Getwd()
		if err != nil {
			pwd, ok := p.Vars.Lookup("PWD")
			if !ok {
				p.Errorf("error retrieving current directory: %s", DescribeError(err))
				return 1
			}
			wd = pwd
		}

		fmt.Fprintln(p.Stdout, wd)
		return 0
	})
}

func init() {
	mustAddBuiltin("pwd", Pwd)
}
