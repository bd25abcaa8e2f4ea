package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/josephlewis42/minishell/core/env"
	getopt "github.com/pborman/getopt/v2"
)

// ProgramName prefixes builtin diagnostics.
var ProgramName = "minishell"

// Proc is the invocation context handed to a builtin.
type Proc struct {
	// Args holds the expanded argv, Args[0] is the builtin name.
	Args []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Vars is the merged variable view. Changes only outlive the call when the
	// builtin runs inside the shell process.
	Vars *env.Vars

	// LastStatus is the shell's exit status before this command.
	LastStatus int

	// Detached is set when the builtin runs in a forked child.
	Detached bool

	// Interactive is set when the shell reads from a terminal.
	Interactive bool

	// Exit asks the owning shell to terminate with the given status. It is nil
	// for detached builtins.
	Exit func(code int)
}

// Errorf writes a diagnostic prefixed with the program and builtin names.
func (p *Proc) Errorf(format string, a ...interface{}) {
	fmt.Fprintf(p.Stderr, "%s: %s: %s\n", ProgramName, p.Args[0], fmt.Sprintf(format, a...))
}

// Builtin is the body of a shell builtin; it returns the exit status.
type Builtin func(p *Proc) int

// Registry maps builtin names to their bodies.
type Registry map[string]Builtin

// Lookup finds a builtin by name.
func (r Registry) Lookup(name string) (Builtin, bool) {
	b, ok := r[name]
	return b, ok
}

// Names returns the sorted builtin names.
func (r Registry) Names() []string {
	var out []string
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// allBuiltins holds every registered builtin.
var allBuiltins = make(Registry)

func mustAddBuiltin(name string, b Builtin) {
	if _, ok := allBuiltins[name]; ok {
		panic(fmt.Sprintf("duplicate builtin %q", name))
	}
	allBuiltins[name] = b
}

// Builtins returns a copy of the registered builtins.
func Builtins() Registry {
	out := make(Registry, len(allBuiltins))
	for k, v := range allBuiltins {
		out[k] = v
	}
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(p *Proc, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(p.Args, nil); err != nil {
		p.Errorf("%s", err)
		s.PrintHelp(p.Stderr)
		return 2
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout)
		return 0
	}

	return callback()
}
