package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/josephlewis42/minishell/commands"
	"github.com/josephlewis42/minishell/core/env"
	"github.com/josephlewis42/minishell/core/logger"
	"github.com/spf13/afero"
)

// ErrAmbiguousRedirect is reported when a redirection target doesn't expand
// to exactly one field.
var ErrAmbiguousRedirect = errors.New("ambiguous redirect")

// BuiltinCommandFunc builds a process running a builtin with the given
// previous status, argv and environment.
type BuiltinCommandFunc func(lastStatus int, args, env []string) *exec.Cmd

// BuiltinSubcommand is the argument that makes the minishell binary run a
// single builtin: minishell builtin STATUS NAME [ARG...]
const BuiltinSubcommand = "builtin"

// ReexecBuiltin runs builtins in pipelines by starting executable, normally
// the shell's own binary, with BuiltinSubcommand.
func ReexecBuiltin(executable string) BuiltinCommandFunc {
	return func(lastStatus int, args, env []string) *exec.Cmd {
		argv := append([]string{executable, BuiltinSubcommand, strconv.Itoa(lastStatus)}, args...)
		return &exec.Cmd{
			Path: executable,
			Args: argv,
			Env:  env,
		}
	}
}

// Launcher runs pipelines.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Fs opens redirection targets and resolves commands.
	Fs       afero.Fs
	Vars     *env.Vars
	Builtins commands.Registry
	Heredocs *HeredocQueue
	Signals  *SignalController
	Log      *logger.SessionLogger

	// BuiltinCommand builds the child process that runs a builtin inside a
	// pipeline, see ReexecBuiltin.
	BuiltinCommand BuiltinCommandFunc

	ProgramName string
	Interactive bool
	// Exit is called by the exit builtin when it runs in the shell process.
	Exit func(code int)
}

// stageRun is the per-stage state of a launch.
type stageRun struct {
	stage  *Stage
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	argv   []string
	cmd    *exec.Cmd
	status int
}

// launch is the state of a single pipeline, discarded when it finishes.
type launch struct {
	*Launcher
	expander *Expander
	stages   []*stageRun
	closers  listCloser
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

func (l *Launcher) errorf(format string, a ...interface{}) {
	fmt.Fprintf(l.Stderr, "%s: %s\n", l.ProgramName, fmt.Sprintf(format, a...))
}

func (l *Launcher) transition(to Mode) {
	if l.Signals == nil {
		return
	}
	if err := l.Signals.Transition(to); err != nil {
		l.errorf("%v", err)
	}
}

// Launch runs the pipeline rooted at root and returns the status of its last
// stage. Queued heredocs that aren't consumed are discarded.
func (l *Launcher) Launch(root Node, lastStatus int) int {
	return l.Run(Plan(root), lastStatus)
}

// Run launches stages as a pipeline.
func (l *Launcher) Run(stages []*Stage, lastStatus int) int {
	if len(stages) == 0 {
		return lastStatus
	}

	lr := &launch{
		Launcher: l,
		expander: &Expander{
			Vars:        l.Vars,
			LastStatus:  lastStatus,
			PID:         os.Getpid(),
			ProgramName: l.ProgramName,
		},
	}
	defer lr.closers.Close()
	if l.Heredocs != nil {
		defer l.Heredocs.Discard()
	}

	l.transition(ModePreExec)
	status, started := lr.start(stages)
	if started {
		l.transition(ModeSupervise)
		status = lr.wait()
	}
	l.transition(ModePrompt)

	var cmds []string
	for _, s := range lr.stages {
		cmds = append(cmds, strings.Join(s.argv, " "))
	}
	l.Log.Record(&logger.Pipeline{Commands: cmds, Status: status})

	return status
}

// start wires and starts every stage. It returns false if the launch was
// aborted, in which case status is final and nothing is left running.
func (lr *launch) start(stages []*Stage) (status int, ok bool) {
	pipes := make([][2]*os.File, len(stages)-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			lr.errorf("pipe: %s", commands.DescribeError(err))
			lr.closePipes(pipes)
			return 1, false
		}
		pipes[i] = [2]*os.File{r, w}
	}

	for i, stage := range stages {
		sr := &stageRun{
			stage:  stage,
			stdin:  lr.Stdin,
			stdout: lr.Stdout,
			stderr: lr.Stderr,
		}
		if i > 0 {
			sr.stdin = pipes[i-1][0]
		}
		if i < len(pipes) {
			sr.stdout = pipes[i][1]
		}
		lr.stages = append(lr.stages, sr)

		var owned listCloser
		err := lr.startStage(sr, len(stages) == 1, &owned)

		// The parent's copies of this stage's descriptors are no longer needed
		// once the child has its own.
		owned.Close()
		if i > 0 {
			pipes[i-1][0].Close()
		}
		if i < len(pipes) {
			pipes[i][1].Close()
		}

		if err != nil {
			lr.errorf("%s", err)
			for _, p := range pipes[i:] {
				p[0].Close()
				p[1].Close()
			}
			lr.abort()
			return 1, false
		}
	}
	return 0, true
}

func (lr *launch) closePipes(pipes [][2]*os.File) {
	for _, p := range pipes {
		for _, f := range p {
			if f != nil {
				f.Close()
			}
		}
	}
}

// abort kills and reaps every child started so far.
func (lr *launch) abort() {
	for _, sr := range lr.stages {
		if sr.cmd == nil || sr.cmd.Process == nil {
			continue
		}
		sr.cmd.Process.Kill()
		sr.cmd.Wait()
	}
}

// startStage applies the redirections of one stage and starts it. Redirection
// and lookup failures are reported and become the stage status; only a
// failure to start a process is returned.
func (lr *launch) startStage(sr *stageRun, solitary bool, owned *listCloser) error {
	if !lr.redirect(sr, owned) {
		sr.status = 1
		return nil
	}

	var assignments []env.Assignment
	for _, tok := range sr.stage.Args {
		if tok.Kind == Assign && len(sr.argv) == 0 {
			a, _ := env.ParseAssignment(tok.Value)
			a.Value = lr.expander.Word(a.Value)
			assignments = append(assignments, a)
			continue
		}
		sr.argv = append(sr.argv, lr.expander.Fields(tok.Value)...)
	}

	if len(sr.argv) == 0 {
		// Bare assignments only change the shell when they aren't piped.
		if solitary {
			for _, a := range assignments {
				lr.Vars.Assign(a)
			}
		}
		sr.status = 0
		return nil
	}

	childEnv := lr.Vars.Clone()
	for _, a := range assignments {
		childEnv.Export(a, true)
	}

	if builtin, ok := lr.Builtins.Lookup(sr.argv[0]); ok {
		lr.Log.Record(&logger.Builtin{Command: sr.argv, Detached: !solitary})
		if solitary {
			sr.status = lr.runBuiltin(sr, builtin, assignments)
			return nil
		}
		if lr.BuiltinCommand == nil {
			return fmt.Errorf("%s: builtins can't run in a pipeline", sr.argv[0])
		}
		sr.cmd = lr.BuiltinCommand(lr.expander.LastStatus, sr.argv, childEnv.Merged())
		return lr.startCmd(sr)
	}

	path, err := LookPath(lr.Fs, lr.Vars.Getenv("PATH"), sr.argv[0])
	if err != nil {
		msg, status := lookPathStatus(sr.argv[0], err)
		lr.errorf("%s", msg)
		lr.Log.Record(&logger.UnknownCommand{Command: sr.argv, Status: status, ErrorMessage: msg})
		sr.status = status
		return nil
	}

	sr.cmd = &exec.Cmd{
		Path: path,
		Args: sr.argv,
		Env:  childEnv.Merged(),
	}
	return lr.startCmd(sr)
}

func (lr *launch) startCmd(sr *stageRun) error {
	sr.cmd.Stdin = sr.stdin
	sr.cmd.Stdout = sr.stdout
	sr.cmd.Stderr = sr.stderr

	if err := sr.cmd.Start(); err != nil {
		sr.cmd = nil
		return fmt.Errorf("%s: %s", sr.argv[0], commands.DescribeError(err))
	}
	return nil
}

// runBuiltin runs a builtin in the shell process so its effects persist.
// Prefix assignments only apply for the duration of the call.
func (lr *launch) runBuiltin(sr *stageRun, builtin commands.Builtin, assignments []env.Assignment) int {
	vars := lr.Vars
	if len(assignments) > 0 {
		vars = lr.Vars.Clone()
		for _, a := range assignments {
			vars.Export(a, true)
		}
	}

	return builtin(&commands.Proc{
		Args:        sr.argv,
		Stdin:       sr.stdin,
		Stdout:      sr.stdout,
		Stderr:      sr.stderr,
		Vars:        vars,
		LastStatus:  lr.expander.LastStatus,
		Interactive: lr.Interactive,
		Exit:        lr.Exit,
	})
}

// redirect applies the stage's redirections in order. It returns false if one
// failed; the remaining heredocs of the stage are still dequeued.
func (lr *launch) redirect(sr *stageRun, owned *listCloser) bool {
	heredocs := sr.stage.Heredocs()
	failed := false

	for _, r := range sr.stage.Redirects {
		if r.Kind == Heredoc {
			heredocs--
			if failed || heredocs > 0 {
				lr.skipHeredoc()
				continue
			}

			fd, err := lr.nextHeredoc()
			if err != nil {
				lr.errorf("%s", err)
				failed = true
				continue
			}
			*owned = append(*owned, fd)
			sr.stdin = fd
			continue
		}

		if failed {
			continue
		}

		fd, err := lr.openTarget(r)
		if err != nil {
			lr.errorf("%s", err)
			failed = true
			continue
		}
		*owned = append(*owned, fd)

		if r.Kind == Infile {
			sr.stdin = fd
		} else {
			sr.stdout = fd
		}
	}

	return !failed
}

func (lr *launch) nextHeredoc() (afero.File, error) {
	if lr.Heredocs == nil {
		return nil, errors.New("here-document: nothing was captured")
	}
	return lr.Heredocs.Next()
}

func (lr *launch) skipHeredoc() {
	if lr.Heredocs != nil {
		lr.Heredocs.Skip()
	}
}

func (lr *launch) openTarget(r Redirect) (afero.File, error) {
	fields := lr.expander.Fields(r.Target.Value)
	if len(fields) != 1 {
		return nil, fmt.Errorf("%s: %w", r.Target.Value, ErrAmbiguousRedirect)
	}
	path := fields[0]

	var flag int
	switch r.Kind {
	case Infile:
		flag = os.O_RDONLY
	case Outfile:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case Append:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	fd, err := lr.Fs.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, commands.DescribeError(err))
	}
	return fd, nil
}

// wait collects every started child in order and returns the status of the
// last stage.
func (lr *launch) wait() int {
	for _, sr := range lr.stages {
		if sr.cmd == nil {
			continue
		}
		sr.cmd.Wait()
		sr.status = ExitStatus(sr.cmd.ProcessState)
	}
	return lr.stages[len(lr.stages)-1].status
}

// ExitStatus translates a process termination into a shell status: the exit
// code, or 128 plus the signal number.
func ExitStatus(state *os.ProcessState) int {
	if state == nil {
		return 1
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
