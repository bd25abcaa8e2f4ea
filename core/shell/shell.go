package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/minishell/commands"
	"github.com/josephlewis42/minishell/core/config"
	"github.com/josephlewis42/minishell/core/env"
	"github.com/josephlewis42/minishell/core/logger"
	"github.com/spf13/afero"
)

const (
	EnvHome  = "HOME"
	EnvPWD   = "PWD"
	EnvPath  = "PATH"
	EnvUser  = "USER"
	EnvShlvl = "SHLVL"

	DefaultPrompt = `\u@\h:\w\$ `
)

// Options configures a Shell.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environ is the initial exported environment.
	Environ []string
	Config  *config.Configuration

	// Editor supplies interactive input. It may be nil when the shell only
	// runs lines passed to RunLine.
	Editor LineEditor

	// Fs is used for redirections, command lookup and heredoc storage. It
	// defaults to the OS filesystem.
	Fs afero.Fs

	Signals        *SignalController
	Log            *logger.SessionLogger
	BuiltinCommand BuiltinCommandFunc

	Interactive bool
	Color       bool
}

// Shell holds the state of an interactive session.
type Shell struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	config   *config.Configuration
	editor   LineEditor
	vars     *env.Vars
	heredocs *HeredocQueue
	signals  *SignalController
	log      *logger.SessionLogger
	launcher *Launcher

	interactive bool
	color       bool

	lastStatus int
	exitCode   *int
}

// New creates a shell.
func New(opts Options) *Shell {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	s := &Shell{
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		config:      cfg,
		editor:      opts.Editor,
		vars:        env.NewVars(opts.Environ),
		signals:     opts.Signals,
		log:         opts.Log,
		interactive: opts.Interactive,
		color:       opts.Color,
	}

	s.heredocs = NewHeredocQueue(fsys, cfg.HeredocDir)
	s.heredocs.Stderr = s.stderr
	s.heredocs.ProgramName = cfg.ProgramName
	if cfg.HeredocPrompt != "" {
		s.heredocs.Prompt = cfg.HeredocPrompt
	}

	s.launcher = &Launcher{
		Stdin:          s.stdin,
		Stdout:         s.stdout,
		Stderr:         s.stderr,
		Fs:             fsys,
		Vars:           s.vars,
		Builtins:       commands.Builtins(),
		Heredocs:       s.heredocs,
		Signals:        s.signals,
		Log:            s.log,
		BuiltinCommand: opts.BuiltinCommand,
		ProgramName:    cfg.ProgramName,
		Interactive:    s.interactive,
		Exit: func(code int) {
			s.exitCode = &code
		},
	}

	s.init()
	return s
}

// init sets up the environment similar to a login shell.
func (s *Shell) init() {
	level, err := strconv.Atoi(s.vars.Getenv(EnvShlvl))
	if err != nil || level < 0 {
		level = 0
	}
	s.vars.Setenv(EnvShlvl, strconv.Itoa(level+1))

	if wd, err := os.Getwd(); err == nil {
		s.vars.Setenv(EnvPWD, wd)
	}
}

// Vars returns the shell variables.
func (s *Shell) Vars() *env.Vars {
	return s.vars
}

// LastStatus is the status of the most recent line.
func (s *Shell) LastStatus() int {
	return s.lastStatus
}

// ExitCode returns the status requested by the exit builtin, if it ran.
func (s *Shell) ExitCode() (int, bool) {
	if s.exitCode == nil {
		return 0, false
	}
	return *s.exitCode, true
}

func (s *Shell) errorf(format string, a ...interface{}) {
	fmt.Fprintf(s.stderr, "%s: %s\n", s.config.ProgramName, fmt.Sprintf(format, a...))
}

func (s *Shell) prompt() string {
	if !s.interactive {
		return ""
	}

	prompt := s.config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	green := color.New(color.FgGreen, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	if s.color {
		green.EnableColor()
		blue.EnableColor()
	} else {
		green.DisableColor()
		blue.DisableColor()
	}

	user := s.vars.Getenv(EnvUser)
	host, _ := os.Hostname()
	if idx := strings.IndexByte(host, '.'); idx >= 0 {
		host = host[:idx]
	}

	pwd := s.vars.Getenv(EnvPWD)
	if wd, err := os.Getwd(); err == nil {
		pwd = wd
	}
	if home := s.vars.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	prompt = strings.ReplaceAll(prompt, `\u`, green.Sprint(user))
	prompt = strings.ReplaceAll(prompt, `\h`, green.Sprint(host))
	prompt = strings.ReplaceAll(prompt, `\w`, blue.Sprint(pwd))

	if os.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and executes lines until the input ends or exit is called and
// returns the shell's exit status.
func (s *Shell) Run() int {
	if s.editor == nil {
		s.editor = newScannerEditor(s.stdin)
	}

	for {
		if code, ok := s.ExitCode(); ok {
			return code
		}
		s.takeInterrupt()

		s.editor.SetPrompt(s.prompt())
		line, err := s.editor.Readline()
		s.takeInterrupt()

		switch {
		case errors.Is(err, io.EOF):
			if s.interactive {
				fmt.Fprintln(s.stderr, "exit")
			}
			return s.lastStatus

		case errors.Is(err, ErrInterrupt):
			// Interrupt clears line.
			s.lastStatus = InterruptStatus
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return 1
		}

		if err := s.editor.SaveHistory(line); err != nil {
			log.Printf("Error saving history: %v", err)
		}
		s.RunLine(line)
	}
}

// takeInterrupt applies the status of an interrupt delivered as a signal.
func (s *Shell) takeInterrupt() {
	if s.signals != nil && s.signals.TakeInterrupt() {
		s.lastStatus = InterruptStatus
	}
}

// RunLine parses and executes a single line and returns its status. Per-line
// state is discarded before it returns.
func (s *Shell) RunLine(line string) int {
	s.heredocs.Line++
	s.log.Record(&logger.Line{Text: line})

	skip, err := Validate(line)
	if err != nil {
		return s.syntaxError(line, err)
	}
	if skip {
		return s.lastStatus
	}

	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return s.lastStatus
	}

	root, err := Build(tokens)
	if err != nil {
		return s.syntaxError(line, err)
	}

	stages := Plan(root)
	if err := s.captureHeredocs(stages); err != nil {
		if errors.Is(err, ErrHeredocInterrupted) {
			s.lastStatus = InterruptStatus
		} else {
			s.errorf("%v", err)
			s.lastStatus = 1
		}
		return s.lastStatus
	}

	s.lastStatus = s.launcher.Run(stages, s.lastStatus)
	return s.lastStatus
}

func (s *Shell) syntaxError(line string, err error) int {
	s.errorf("%v", err)
	s.log.Record(&logger.SyntaxError{Text: line, Message: err.Error()})
	s.lastStatus = 2
	return s.lastStatus
}

func (s *Shell) captureHeredocs(stages []*Stage) error {
	count := 0
	for _, stage := range stages {
		count += stage.Heredocs()
	}
	if count == 0 {
		return nil
	}

	if s.editor == nil {
		s.editor = newScannerEditor(s.stdin)
	}

	cancel := s.heredocs.Cancel
	if ri, ok := s.editor.(ReadInterrupter); ok {
		cancel = func() {
			s.heredocs.Cancel()
			ri.InterruptRead()
		}
		// Runs after the hook is unregistered below.
		defer ri.ResetInterrupt()
	}

	if s.signals != nil {
		s.signals.OnHeredocInterrupt(cancel)
		s.transition(ModeHeredoc)
		defer func() {
			s.transition(ModePrompt)
			s.signals.OnHeredocInterrupt(nil)
		}()
	}

	err := s.heredocs.Prefetch(stages, s.editor)
	s.log.Record(&logger.Heredoc{Count: count, Interrupted: errors.Is(err, ErrHeredocInterrupted)})
	return err
}

func (s *Shell) transition(to Mode) {
	if err := s.signals.Transition(to); err != nil {
		s.errorf("%v", err)
	}
}

// scannerEditor reads lines from a plain reader when there is no terminal.
type scannerEditor struct {
	in *interruptibleReader
	r  *bufio.Reader
}

var (
	_ LineEditor      = (*scannerEditor)(nil)
	_ ReadInterrupter = (*scannerEditor)(nil)
)

func newScannerEditor(r io.Reader) *scannerEditor {
	if r == nil {
		r = strings.NewReader("")
	}
	in := newInterruptibleReader(r, nil)
	return &scannerEditor{in: in, r: bufio.NewReader(in)}
}

func (e *scannerEditor) Readline() (string, error) {
	line, err := e.r.ReadString('\n')
	switch {
	case errors.Is(err, ErrInterrupt):
		// The partial line is dropped like a line cleared with Ctrl-C.
		return "", err
	case err == io.EOF && line != "":
		err = nil
	}
	return strings.TrimSuffix(line, "\n"), err
}

func (e *scannerEditor) InterruptRead() { e.in.Interrupt() }

func (e *scannerEditor) ResetInterrupt() { e.in.Reset() }

func (e *scannerEditor) SetPrompt(string) {}

func (e *scannerEditor) SaveHistory(string) error { return nil }

func (e *scannerEditor) Close() error { return e.in.Close() }
