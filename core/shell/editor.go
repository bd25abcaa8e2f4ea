package shell

import (
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
)

// ErrInterrupt is returned by a LineReader when the user presses Ctrl-C.
var ErrInterrupt = readline.ErrInterrupt

// LineReader supplies input one line at a time. It returns io.EOF when the
// input is closed and ErrInterrupt when the pending line was cancelled.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// LineEditor is the interactive input source of the shell.
type LineEditor interface {
	LineReader
	SaveHistory(line string) error
	Close() error
}

// EditorConfig configures a ReadlineEditor.
type EditorConfig struct {
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	HistoryFile  string
	HistoryLimit int
	IsTerminal   func() bool
}

// ReadlineEditor is a LineEditor backed by readline.
type ReadlineEditor struct {
	rl    *readline.Instance
	stdin *interruptibleReader
}

var (
	_ LineEditor      = (*ReadlineEditor)(nil)
	_ ReadInterrupter = (*ReadlineEditor)(nil)
)

// NewReadlineEditor creates a line editor. History is only recorded through
// SaveHistory.
func NewReadlineEditor(config EditorConfig) (*ReadlineEditor, error) {
	in := config.Stdin
	if in == nil {
		in = os.Stdin
	}
	// An interrupt is delivered to readline as a typed Ctrl-C.
	stdin := newInterruptibleReader(in, []byte{readline.CharInterrupt})
	cfg := &readline.Config{
		Stdin:                  stdin,
		Stdout:                 config.Stdout,
		Stderr:                 config.Stderr,
		HistoryFile:            config.HistoryFile,
		HistoryLimit:           config.HistoryLimit,
		DisableAutoSaveHistory: true,
		FuncIsTerminal:         config.IsTerminal,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineEditor{rl: rl, stdin: stdin}, nil
}

// Readline reads the next line.
func (r *ReadlineEditor) Readline() (string, error) {
	return r.rl.Readline()
}

// SetPrompt sets the prompt for the next Readline call.
func (r *ReadlineEditor) SetPrompt(prompt string) {
	r.rl.SetPrompt(prompt)
}

// SaveHistory records line if it has any non-blank characters.
func (r *ReadlineEditor) SaveHistory(line string) error {
	if !ShouldSaveHistory(line) {
		return nil
	}
	return r.rl.SaveHistory(line)
}

// Close releases the terminal.
func (r *ReadlineEditor) Close() error {
	err := r.rl.Close()
	r.stdin.Close()
	return err
}

// InterruptRead makes the pending Readline return ErrInterrupt.
func (r *ReadlineEditor) InterruptRead() {
	r.stdin.Interrupt()
}

// ResetInterrupt drops an interrupt readline hasn't seen yet.
func (r *ReadlineEditor) ResetInterrupt() {
	r.stdin.Reset()
}

// ShouldSaveHistory is true for lines with at least one non-blank character.
func ShouldSaveHistory(line string) bool {
	return strings.Trim(line, blanks) != ""
}
