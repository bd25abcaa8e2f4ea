package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/afero"
)

// ErrHeredocInterrupted is returned when a capture was cancelled by the user.
var ErrHeredocInterrupted = errors.New("here-document interrupted")

// HeredocQueue captures heredoc bodies before a pipeline starts and hands them
// out in the same order while it launches.
//
// Each body lives in its own temporary file on Fs until it is dequeued.
type HeredocQueue struct {
	Fs  afero.Fs
	Dir string

	// Prompt is shown for each body line.
	Prompt string

	// Stderr receives end-of-file warnings.
	Stderr      io.Writer
	ProgramName string

	// Line counts the input lines read so far, warnings report it.
	Line int

	pending  []string
	canceled int32
}

// NewHeredocQueue creates a queue storing bodies in dir on fs.
func NewHeredocQueue(fs afero.Fs, dir string) *HeredocQueue {
	return &HeredocQueue{
		Fs:          fs,
		Dir:         dir,
		Prompt:      "> ",
		Stderr:      io.Discard,
		ProgramName: "minishell",
	}
}

// Prefetch captures the body of every heredoc in stages, in execution order.
// On failure nothing stays queued.
func (q *HeredocQueue) Prefetch(stages []*Stage, in LineReader) error {
	atomic.StoreInt32(&q.canceled, 0)

	for _, stage := range stages {
		for _, redirect := range stage.Redirects {
			if redirect.Kind != Heredoc {
				continue
			}

			if err := q.capture(RemoveQuotes(redirect.Target.Value), in); err != nil {
				q.Discard()
				return err
			}
		}
	}
	return nil
}

// Cancel aborts a running capture. It's safe to call from another goroutine.
func (q *HeredocQueue) Cancel() {
	atomic.StoreInt32(&q.canceled, 1)
}

func (q *HeredocQueue) isCanceled() bool {
	return atomic.LoadInt32(&q.canceled) != 0
}

func (q *HeredocQueue) capture(delim string, in LineReader) error {
	fd, err := afero.TempFile(q.Fs, q.Dir, "minishell-heredoc-")
	if err != nil {
		return fmt.Errorf("creating here-document: %w", err)
	}
	defer fd.Close()
	q.pending = append(q.pending, fd.Name())

	start := q.Line
	w := bufio.NewWriter(fd)
	in.SetPrompt(q.Prompt)
	for {
		line, err := in.Readline()
		switch {
		case q.isCanceled(), errors.Is(err, ErrInterrupt):
			return ErrHeredocInterrupted

		case errors.Is(err, io.EOF):
			fmt.Fprintf(q.Stderr, "%s: warning: here-document at line %d delimited by end-of-file (wanted `%s')\n", q.ProgramName, start, delim)
			return w.Flush()

		case err != nil:
			return err
		}

		q.Line++
		if line == delim {
			return w.Flush()
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
}

// Len is the number of bodies still queued.
func (q *HeredocQueue) Len() int {
	return len(q.pending)
}

func (q *HeredocQueue) pop() (string, error) {
	if len(q.pending) == 0 {
		return "", errors.New("here-document queue is empty")
	}
	name := q.pending[0]
	q.pending = q.pending[1:]
	return name, nil
}

// Next dequeues the oldest body. The backing file is removed as soon as it is
// open, so the returned handle is the only reference left.
func (q *HeredocQueue) Next() (afero.File, error) {
	name, err := q.pop()
	if err != nil {
		return nil, err
	}

	fd, err := q.Fs.Open(name)
	if rmErr := q.Fs.Remove(name); err == nil && rmErr != nil {
		fd.Close()
		return nil, rmErr
	}
	return fd, err
}

// Skip dequeues the oldest body without reading it.
func (q *HeredocQueue) Skip() error {
	name, err := q.pop()
	if err != nil {
		return err
	}
	return q.Fs.Remove(name)
}

// Discard removes every body still queued.
func (q *HeredocQueue) Discard() error {
	var lastErr error
	for q.Len() > 0 {
		if err := q.Skip(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
