package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Mode is the signal disposition of the shell.
type Mode int32

const (
	// ModePrompt is active while reading a command line.
	ModePrompt Mode = iota
	// ModeHeredoc is active while capturing heredoc bodies.
	ModeHeredoc
	// ModePreExec is active while a pipeline is being started.
	ModePreExec
	// ModeSupervise is active while waiting for children.
	ModeSupervise
)

func (m Mode) String() string {
	switch m {
	case ModePrompt:
		return "prompt"
	case ModeHeredoc:
		return "heredoc"
	case ModePreExec:
		return "pre-exec"
	case ModeSupervise:
		return "supervise"
	default:
		return fmt.Sprintf("Mode(%d)", int32(m))
	}
}

var modeTransitions = map[Mode][]Mode{
	ModePrompt:    {ModeHeredoc, ModePreExec},
	ModeHeredoc:   {ModePrompt},
	ModePreExec:   {ModeSupervise, ModePrompt},
	ModeSupervise: {ModePrompt},
}

// InterruptStatus is the exit status after an interactive interrupt.
const InterruptStatus = 130

// SignalController owns the shell's handling of SIGINT, SIGQUIT and SIGTSTP.
//
// Signals are always caught rather than ignored so programs the shell starts
// begin with the default dispositions.
type SignalController struct {
	// Out receives the newline and notices printed by the handlers.
	Out io.Writer

	mode        int32
	interrupted int32

	mu     sync.Mutex
	cancel func()

	sigs chan os.Signal
	done chan struct{}
}

// NewSignalController creates a controller in prompt mode. Call Start to
// begin receiving signals.
func NewSignalController(out io.Writer) *SignalController {
	return &SignalController{Out: out}
}

// Start subscribes to the signals and handles them on a goroutine until Stop.
func (c *SignalController) Start() {
	c.sigs = make(chan os.Signal, 4)
	c.done = make(chan struct{})
	signal.Notify(c.sigs, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTSTP)

	go func() {
		defer close(c.done)
		for sig := range c.sigs {
			c.Handle(sig)
		}
	}()
}

// Stop restores the default handling.
func (c *SignalController) Stop() {
	if c.sigs == nil {
		return
	}
	signal.Stop(c.sigs)
	close(c.sigs)
	<-c.done
	c.sigs = nil
}

// Mode returns the current mode.
func (c *SignalController) Mode() Mode {
	return Mode(atomic.LoadInt32(&c.mode))
}

// Transition switches modes. Only the documented transitions are allowed:
// prompt to heredoc and back, and prompt to pre-exec to supervise to prompt.
// An aborted launch may go from pre-exec straight back to prompt.
func (c *SignalController) Transition(to Mode) error {
	from := c.Mode()
	if from == to {
		return nil
	}
	for _, allowed := range modeTransitions[from] {
		if allowed == to {
			atomic.StoreInt32(&c.mode, int32(to))
			return nil
		}
	}
	return fmt.Errorf("invalid signal mode transition %s -> %s", from, to)
}

// OnHeredocInterrupt registers the function that closes pending heredoc
// input. It is cleared by passing nil.
func (c *SignalController) OnHeredocInterrupt(cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = cancel
}

// TakeInterrupt reports whether an interrupt set the status to 130 since the
// last call.
func (c *SignalController) TakeInterrupt() bool {
	return atomic.SwapInt32(&c.interrupted, 0) != 0
}

// Handle applies the current mode's disposition to sig.
func (c *SignalController) Handle(sig os.Signal) {
	switch c.Mode() {
	case ModePrompt:
		if sig == syscall.SIGINT {
			fmt.Fprintln(c.Out)
			atomic.StoreInt32(&c.interrupted, 1)
		}

	case ModeHeredoc:
		if sig == syscall.SIGINT {
			c.mu.Lock()
			cancel := c.cancel
			c.mu.Unlock()
			if cancel != nil {
				cancel()
			}
			atomic.StoreInt32(&c.interrupted, 1)
		}

	case ModePreExec:
		// Children handle their own signals.

	case ModeSupervise:
		switch sig {
		case syscall.SIGINT:
			fmt.Fprintln(c.Out)
		case syscall.SIGQUIT:
			fmt.Fprintln(c.Out, "Quit (core dumped)")
		}
	}
}
