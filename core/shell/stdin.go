package shell

import (
	"io"
	"sync"
)

// ReadInterrupter is implemented by line readers whose blocked Readline can be
// cut short from another goroutine.
type ReadInterrupter interface {
	// InterruptRead makes the pending, or else the next, Readline return
	// ErrInterrupt.
	InterruptRead()
	// ResetInterrupt drops an interrupt no Readline has consumed yet.
	ResetInterrupt()
}

type readChunk struct {
	data []byte
	err  error
}

// interruptibleReader reads from r on its own goroutine so a blocked Read can
// be abandoned. The goroutine only reads when a Read asks it to, so nothing is
// consumed from r while no one is reading. Data from an abandoned read is
// returned by the next Read.
type interruptibleReader struct {
	r io.Reader
	// keystroke is returned by an interrupted Read. If it's empty the Read
	// fails with ErrInterrupt instead.
	keystroke []byte

	start   sync.Once
	stopped sync.Once
	reqs    chan struct{}
	chunks  chan readChunk
	kick    chan struct{}
	stop    chan struct{}

	mu      sync.Mutex
	pending bool
	buf     []byte
	err     error
}

var _ io.ReadCloser = (*interruptibleReader)(nil)

func newInterruptibleReader(r io.Reader, keystroke []byte) *interruptibleReader {
	return &interruptibleReader{
		r:         r,
		keystroke: keystroke,
		reqs:      make(chan struct{}),
		chunks:    make(chan readChunk),
		kick:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
}

func (ir *interruptibleReader) ioloop() {
	for {
		select {
		case <-ir.reqs:
		case <-ir.stop:
			return
		}

		data := make([]byte, 4096)
		n, err := ir.r.Read(data)
		select {
		case ir.chunks <- readChunk{data: data[:n], err: err}:
		case <-ir.stop:
			return
		}
		if err != nil {
			return
		}
	}
}

// Read implements io.Reader.
func (ir *interruptibleReader) Read(p []byte) (int, error) {
	ir.mu.Lock()
	defer ir.mu.Unlock()

	if len(ir.buf) == 0 && ir.err == nil {
		select {
		case <-ir.kick:
			return ir.interrupted(p)
		default:
		}

		if !ir.pending {
			ir.start.Do(func() { go ir.ioloop() })
			select {
			case ir.reqs <- struct{}{}:
				ir.pending = true
			case <-ir.stop:
				return 0, io.EOF
			}
		}

		select {
		case chunk := <-ir.chunks:
			ir.pending = false
			ir.buf, ir.err = chunk.data, chunk.err
		case <-ir.kick:
			return ir.interrupted(p)
		case <-ir.stop:
			return 0, io.EOF
		}
	}

	n := copy(p, ir.buf)
	ir.buf = ir.buf[n:]
	if len(ir.buf) == 0 && ir.err != nil {
		return n, ir.err
	}
	return n, nil
}

func (ir *interruptibleReader) interrupted(p []byte) (int, error) {
	if len(ir.keystroke) == 0 {
		return 0, ErrInterrupt
	}
	return copy(p, ir.keystroke), nil
}

// Interrupt cuts short the pending Read, or the next one if none is blocked.
func (ir *interruptibleReader) Interrupt() {
	select {
	case ir.kick <- struct{}{}:
	default:
	}
}

// Reset drops an unconsumed interrupt.
func (ir *interruptibleReader) Reset() {
	select {
	case <-ir.kick:
	default:
	}
}

// Close makes every later Read return io.EOF. It doesn't close r.
func (ir *interruptibleReader) Close() error {
	ir.stopped.Do(func() { close(ir.stop) })
	return nil
}
