package shell

import (
	"io"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readResult struct {
	n    int
	data string
	err  error
}

func readAsync(r io.Reader) <-chan readResult {
	out := make(chan readResult, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := r.Read(buf)
		out <- readResult{n: n, data: string(buf[:n]), err: err}
	}()
	return out
}

func awaitRead(t *testing.T, results <-chan readResult) readResult {
	t.Helper()

	select {
	case res := <-results:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("read is still blocked")
		return readResult{}
	}
}

func TestInterruptibleReader(t *testing.T) {
	t.Run("passes-data-through", func(t *testing.T) {
		ir := newInterruptibleReader(strings.NewReader("hello\nworld\n"), nil)

		body, err := ioutil.ReadAll(ir)
		require.NoError(t, err)
		assert.Equal(t, "hello\nworld\n", string(body))
	})

	t.Run("interrupts-blocked-read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		ir := newInterruptibleReader(pr, nil)

		results := readAsync(ir)
		ir.Interrupt()

		res := awaitRead(t, results)
		assert.ErrorIs(t, res.err, ErrInterrupt)
		assert.Equal(t, 0, res.n)
	})

	t.Run("keeps-data-of-abandoned-read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		ir := newInterruptibleReader(pr, nil)

		results := readAsync(ir)
		ir.Interrupt()
		awaitRead(t, results)

		results = readAsync(ir)
		_, err := pw.Write([]byte("typed\n"))
		require.NoError(t, err)

		res := awaitRead(t, results)
		require.NoError(t, res.err)
		assert.Equal(t, "typed\n", res.data)
	})

	t.Run("keystroke", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		ir := newInterruptibleReader(pr, []byte{3})

		results := readAsync(ir)
		ir.Interrupt()

		res := awaitRead(t, results)
		require.NoError(t, res.err)
		assert.Equal(t, "\x03", res.data)
	})

	t.Run("interrupt-before-read", func(t *testing.T) {
		ir := newInterruptibleReader(strings.NewReader("data"), nil)
		ir.Interrupt()

		res := awaitRead(t, readAsync(ir))
		assert.ErrorIs(t, res.err, ErrInterrupt)

		res = awaitRead(t, readAsync(ir))
		require.NoError(t, res.err)
		assert.Equal(t, "data", res.data)
	})

	t.Run("reset", func(t *testing.T) {
		ir := newInterruptibleReader(strings.NewReader("data"), nil)
		ir.Interrupt()
		ir.Reset()

		res := awaitRead(t, readAsync(ir))
		require.NoError(t, res.err)
		assert.Equal(t, "data", res.data)
	})

	t.Run("close", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		ir := newInterruptibleReader(pr, nil)

		results := readAsync(ir)
		require.NoError(t, ir.Close())

		res := awaitRead(t, results)
		assert.Equal(t, io.EOF, res.err)
	})
}

func TestScannerEditor(t *testing.T) {
	t.Run("lines", func(t *testing.T) {
		e := newScannerEditor(strings.NewReader("a\nb"))

		for _, expected := range []string{"a", "b"} {
			line, err := e.Readline()
			require.NoError(t, err)
			assert.Equal(t, expected, line)
		}

		_, err := e.Readline()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("interrupt-drops-partial-line", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		e := newScannerEditor(pr)

		lines := make(chan error, 1)
		go func() {
			_, err := e.Readline()
			lines <- err
		}()

		_, err := pw.Write([]byte("partial"))
		require.NoError(t, err)
		e.InterruptRead()

		select {
		case err := <-lines:
			assert.ErrorIs(t, err, ErrInterrupt)
		case <-time.After(2 * time.Second):
			t.Fatal("Readline is still blocked")
		}

		go func() {
			pw.Write([]byte("next\n"))
		}()
		line, err := e.Readline()
		require.NoError(t, err)
		assert.Equal(t, "next", line)
	})
}
