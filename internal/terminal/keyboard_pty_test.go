package terminal

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

// newPTY opens a pseudo terminal pair and a second handle on the terminal
// side for reading its mode. Skips when no pty is available.
func newPTY(t *testing.T) (ptmx, tty *os.File, modeOf func() *term.State) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	t.Cleanup(func() { _ = ptmx.Close() })

	observer, err := os.OpenFile(tty.Name(), os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		_ = tty.Close()
		t.Skipf("cannot reopen %s: %v", tty.Name(), err)
	}
	t.Cleanup(func() { _ = observer.Close() })

	fd := int(observer.Fd())
	modeOf = func() *term.State {
		state, err := term.GetState(fd)
		require.NoError(t, err)
		return state
	}
	return ptmx, tty, modeOf
}

func TestOpenTerminal_RawModeRestoredOnClose(t *testing.T) {
	ptmx, tty, modeOf := newPTY(t)

	before := modeOf()
	kb, err := OpenTerminal(tty)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kb.Close() })

	assert.NotEqual(t, before, modeOf(), "terminal mode unchanged after OpenTerminal")

	// Without a newline a cooked terminal would hold the space back
	_, err = ptmx.Write([]byte(" "))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key, err := kb.NextKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, KeySpace, key)

	require.NoError(t, kb.Close())
	assert.Equal(t, before, modeOf(), "terminal mode not restored by Close")
}

func TestOpenTerminal_CloseWithoutInput(t *testing.T) {
	_, tty, _ := newPTY(t)

	kb, err := OpenTerminal(tty)
	require.NoError(t, err)

	// Let the reader park in Read
	time.Sleep(100 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- kb.Close() }()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked with no key pressed")
	}

	_, err = kb.NextKey(context.Background())
	assert.True(t, errors.Is(err, ErrClosed) || errors.Is(err, io.EOF), "err = %v", err)
}

func TestOpenTerminal_CtrlCIsAKey(t *testing.T) {
	ptmx, tty, _ := newPTY(t)

	kb, err := OpenTerminal(tty)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kb.Close() })

	// In cooked mode the line discipline would turn this into SIGINT
	_, err = ptmx.Write([]byte{0x03})
	require.NoError(t, err)

	select {
	case <-kb.Interrupted():
	case <-time.After(2 * time.Second):
		t.Fatal("Interrupted() not closed after Ctrl-C on the terminal")
	}
}

func TestOpenTerminal_NotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	kb, err := OpenTerminal(r)
	assert.ErrorIs(t, err, ErrNotTerminal)
	assert.Nil(t, kb)
}
