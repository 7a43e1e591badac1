package terminal

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newPipeKeyboard(t *testing.T) (*Keyboard, *io.PipeWriter) {
	t.Helper()
	r, w := io.Pipe()
	kb := NewKeyboard(r)
	t.Cleanup(func() {
		_ = kb.Close()
		_ = w.Close()
	})
	return kb, w
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in   byte
		want Key
	}{
		{'\r', KeyEnter},
		{'\n', KeyEnter},
		{' ', KeySpace},
		{0x03, KeyCtrlC},
		{'q', KeyOther},
		{0x1b, KeyOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decode(tt.in), "decode(%q)", tt.in)
	}
}

func TestKeyboard_NextKey(t *testing.T) {
	kb, w := newPipeKeyboard(t)

	go func() { _, _ = w.Write([]byte(" x\r")) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, want := range []Key{KeySpace, KeyOther, KeyEnter} {
		got, err := kb.NextKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestKeyboard_ContextCancel(t *testing.T) {
	kb, _ := newPipeKeyboard(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := kb.NextKey(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyboard_Interrupted(t *testing.T) {
	kb, w := newPipeKeyboard(t)

	select {
	case <-kb.Interrupted():
		t.Fatal("Interrupted() closed before Ctrl-C")
	default:
	}

	_, err := w.Write([]byte{0x03})
	require.NoError(t, err)

	select {
	case <-kb.Interrupted():
	case <-time.After(2 * time.Second):
		t.Fatal("Interrupted() not closed after Ctrl-C")
	}

	// A second Ctrl-C must not panic on the closed channel
	_, err = w.Write([]byte{0x03})
	require.NoError(t, err)
}

func TestKeyboard_Discard(t *testing.T) {
	kb, w := newPipeKeyboard(t)

	_, err := w.Write([]byte("  \r"))
	require.NoError(t, err)

	// io.Pipe hands the whole write to the reader before Write returns,
	// so the keys are buffered once dispatch finishes
	require.Eventually(t, func() bool { return len(kb.keys) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, kb.Discard())
	assert.Equal(t, 0, kb.Discard())
}

func TestKeyboard_EOF(t *testing.T) {
	kb, w := newPipeKeyboard(t)
	require.NoError(t, w.Close())

	_, err := kb.NextKey(context.Background())
	assert.True(t, errors.Is(err, io.EOF) || errors.Is(err, ErrClosed), "err = %v", err)
}

func TestKeyboard_CloseIdempotent(t *testing.T) {
	kb, _ := newPipeKeyboard(t)

	require.NoError(t, kb.Close())
	require.NoError(t, kb.Close())

	_, err := kb.NextKey(context.Background())
	assert.True(t, errors.Is(err, ErrClosed) || errors.Is(err, io.EOF), "err = %v", err)
}

func TestKeyboard_CloseUnblocksNextKey(t *testing.T) {
	kb, _ := newPipeKeyboard(t)

	errCh := make(chan error, 1)
	go func() {
		_, err := kb.NextKey(context.Background())
		errCh <- err
	}()

	require.NoError(t, kb.Close())

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("NextKey did not return after Close")
	}
}
