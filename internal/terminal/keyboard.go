// Package terminal reads single keypresses from the controlling terminal.
package terminal

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ErrClosed is returned by NextKey after Close
var ErrClosed = errors.New("keyboard closed")

const (
	ctrlC = 0x03

	keyBufferSize = 16
)

// Key is a decoded keypress
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeySpace
	KeyCtrlC
	KeyOther
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeySpace:
		return "space"
	case KeyCtrlC:
		return "ctrl-c"
	case KeyOther:
		return "other"
	default:
		return "none"
	}
}

// decode maps one input byte to a key. Enter arrives as '\r' in raw mode
// and as '\n' in cooked mode.
func decode(b byte) Key {
	switch b {
	case '\r', '\n':
		return KeyEnter
	case ' ':
		return KeySpace
	case ctrlC:
		return KeyCtrlC
	default:
		return KeyOther
	}
}

// Keyboard delivers keys read by a background goroutine
type Keyboard struct {
	src  io.Reader
	keys chan Key

	interrupted chan struct{}
	intOnce     sync.Once

	done       chan struct{}
	readerDone chan struct{}
	closeOnce  sync.Once
	closeErr   error

	// unblock makes a pending Read return; release runs once the reader
	// has exited. wait is false when the reader may never return.
	unblock func() error
	release func() error
	wait    bool
}

// Open reads from the controlling terminal in raw mode. Without a terminal
// it falls back to cooked stdin, where Ctrl-C arrives as a signal instead.
func Open() (*Keyboard, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err != nil {
		return stdinKeyboard(), nil
	}

	k, err := OpenTerminal(tty)
	if errors.Is(err, ErrNotTerminal) {
		_ = tty.Close()
		return stdinKeyboard(), nil
	}
	if err != nil {
		_ = tty.Close()
		return nil, err
	}
	return k, nil
}

// ErrNotTerminal is returned by OpenTerminal for a file that is not a tty
var ErrNotTerminal = errors.New("not a terminal")

// OpenTerminal puts tty in raw mode and reads keys from it. Close restores
// the previous mode and closes tty.
//
// The fd is only touched through SyscallConn so the file stays in the
// runtime poller, where a read deadline can wake a pending Read.
func OpenTerminal(tty *os.File) (*Keyboard, error) {
	var state *term.State
	err := control(tty, func(fd int) error {
		if !term.IsTerminal(fd) {
			return ErrNotTerminal
		}
		var err error
		state, err = term.MakeRaw(fd)
		return err
	})
	if err != nil {
		return nil, err
	}

	k := newKeyboard(tty, make(chan struct{}))
	k.unblock = func() error {
		return tty.SetReadDeadline(time.Now())
	}
	k.release = func() error {
		restoreErr := control(tty, func(fd int) error {
			return term.Restore(fd, state)
		})
		return errors.Join(restoreErr, tty.Close())
	}
	k.wait = true
	k.start()
	return k, nil
}

// control runs fn with the raw descriptor of f
func control(f *os.File, fn func(fd int) error) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var fnErr error
	if err := rc.Control(func(fd uintptr) {
		fnErr = fn(int(fd))
	}); err != nil {
		return err
	}
	return fnErr
}

// stdinKeyboard reads cooked stdin. The reader is left running on Close
// because a blocking stdin read cannot be interrupted.
func stdinKeyboard() *Keyboard {
	k := newKeyboard(os.Stdin, make(chan struct{}))
	k.start()
	return k
}

// NewKeyboard reads keys from r. If r is an io.Closer, Close closes it and
// waits for the reader goroutine to exit.
func NewKeyboard(r io.Reader) *Keyboard {
	k := newKeyboard(r, make(chan struct{}))
	if c, ok := r.(io.Closer); ok {
		k.unblock = c.Close
		k.wait = true
	}
	k.start()
	return k
}

func newKeyboard(src io.Reader, done chan struct{}) *Keyboard {
	return &Keyboard{
		src:         src,
		keys:        make(chan Key, keyBufferSize),
		interrupted: make(chan struct{}),
		done:        done,
		readerDone:  make(chan struct{}),
	}
}

func (k *Keyboard) start() {
	go k.read()
}

func (k *Keyboard) read() {
	defer close(k.readerDone)
	defer close(k.keys)

	buf := make([]byte, 64)
	for {
		n, err := k.src.Read(buf)
		for _, b := range buf[:n] {
			k.dispatch(decode(b))
		}
		if err != nil {
			return
		}
		select {
		case <-k.done:
			return
		default:
		}
	}
}

func (k *Keyboard) dispatch(key Key) {
	if key == KeyCtrlC {
		k.intOnce.Do(func() { close(k.interrupted) })
	}
	select {
	case k.keys <- key:
	default:
		// Buffer full, drop
	}
}

// NextKey blocks until a key arrives, ctx ends, or the keyboard closes.
// io.EOF means the input ended.
func (k *Keyboard) NextKey(ctx context.Context) (Key, error) {
	select {
	case <-ctx.Done():
		return KeyNone, ctx.Err()
	case <-k.done:
		return KeyNone, ErrClosed
	case key, ok := <-k.keys:
		if !ok {
			return KeyNone, io.EOF
		}
		return key, nil
	}
}

// Interrupted is closed as soon as Ctrl-C is read
func (k *Keyboard) Interrupted() <-chan struct{} {
	return k.interrupted
}

// Discard drops keys that are already buffered
func (k *Keyboard) Discard() int {
	dropped := 0
	for {
		select {
		case key, ok := <-k.keys:
			if !ok {
				return dropped
			}
			if key != KeyCtrlC {
				dropped++
			}
		default:
			return dropped
		}
	}
}

// Close stops reading and restores the terminal. Safe to call repeatedly.
func (k *Keyboard) Close() error {
	k.closeOnce.Do(func() {
		close(k.done)
		var errs []error
		wait := k.wait
		if k.unblock != nil {
			if err := k.unblock(); err != nil {
				// The reader cannot be woken; leave it behind
				wait = false
			}
		}
		if wait {
			<-k.readerDone
		}
		if k.release != nil {
			errs = append(errs, k.release())
		}
		k.closeErr = errors.Join(errs...)
	})
	return k.closeErr
}
