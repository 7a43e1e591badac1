package executor

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

// lockedBuffer is safe to write from the child's copy goroutine
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestShellLauncher_Launch(t *testing.T) {
	var stdout, stderr lockedBuffer
	l := NewShellLauncher("/bin/sh", WithStdio(strings.NewReader(""), &stdout, &stderr))

	if err := l.Launch("echo hello; echo oops >&2"); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	l.Wait()

	if got := stdout.String(); got != "hello\n" {
		t.Errorf("stdout = %q, want %q", got, "hello\n")
	}
	if got := stderr.String(); got != "oops\n" {
		t.Errorf("stderr = %q, want %q", got, "oops\n")
	}
}

func TestShellLauncher_ExitCodeIgnored(t *testing.T) {
	var out lockedBuffer
	l := NewShellLauncher("/bin/sh", WithStdio(strings.NewReader(""), &out, &out))

	if err := l.Launch("exit 3"); err != nil {
		t.Fatalf("Launch() error = %v, a non-zero exit is not a launch failure", err)
	}
	l.Wait()
}

func TestShellLauncher_DoesNotBlock(t *testing.T) {
	var out lockedBuffer
	l := NewShellLauncher("/bin/sh", WithStdio(strings.NewReader(""), &out, &out))

	// The child reads until stdin closes; Launch must return first
	release := make(chan struct{})
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	l.stdin = r

	go func() {
		<-release
		_ = w.Close()
	}()

	if err := l.Launch("cat >/dev/null; echo done"); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	close(release)
	l.Wait()

	if got := out.String(); got != "done\n" {
		t.Errorf("output = %q, want %q", got, "done\n")
	}
}

func TestShellLauncher_MissingShell(t *testing.T) {
	l := NewShellLauncher("/nonexistent/shell")
	if err := l.Launch("ls"); err == nil {
		t.Error("Launch() with missing shell should fail")
	}
	l.Wait()
}
