package executor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/quocvuong92/x-cli/internal/logging"
)

// ShellLauncher starts accepted commands in a shell without waiting for them
type ShellLauncher struct {
	shell  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *logging.Logger

	wg sync.WaitGroup
}

// LauncherOption configures a ShellLauncher
type LauncherOption func(*ShellLauncher)

// WithStdio replaces the inherited standard streams
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) LauncherOption {
	return func(l *ShellLauncher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithLogger sets the logger used for launch events
func WithLogger(logger *logging.Logger) LauncherOption {
	return func(l *ShellLauncher) {
		l.logger = logger
	}
}

// NewShellLauncher creates a launcher that runs commands with `shell -c`
func NewShellLauncher(shell string, opts ...LauncherOption) *ShellLauncher {
	l := &ShellLauncher{
		shell:  shell,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts command and returns once the process is running
func (l *ShellLauncher) Launch(command string) error {
	cmd := exec.Command(l.shell, "-c", command)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.shell, err)
	}
	l.logger.Debug("command launched", logging.Fields{
		"pid":   cmd.Process.Pid,
		"shell": l.shell,
	})

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		// The child's exit status is not reported
		err := cmd.Wait()
		l.logger.Debug("command exited", logging.Fields{
			"pid":    cmd.Process.Pid,
			"status": exitStatus(err),
		})
	}()
	return nil
}

// Wait blocks until every launched command has exited
func (l *ShellLauncher) Wait() {
	l.wg.Wait()
}

func exitStatus(err error) string {
	if err == nil {
		return "0"
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Sprintf("%d", exitErr.ExitCode())
	}
	return err.Error()
}
