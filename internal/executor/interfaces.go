// Package executor launches accepted commands and classifies their risk.
package executor

// Launcher starts a command and returns without waiting for it to finish.
// This interface enables dependency injection and easier testing.
type Launcher interface {
	Launch(command string) error
}

// Classifier rates a command before it is presented
type Classifier func(command string) RiskLevel

// Ensure concrete types implement the interfaces
var _ Launcher = (*ShellLauncher)(nil)
var _ Classifier = ClassifyCommand
