package session

import (
	"errors"
	"strings"
)

var (
	// ErrNoSuggestionFound means the provider gave nothing usable
	ErrNoSuggestionFound = errors.New("No suggestion found")
	// ErrExhausted means every suggestion was rejected
	ErrExhausted = errors.New("No suggestion found")
	// ErrInputClosed means the keyboard stopped delivering keys
	ErrInputClosed = errors.New("input closed before a decision was made")
)

// Exit statuses used by the CLI
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// OutcomeKind is the terminal state of a session
type OutcomeKind int

const (
	Executed OutcomeKind = iota
	Cancelled
	Exhausted
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Executed:
		return "executed"
	case Cancelled:
		return "cancelled"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is what Run returns. Command is set for Executed, Err for
// Exhausted and Failed.
type Outcome struct {
	Kind    OutcomeKind
	Command string
	Err     error
}

func executed(command string) Outcome {
	return Outcome{Kind: Executed, Command: command}
}

func cancelled() Outcome {
	return Outcome{Kind: Cancelled}
}

func exhausted() Outcome {
	return Outcome{Kind: Exhausted, Err: ErrExhausted}
}

func failed(err error) Outcome {
	return Outcome{Kind: Failed, Err: err}
}

// ExitCode maps the outcome to a process exit status
func (o Outcome) ExitCode() int {
	switch o.Kind {
	case Executed:
		return ExitOK
	case Cancelled:
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// Message is the single line shown for a failed outcome
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// NormalizeSuggestion trims raw completion text and strips leading "!"
// markers, so the result never starts with "!"
func NormalizeSuggestion(raw string) string {
	s := strings.TrimSpace(raw)
	for strings.HasPrefix(s, "!") {
		s = strings.TrimSpace(s[1:])
	}
	return s
}
