package session

import "github.com/quocvuong92/x-cli/internal/terminal"

// Decision is what a keypress means while a suggestion is shown
type Decision int

const (
	Ignore Decision = iota
	Accept
	Reject
	Interrupt
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Interrupt:
		return "interrupt"
	default:
		return "ignore"
	}
}

// DecisionFor maps a key to a decision
func DecisionFor(key terminal.Key) Decision {
	switch key {
	case terminal.KeyEnter:
		return Accept
	case terminal.KeySpace:
		return Reject
	case terminal.KeyCtrlC:
		return Interrupt
	default:
		return Ignore
	}
}
