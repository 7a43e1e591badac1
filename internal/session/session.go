// Package session runs the interactive suggestion loop: request a
// completion, present it, and act on a single keypress.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/quocvuong92/x-cli/internal/api"
	"github.com/quocvuong92/x-cli/internal/constants"
	"github.com/quocvuong92/x-cli/internal/display"
	"github.com/quocvuong92/x-cli/internal/executor"
	"github.com/quocvuong92/x-cli/internal/logging"
	"github.com/quocvuong92/x-cli/internal/prompt"
	"github.com/quocvuong92/x-cli/internal/terminal"
)

// State is a step of the loop
type State int

const (
	Requesting State = iota
	Presenting
	AwaitingDecision
	Executing
	Retrying
	ExhaustedState
	FailedState
)

func (s State) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case Presenting:
		return "presenting"
	case AwaitingDecision:
		return "awaiting_decision"
	case Executing:
		return "executing"
	case Retrying:
		return "retrying"
	case ExhaustedState:
		return "exhausted"
	case FailedState:
		return "failed"
	default:
		return "unknown"
	}
}

// KeySource delivers keypresses and owns the terminal input mode
type KeySource interface {
	NextKey(ctx context.Context) (terminal.Key, error)
	// Interrupted is closed when Ctrl-C is pressed
	Interrupted() <-chan struct{}
	// Discard drops keys typed before the current decision
	Discard() int
	// Close restores the terminal; it must be idempotent
	Close() error
}

var _ KeySource = (*terminal.Keyboard)(nil)

// Config wires a session to its collaborators
type Config struct {
	Query      string
	Completer  api.Completer
	Keys       KeySource
	Launcher   executor.Launcher
	Indicator  display.Indicator
	Classifier executor.Classifier // optional
	Logger     *logging.Logger     // optional

	// MaxAttempts is the number of rejections that ends the session
	MaxAttempts int
	// Echo prints the accepted command before launch; defaults to display.ShowCommand
	Echo func(command string)
}

// Session is a single run from query to outcome. Not reusable.
type Session struct {
	cfg    Config
	id     string
	logger *logging.Logger

	prompt   string
	attempts int
	state    State
}

// New validates cfg and creates a session
func New(cfg Config) (*Session, error) {
	switch {
	case cfg.Query == "":
		return nil, errors.New("session requires a query")
	case cfg.Completer == nil:
		return nil, errors.New("session requires a completer")
	case cfg.Keys == nil:
		return nil, errors.New("session requires a key source")
	case cfg.Launcher == nil:
		return nil, errors.New("session requires a launcher")
	case cfg.Indicator == nil:
		return nil, errors.New("session requires an indicator")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = constants.MaxAttempts
	}
	if cfg.Echo == nil {
		cfg.Echo = display.ShowCommand
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	id := uuid.NewString()
	return &Session{
		cfg:    cfg,
		id:     id,
		logger: cfg.Logger.With(logging.Fields{"session_id": id}),
		prompt: prompt.Initialize(cfg.Query),
	}, nil
}

// ID identifies the session in logs
func (s *Session) ID() string {
	return s.id
}

// Prompt returns the current prompt
func (s *Session) Prompt() string {
	return s.prompt
}

// State returns the last state entered
func (s *Session) State() State {
	return s.state
}

// Attempts returns the number of rejections so far
func (s *Session) Attempts() int {
	return s.attempts
}

// Run drives the loop to an outcome. The key source is closed, restoring
// the terminal, before anything is reported.
func (s *Session) Run(ctx context.Context) Outcome {
	ctx, cancel := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case <-s.cfg.Keys.Interrupted():
			s.logger.Debug("interrupt received")
			cancel()
		case <-ctx.Done():
		}
	}()
	defer func() {
		cancel()
		<-watchDone
	}()

	out := s.loop(ctx)

	if err := s.cfg.Keys.Close(); err != nil {
		s.logger.Warn("failed to restore terminal", logging.Fields{"error": err.Error()})
	}
	s.report(out)

	s.logger.Info("session finished", logging.Fields{
		"outcome":  out.Kind.String(),
		"attempts": s.attempts,
	})
	return out
}

func (s *Session) loop(ctx context.Context) Outcome {
	for {
		s.setState(Requesting)
		s.cfg.Indicator.Update(s.cfg.Query, display.ColorCyan, display.DotsFrames)

		suggestion, err := s.request(ctx)
		if err != nil {
			if isCancellation(ctx) {
				return cancelled()
			}
			s.setState(FailedState)
			return failed(err)
		}

		s.setState(Presenting)
		s.present(suggestion)

		if n := s.cfg.Keys.Discard(); n > 0 {
			s.logger.Debug("discarded early keys", logging.Fields{"count": n})
		}

		s.setState(AwaitingDecision)
		decision, err := s.awaitDecision(ctx)
		if err != nil {
			if isCancellation(ctx) {
				return cancelled()
			}
			s.setState(FailedState)
			return failed(err)
		}

		switch decision {
		case Accept:
			s.setState(Executing)
			return s.execute(suggestion)
		case Interrupt:
			return cancelled()
		case Reject:
			s.attempts++
			if s.attempts >= s.cfg.MaxAttempts {
				s.setState(ExhaustedState)
				return exhausted()
			}
			s.setState(Retrying)
			s.prompt = prompt.Extend(s.prompt, suggestion)
		}
	}
}

// request performs one completion call and normalizes its result
func (s *Session) request(ctx context.Context) (string, error) {
	raw, err := s.cfg.Completer.Complete(ctx, s.prompt)
	if err != nil {
		if errors.Is(err, api.ErrNoChoices) {
			s.logger.Debug("completion had no choices")
			return "", ErrNoSuggestionFound
		}
		return "", err
	}

	suggestion := NormalizeSuggestion(raw)
	if suggestion == "" {
		s.logger.Debug("completion was empty", logging.Fields{"raw_length": len(raw)})
		return "", ErrNoSuggestionFound
	}
	return suggestion, nil
}

func (s *Session) present(suggestion string) {
	color, warning := display.ColorGreen, ""
	if s.cfg.Classifier != nil {
		risk := s.cfg.Classifier(suggestion)
		s.logger.Debug("suggestion classified", logging.Fields{"risk": risk.String()})
		if risk == executor.Dangerous {
			color, warning = display.ColorRed, executor.GetRiskDescription(risk)
		}
	}
	s.cfg.Indicator.Update(display.SuggestionLabel(suggestion, warning), color, display.PromptFrames)
}

// awaitDecision blocks until a key that means something arrives
func (s *Session) awaitDecision(ctx context.Context) (Decision, error) {
	for {
		key, err := s.cfg.Keys.NextKey(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, terminal.ErrClosed) {
				return Ignore, ErrInputClosed
			}
			return Ignore, err
		}
		if d := DecisionFor(key); d != Ignore {
			s.logger.Debug("decision", logging.Fields{"key": key.String(), "decision": d.String()})
			return d, nil
		}
	}
}

// execute restores the terminal, echoes the command and starts it
func (s *Session) execute(command string) Outcome {
	s.cfg.Indicator.Stop()
	if err := s.cfg.Keys.Close(); err != nil {
		s.logger.Warn("failed to restore terminal", logging.Fields{"error": err.Error()})
	}
	s.cfg.Echo(command)

	if err := s.cfg.Launcher.Launch(command); err != nil {
		return failed(fmt.Errorf("failed to launch command: %w", err))
	}
	return executed(command)
}

func (s *Session) report(out Outcome) {
	switch out.Kind {
	case Executed:
	case Cancelled:
		s.cfg.Indicator.Stop()
	default:
		s.logger.Debug("session failed", logging.Fields{"error": out.Message()})
		s.cfg.Indicator.Fail(out.Message())
	}
}

func (s *Session) setState(state State) {
	s.state = state
	s.logger.Debug("state", logging.Fields{
		"state":    state.String(),
		"attempts": s.attempts,
	})
}

func isCancellation(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}
