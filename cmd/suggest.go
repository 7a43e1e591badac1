package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quocvuong92/x-cli/internal/display"
	"github.com/quocvuong92/x-cli/internal/executor"
	"github.com/quocvuong92/x-cli/internal/logging"
	"github.com/quocvuong92/x-cli/internal/session"
)

// signalContext is cancelled on SIGINT or SIGTERM while the terminal is in
// cooked mode. In raw mode Ctrl-C arrives as a key instead.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runSuggest runs one suggestion session for query
func (app *App) runSuggest(ctx context.Context, query, token string) int {
	completer, err := app.newCompleter(app.cfg, token, app.logger)
	if err != nil {
		display.ShowError(err.Error())
		return session.ExitFailure
	}

	keys, err := app.openKeys()
	if err != nil {
		display.ShowError(err.Error())
		return session.ExitFailure
	}
	defer func() {
		if err := keys.Close(); err != nil {
			app.logger.Warn("failed to restore terminal", logging.Fields{"error": err.Error()})
		}
	}()

	launcher := app.newLauncher(app.cfg.Shell, app.logger)

	sp := display.NewSpinner(query)
	sp.Start()

	s, err := session.New(session.Config{
		Query:      query,
		Completer:  completer,
		Keys:       keys,
		Launcher:   launcher,
		Indicator:  sp,
		Classifier: executor.NewRuleSet(app.cfg.TrustPatterns, app.cfg.WarnPatterns).Classifier(executor.ClassifyCommand),
		Logger:     app.logger,
	})
	if err != nil {
		sp.Stop()
		display.ShowError(err.Error())
		return session.ExitFailure
	}

	out := s.Run(ctx)
	if out.Kind == session.Executed {
		// SIGINT stays trapped by ctx so only the child reacts to Ctrl-C
		launcher.Wait()
	}
	return out.ExitCode()
}
