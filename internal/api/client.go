package api

import (
	"context"
	"fmt"

	"github.com/quocvuong92/x-cli/internal/config"
	"github.com/quocvuong92/x-cli/internal/logging"
)

// Completer turns a prompt into a single raw completion.
// Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ensure the client implements Completer
var _ Completer = (*CompletionClient)(nil)

// NewClient creates a completion client from configuration.
// The token must already be resolved by the caller.
func NewClient(cfg *config.Config, token string, logger *logging.Logger) (Completer, error) {
	if token == "" {
		return nil, fmt.Errorf("completion client requires an API token")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return NewCompletionClient(cfg, token, logger), nil
}
