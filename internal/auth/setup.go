package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/quocvuong92/x-cli/internal/constants"
	"github.com/quocvuong92/x-cli/internal/logging"
)

// Provisioner fetches a token from the setup endpoint and stores it
type Provisioner struct {
	httpClient *resty.Client
	url        string
	tokenFile  string
	logger     *logging.Logger
}

// NewProvisioner creates a provisioner that stores into tokenFile
func NewProvisioner(setupURL, tokenFile string, logger *logging.Logger) *Provisioner {
	if logger == nil {
		logger = logging.Nop()
	}
	client := resty.New().SetTimeout(constants.DefaultSetupTimeout)
	logging.NewHTTPLogger(logger).Attach(client)

	return &Provisioner{
		httpClient: client,
		url:        setupURL,
		tokenFile:  tokenFile,
		logger:     logger,
	}
}

// Fetch requests a token from the setup endpoint. The body is the token.
func (p *Provisioner) Fetch(ctx context.Context) (string, error) {
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(p.url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to fetch token: %s", resp.Status())
	}

	token := strings.TrimSpace(resp.String())
	if token == "" {
		return "", fmt.Errorf("failed to fetch token: empty response")
	}
	return token, nil
}

// Setup fetches a token and saves it to the token file
func (p *Provisioner) Setup(ctx context.Context) error {
	token, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := SaveToken(p.tokenFile, token); err != nil {
		return err
	}
	p.logger.Debug("token stored", logging.Fields{"path": p.tokenFile})
	return nil
}
