package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/quocvuong92/x-cli/internal/auth"
	"github.com/quocvuong92/x-cli/internal/config"
	"github.com/quocvuong92/x-cli/internal/display"
	"github.com/quocvuong92/x-cli/internal/logging"
)

// errSetupFailed marks a setup failure that was already shown
var errSetupFailed = errors.New("credential setup failed")

// runSetup fetches a token and stores it in the token file
func (app *App) runSetup(ctx context.Context) error {
	sp := display.NewSpinner("Initializing...")
	sp.Start()

	provisioner := auth.NewProvisioner(app.cfg.SetupURL, app.cfg.TokenFile, app.logger)
	if err := provisioner.Setup(ctx); err != nil {
		sp.Fail(err.Error())
		app.logger.Error("setup failed", err, logging.Fields{"setup_url": app.cfg.SetupURL})
		return fmt.Errorf("%w: %w", errSetupFailed, err)
	}

	sp.Succeed("Initialized")
	return nil
}

// resolveToken returns a token, running setup first when none is available
func (app *App) resolveToken(ctx context.Context) (string, error) {
	chain := auth.NewChain(app.cfg)

	token, src, err := chain.Resolve()
	if err == nil {
		app.logger.Debug("credential resolved", logging.Fields{"source": src.Name()})
		return token, nil
	}
	if !errors.Is(err, auth.ErrCredentialMissing) {
		return "", err
	}

	app.logger.Info("no credential found, running setup")
	if err := app.runSetup(ctx); err != nil {
		return "", err
	}
	return chain.Token()
}

// runStatus shows where the token comes from and the effective config
func (app *App) runStatus() int {
	info := display.StatusInfo{
		TokenFile:  app.cfg.TokenFile,
		ConfigPath: app.cfg.ConfigPath,
		BaseURL:    app.cfg.APIBaseURL,
		Model:      app.cfg.Model,
		Shell:      app.cfg.Shell,
	}
	if _, src, err := auth.NewChain(app.cfg).Resolve(); err == nil {
		info.CredentialSource = src.Name()
	} else if !errors.Is(err, auth.ErrCredentialMissing) {
		display.ShowError(err.Error())
		return 1
	}

	display.ShowStatus(info)
	return 0
}

// runReset deletes the stored token
func (app *App) runReset() int {
	if !auth.HasToken(app.cfg.TokenFile) {
		display.ShowSuccess("No stored token at " + app.cfg.TokenFile)
		return 0
	}
	if err := auth.DeleteToken(app.cfg.TokenFile); err != nil {
		display.ShowError(err.Error())
		return 1
	}
	display.ShowSuccess("Removed stored token " + app.cfg.TokenFile)
	return 0
}

// runWriteConfig creates the default config file
func (app *App) runWriteConfig() int {
	path, err := config.CreateDefaultConfigFile()
	if err != nil {
		display.ShowError(err.Error())
		return 1
	}
	display.ShowSuccess("Config file at " + path)
	return 0
}
