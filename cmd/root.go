package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/x-cli/internal/api"
	"github.com/quocvuong92/x-cli/internal/config"
	"github.com/quocvuong92/x-cli/internal/constants"
	"github.com/quocvuong92/x-cli/internal/display"
	"github.com/quocvuong92/x-cli/internal/executor"
	"github.com/quocvuong92/x-cli/internal/logging"
	"github.com/quocvuong92/x-cli/internal/session"
	"github.com/quocvuong92/x-cli/internal/terminal"
)

// App holds the application state
type App struct {
	cfg         *config.Config
	logger      *logging.Logger
	showStatus  bool
	reset       bool
	writeConfig bool
	exitCode    int

	// Collaborators, replaced in tests
	openKeys     func() (session.KeySource, error)
	newCompleter func(cfg *config.Config, token string, logger *logging.Logger) (api.Completer, error)
	newLauncher  func(shell string, logger *logging.Logger) launcher
}

// launcher starts accepted commands; Wait joins them before exit
type launcher interface {
	executor.Launcher
	Wait()
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg:    config.NewConfig(),
		logger: logging.Nop(),
		openKeys: func() (session.KeySource, error) {
			return terminal.Open()
		},
		newCompleter: api.NewClient,
		newLauncher: func(shell string, logger *logging.Logger) launcher {
			return executor.NewShellLauncher(shell, executor.WithLogger(logger))
		},
	}
}

// Execute runs the root command and exits with its status
func Execute() {
	os.Exit(NewApp().Execute(os.Args[1:]))
}

// Execute runs the CLI with args and returns the process exit status
func (app *App) Execute(args []string) int {
	rootCmd := app.newRootCmd()
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		display.ShowError(err.Error())
		return session.ExitFailure
	}
	return app.exitCode
}

func (app *App) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "x [flags] <query...>",
		Short: "Turn a plain-English request into a shell command",
		Long: `x asks a completion model for a shell command matching your request,
shows it, and runs it when you press enter.

  enter  run the suggested command
  space  ask for a differently formatted command (up to 3 times)
  ctrl-c quit without running anything

Examples:
  x list s3 buckets
  x find files larger than 100MB in this directory
  x init                                # fetch and store an API token
  x --status                            # show credential and config`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.exitCode = app.run(cmd, args)
			return nil
		},
	}

	// Everything after the first word of the query belongs to the query
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.Flags().StringVarP(&app.cfg.Model, "model", "m", "", "Completion model (default: "+config.DefaultModel+")")
	rootCmd.Flags().StringVar(&app.cfg.Shell, "shell", "", "Shell used to run accepted commands (default: $SHELL)")
	rootCmd.Flags().StringVar(&app.cfg.LogFormat, "log-format", "", "Log format: text or json")
	rootCmd.Flags().BoolVar(&app.showStatus, "status", false, "Show credential source and configuration")
	rootCmd.Flags().BoolVar(&app.reset, "reset", false, "Delete the stored API token")
	rootCmd.Flags().BoolVar(&app.writeConfig, "write-config", false, "Write a default config file and exit")

	return rootCmd
}

func (app *App) run(cmd *cobra.Command, args []string) int {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" && !app.reset && !app.showStatus && !app.writeConfig {
		display.ShowUsage()
		return session.ExitOK
	}

	if err := app.cfg.Validate(); err != nil {
		display.ShowError(err.Error())
		return session.ExitFailure
	}
	app.logger = logging.New(logging.Options{
		Level:  logging.ParseLevel(app.cfg.LogLevel),
		Format: logging.ParseFormat(app.cfg.LogFormat),
		Output: os.Stderr,
	})
	app.logger.Debug("configuration loaded", logging.Fields{
		"config_path": app.cfg.ConfigPath,
		"base_url":    app.cfg.APIBaseURL,
		"model":       app.cfg.Model,
		"shell":       app.cfg.Shell,
	})

	switch {
	case app.reset:
		return app.runReset()
	case app.showStatus:
		return app.runStatus()
	case app.writeConfig:
		return app.runWriteConfig()
	}

	ctx, stop := signalContext()
	defer stop()

	if query == constants.InitQuery {
		if err := app.runSetup(ctx); err != nil {
			return session.ExitFailure
		}
		return session.ExitOK
	}

	token, err := app.resolveToken(ctx)
	if err != nil {
		if !errors.Is(err, errSetupFailed) {
			display.ShowError(err.Error())
		}
		return session.ExitFailure
	}

	return app.runSuggest(ctx, query, token)
}
