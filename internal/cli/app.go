package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/config"
	"github.com/roach88/reelsync/internal/logging"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// shutdownTimeout bounds how long close waits for in-flight actions.
const shutdownTimeout = 10 * time.Second

// app is one command's wiring: config, logger, store, catalog, manager and
// the action registry built over them.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	manager *action.Manager
	reg     *actions.Registry
	journal *actions.Journal
	logFile io.Closer
}

// openApp loads config and wires every collaborator. fileLog enables the
// rotating log file configured under log.file.
func openApp(cmd *cobra.Command, opts *RootOptions, fileLog bool) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	logOpts := logging.Options{
		Level:   cfg.Log.Level,
		Verbose: opts.Verbose,
		Stderr:  cmd.ErrOrStderr(),
	}
	if fileLog {
		logOpts.File = cfg.Log.File
		logOpts.MaxSizeMB = cfg.Log.MaxSizeMB
		logOpts.MaxBackups = cfg.Log.MaxBackups
	}
	logger, logFile, err := logging.New(logOpts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to set up logging", err)
	}

	catalog := opts.Catalog
	if catalog == nil {
		if cfg.API.ClientID == "" {
			_ = logFile.Close()
			return nil, NewExitError(ExitCommandError, "api.client_id is not configured")
		}
		catalog = remote.NewHTTPClient(cfg.API.ClientID, cfg.API.AccessToken,
			remote.WithBaseURL(cfg.API.BaseURL),
			remote.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
			remote.WithHTTPTimeout(cfg.API.Timeout),
			remote.WithLogger(logger),
		)
	}

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		_ = logFile.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	journal := actions.NewJournal(st, opts.Clock, logger)
	mgr := action.New(action.WithLogger(logger), action.WithObserver(journal))
	reg := actions.NewRegistry(actions.Deps{
		Store:     st,
		Catalog:   catalog,
		Manager:   mgr,
		Clock:     opts.Clock,
		Logger:    logger,
		Username:  cfg.Sync.Username,
		PageLimit: cfg.Sync.PageLimit,
		MaxPages:  cfg.Sync.MaxPages,
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		manager: mgr,
		reg:     reg,
		journal: journal,
		logFile: logFile,
	}, nil
}

// close waits for background cascades, then releases the store and log file.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.manager.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	if err := a.logFile.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// formatter returns an OutputFormatter bound to cmd's writers.
func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// errorCode maps a failure to the CLIError code reported for it.
func errorCode(err error) string {
	var exitErr *ExitError
	switch {
	case config.IsValidation(err):
		return ErrCodeConfig
	case store.IsMissingRow(err), remote.IsGone(err):
		return ErrCodeNotFound
	case remote.IsTransport(err), remote.StatusCode(err) != 0:
		return ErrCodeRemote
	case errors.As(err, &exitErr) && exitErr.Code == ExitCommandError:
		return ErrCodeArgument
	}
	return ErrCodeGeneric
}

// report writes err through f and returns the ExitError the command exits
// with. Errors that already carry an exit code keep it.
func report(f *OutputFormatter, err error) error {
	var details any
	if page := action.FailedPage(err); page > 0 {
		details = map[string]int{"failed_page": page}
	}
	_ = f.Error(errorCode(err), err.Error(), details)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return WrapExitError(ExitFailure, "command failed", err)
}
