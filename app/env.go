package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/identity"
	"github.com/ayoisaiah/cashtimer/internal/config"
	"github.com/ayoisaiah/cashtimer/internal/logging"
	"github.com/ayoisaiah/cashtimer/internal/pathutil"
	"github.com/ayoisaiah/cashtimer/ledger"
	"github.com/ayoisaiah/cashtimer/rates"
	"github.com/ayoisaiah/cashtimer/report"
	"github.com/ayoisaiah/cashtimer/store"
)

// env bundles everything a command needs. It is built once per invocation.
type env struct {
	cfg      *config.Config
	db       store.DB
	identity *identity.Local
	ledger   *ledger.Ledger
	rates    *rates.Refresher
	notifier *report.Notifier
	sink     report.Sink
	in       io.Reader
	out      io.Writer
	closers  []io.Closer
}

// Close releases the database and the log file.
func (e *env) Close() error {
	var errs []error

	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}

	return errors.Join(errs...)
}

// rateSymbol is the currency symbol of the hourly rate.
func (e *env) rateSymbol() string {
	return rates.Symbol(e.cfg.Rate.Currency)
}

// openEnv builds the env of a command. Tests replace it to run commands
// against a temporary store.
var openEnv = func(ctx *cli.Context) (*env, error) {
	err := pathutil.Initialize()
	if err != nil {
		return nil, err
	}

	configPath := pathutil.ConfigFilePath()

	cfg, err := config.New(
		config.WithPromptConfig(configPath),
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		notifier: report.NewNotifier(cfg.Notifications.Enabled),
		sink:     report.Clipboard{},
		in:       config.Stdin,
		out:      config.Stdout,
	}

	logCloser, err := logging.Setup(pathutil.LogFilePath(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	e.closers = append(e.closers, logCloser)

	db, err := store.Open(cfg.Store.Driver, pathutil.DBFilePath(cfg.Store.Driver))
	if err != nil {
		_ = e.Close()
		return nil, err
	}

	e.attach(ctx.Context, db)

	return e, nil
}

// attach wires the services that sit on top of the database.
func (e *env) attach(ctx context.Context, db store.DB) {
	e.db = db
	e.closers = append(e.closers, db)
	e.identity = identity.NewLocal(db)
	e.ledger = ledger.New(db, e.identity)
	e.rates = rates.NewRefresher(
		ctx,
		rates.NewHTTPFeed(e.cfg.Rates.URL, e.cfg.Rates.Timeout),
		db,
		e.cfg.Rates.RefreshInterval,
	)
}

// withEnv runs fn with a freshly opened env and closes it afterwards.
func withEnv(ctx *cli.Context, fn func(e *env) error) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := e.Close(); cerr != nil {
			slog.Warn("closing resources failed", slog.Any("error", cerr))
		}
	}()

	err = fn(e)
	logFailure(err)

	return err
}

// logFailure records errors that are not caused by the user's input, such as
// an unreadable database, in the log file.
func logFailure(err error) {
	if err == nil || ledger.IsUserError(err) {
		return
	}

	slog.Error("command failed", slog.Any("error", err))
}

// withLedger is withEnv for commands that work on the signed in user's
// sessions.
func withLedger(ctx *cli.Context, fn func(e *env) error) error {
	return withEnv(ctx, func(e *env) error {
		err := e.ledger.Load(ctx.Context)
		if err != nil {
			return err
		}

		return fn(e)
	})
}
