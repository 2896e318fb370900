package utils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"toki/src-cli/metric"
	"toki/src-cli/model"
	"toki/src-cli/timing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/urfave/cli/v2"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	Metric *metric.Recorder

	// where command output goes
	Stdout io.Writer
	// wall clock; relative dates and feed timestamps are taken from it
	Now func() time.Time

	// subcommands registered by the handler package
	AppCmds []*cli.Command
}

func NewAppState() *AppState {
	return &AppState{
		Stdout: os.Stdout,
		Now:    time.Now,
		Metric: metric.New(),
	}
}

func (as *AppState) AddAppCmd(cmd *cli.Command) {
	as.AppCmds = append(as.AppCmds, cmd)
}

// Open connects to the database named by cfg, creating the file and its
// schema on first use.
func (as *AppState) Open(ctx context.Context, cfg *Config) error {
	as.Config = cfg

	path := cfg.GetDatabasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("AppState.Open: can't create database directory: %w", err)
	}

	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return fmt.Errorf("AppState.Open: can't open sqlite database: %w", err)
	}
	// one connection keeps the busy timeout pragma below in effect
	as.RawDB.SetMaxOpenConns(1)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if _, err := as.BunDB.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("AppState.Open: can't set busy timeout: %w", err)
	}

	start := time.Now()
	if err := model.CreateSchema(ctx, as.BunDB); err != nil {
		return fmt.Errorf("AppState.Open: %w", err)
	}
	as.Metric.DatabaseWrite(start)
	slog.Debug("database ready", "path", path, "config", cfg.GetConfigPath())

	return nil
}

func (as *AppState) Resolver() *timing.Resolver {
	return timing.NewResolver(as.Config.GetLocation(), as.Now)
}

// GracefulShutdown flushes the metrics textfile and closes the database.
func (as *AppState) GracefulShutdown() error {
	var firstErr error
	if as.Config != nil {
		if err := as.Metric.WriteTextfile(as.Config.GetMetricsFile()); err != nil {
			slog.Warn("can't write metrics textfile", "error", err)
		}
	}
	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			firstErr = fmt.Errorf("GracefulShutdown: can't close database: %w", err)
		}
		as.BunDB = nil
		as.RawDB = nil
	}
	return firstErr
}
