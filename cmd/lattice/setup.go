package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/vango-dev/lattice/internal/config"
	"github.com/vango-dev/lattice/pkg/snapshot"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	logLevel    string
	noColor     bool
	errorFormat string
}

// loadConfig reads and validates the configuration selected by the flags.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a text logger at the configured level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// snapshotStore returns the store selected by the configuration.
func snapshotStore(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	if s3cfg := cfg.Snapshots.S3; s3cfg != nil {
		client, err := snapshot.NewS3Client(ctx, snapshot.S3Options{
			Region:       s3cfg.Region,
			Endpoint:     s3cfg.Endpoint,
			UsePathStyle: s3cfg.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return snapshot.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), nil
	}
	return snapshot.NewFileStore(cfg.SnapshotsPath()), nil
}
