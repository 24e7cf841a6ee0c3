package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"calories/internal/adapter/bolt"
	"calories/internal/adapter/memory"
	"calories/internal/adapter/postgres"
	"calories/internal/adapter/sqlite"
	"calories/internal/app"
	"calories/internal/domain"
	"calories/internal/storage"
)

const envPrefix = "CALORIES"

// config is resolved from flags, then CALORIES_* env vars, then defaults.
type config struct {
	Store    string
	DSN      string
	LogLevel string
}

func loadConfig(v *viper.Viper) (config, error) {
	cfg := config{
		Store:    strings.ToLower(v.GetString("store")),
		DSN:      v.GetString("dsn"),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.DSN == "" {
		switch cfg.Store {
		case "bolt":
			cfg.DSN = "calories.db"
		case "sqlite":
			cfg.DSN = "calories.sqlite"
		case "postgres":
			cfg.DSN = env("DATABASE_URL", "")
			if cfg.DSN == "" {
				return cfg, fmt.Errorf("--dsn or DATABASE_URL is required for the postgres store")
			}
		}
	}
	return cfg, nil
}

func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func openKeyValue(cfg config) (domain.KeyValue, error) {
	switch cfg.Store {
	case "bolt":
		return bolt.Open(cfg.DSN)
	case "sqlite":
		return sqlite.Open(cfg.DSN)
	case "postgres":
		return postgres.Open(cfg.DSN)
	case "memory":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store %q (want bolt, sqlite, postgres or memory)", cfg.Store)
}

// session is an opened tracker plus everything needed to tear it down.
type session struct {
	cfg     config
	logger  *slog.Logger
	kv      domain.KeyValue
	tracker *app.CalorieTracker
}

func (s *session) Close() error {
	return s.kv.Close()
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	kv, err := openKeyValue(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	tracker, err := app.NewCalorieTracker(ctx, storage.New(kv), app.WithLogger(logger))
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	logger.Debug("store opened", "store", cfg.Store)
	return &session{cfg: cfg, logger: logger, kv: kv, tracker: tracker}, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
