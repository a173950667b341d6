// Package logging builds the slog logger used by both binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config - параметры логирования
type Config struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text | json
	File       string `mapstructure:"file"`   // пусто - stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ParseLevel разбирает уровень логирования
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New creates a logger. The returned LevelVar allows changing the level at
// runtime; the closer releases the log file and must be called on exit.
func New(cfg Config, stderr io.Writer) (*slog.Logger, *slog.LevelVar, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	lv := new(slog.LevelVar)
	lv.Set(level)

	out := stderr
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		// ротация файла: run-режим и сервер работают долго
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = lj
		closer = lj
	}

	opts := &slog.HandlerOptions{Level: lv}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(out, opts)
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		return nil, nil, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return slog.New(handler), lv, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
