// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logx configures the application logger. The TUI owns the
// terminal, so logs always go to a file, never to stdout.
package logx

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init opens the log file and returns a configured logger. The file
// is created with owner-only permissions.
func Init(level, file string) (zerolog.Logger, func() error, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("cannot open log file %s: %w", file, err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, f.Close, nil
}

func parseLevel(level string) (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
