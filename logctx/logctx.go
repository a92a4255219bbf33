// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logctx carries the structured logger used across the nodelist
// and directory-readiness packages, and the rotating file sink a
// long-running directory client hands it.
package logctx

import (
	"github.com/luxfi/log"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger every nodelist/dirinfo component takes.
// Fields are passed as zap.Field values, e.g.
//
//	logger.Warn("name lookup ambiguous", zap.Stringer("nickname", nickname))
type Logger = log.Logger

// NoOp returns a logger that discards everything, for tests and for
// callers that don't care to observe the nodelist.
func NoOp() Logger {
	return log.NewNoOpLogger()
}

// NewRotatingSink returns an io.Writer a Logger implementation can be
// pointed at to get size- and age-based log rotation, matching the way a
// long-running directory daemon keeps its log directory bounded.
func NewRotatingSink(path string, maxSizeMB, maxBackups, maxAgeDays int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

// Fields is a convenience alias so callers building up a field slice
// incrementally don't need to import zap directly.
type Fields = []zap.Field
