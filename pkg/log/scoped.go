// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"fmt"
)

// ScopedLogger prefixes every message and may carry its own log level
type ScopedLogger struct {
	prefix   string
	logLevel string
}

// NewScopedLogger creates a new scoped logger; an empty logLevel defers to the global level
func NewScopedLogger(prefix, logLevel string) *ScopedLogger {
	if logLevel != "" {
		logLevel = normalizeLevel(logLevel)
	}
	return &ScopedLogger{
		prefix:   prefix,
		logLevel: logLevel,
	}
}

// Prefix returns the prefix prepended to each message
func (s *ScopedLogger) Prefix() string {
	return s.prefix
}

// With returns a child logger whose prefix is extended by name
func (s *ScopedLogger) With(name string) *ScopedLogger {
	return &ScopedLogger{
		prefix:   fmt.Sprintf("%s[%s]", s.prefix, name),
		logLevel: s.logLevel,
	}
}

func (s *ScopedLogger) emit(level, format string, args ...interface{}) {
	if s.prefix != "" {
		format = s.prefix + " " + format
	}

	logger := GetLogger()
	if s.logLevel == "" {
		logger.log(level, format, args...)
		return
	}
	if levelRank[level] <= levelRank[s.logLevel] {
		logger.write(level, format, args...)
	}
}

func (s *ScopedLogger) Trace(format string, args ...interface{}) {
	s.emit(LevelTrace, format, args...)
}

func (s *ScopedLogger) Debug(format string, args ...interface{}) {
	s.emit(LevelDebug, format, args...)
}

func (s *ScopedLogger) Verbose(format string, args ...interface{}) {
	s.emit(LevelVerbose, format, args...)
}

func (s *ScopedLogger) Info(format string, args ...interface{}) {
	s.emit(LevelInfo, format, args...)
}

func (s *ScopedLogger) Warn(format string, args ...interface{}) {
	s.emit(LevelWarn, format, args...)
}

// Error is never filtered
func (s *ScopedLogger) Error(format string, args ...interface{}) {
	if s.prefix != "" {
		format = s.prefix + " " + format
	}
	GetLogger().write(LevelError, format, args...)
}
