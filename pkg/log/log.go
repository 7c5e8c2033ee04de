// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package log provides unified logging functionality for the application
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Log levels
const (
	LevelError   = "error"
	LevelWarn    = "warn"
	LevelInfo    = "info"
	LevelVerbose = "verbose"
	LevelDebug   = "debug"
	LevelTrace   = "trace"
)

// lower number = higher priority
var levelRank = map[string]int{
	LevelError:   0,
	LevelWarn:    1,
	LevelInfo:    2,
	LevelVerbose: 3,
	LevelDebug:   4,
	LevelTrace:   5,
}

// Logger provides logging functionality for the application
type Logger struct {
	out            io.Writer
	errOut         io.Writer
	level          string
	showTimestamps bool
	mu             sync.Mutex
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize creates the default logger with the specified level
func Initialize(level string, showTimestamps bool) {
	once.Do(func() {
		defaultLogger = NewLogger(level, showTimestamps)
	})
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	once.Do(func() {
		// Default to info if not initialized
		defaultLogger = NewLogger(os.Getenv("LOG_LEVEL"), false)
	})
	return defaultLogger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level string, showTimestamps bool) *Logger {
	l := &Logger{
		out:            os.Stdout,
		errOut:         os.Stderr,
		level:          normalizeLevel(level),
		showTimestamps: showTimestamps,
	}

	// Mirror everything into LOG_FILE when set
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err == nil {
			file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				l.out = io.MultiWriter(os.Stdout, file)
				l.errOut = io.MultiWriter(os.Stderr, file)
			}
		}
	}

	return l
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if _, ok := levelRank[level]; !ok {
		return LevelInfo
	}
	return level
}

// SetLevel sets the logger level
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = normalizeLevel(level)
}

// GetLevel returns the current logger level
func (l *Logger) GetLevel() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetShowTimestamps toggles the timestamp prefix on every line
func (l *Logger) SetShowTimestamps(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showTimestamps = show
}

// SetOutput redirects both the regular and the error stream to w
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.errOut = w
}

// Enabled reports whether a message at level would be written
func (l *Logger) Enabled(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return levelRank[level] <= levelRank[l.level]
}

func (l *Logger) write(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	tag := strings.ToUpper(level)

	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.out
	if level == LevelError || level == "fatal" {
		w = l.errOut
	}
	if l.showTimestamps {
		fmt.Fprintf(w, "%s %s %s\n", time.Now().Format("2006-01-02 15:04:05"), tag, message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", tag, message)
}

func (l *Logger) log(level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.write(level, format, args...)
}

// Trace logs a trace message with optional formatting
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(LevelTrace, format, args...)
}

// Debug logs a debug message with optional formatting
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Verbose logs a verbose message with optional formatting
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.log(LevelVerbose, format, args...)
}

// Info logs an info message with optional formatting
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message with optional formatting
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message with optional formatting
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Fatal logs an error message and exits the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.write("fatal", format, args...)
	os.Exit(1)
}

// Helper functions that use the default logger

// Trace logs a trace message with the default logger
func Trace(format string, args ...interface{}) {
	GetLogger().Trace(format, args...)
}

// Debug logs a debug message with the default logger
func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

// Verbose logs a verbose message with the default logger
func Verbose(format string, args ...interface{}) {
	GetLogger().Verbose(format, args...)
}

// Info logs an info message with the default logger
func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

// Warn logs a warning message with the default logger
func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

// Error logs an error message with the default logger
func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// Fatal logs an error message with the default logger and exits
func Fatal(format string, args ...interface{}) {
	GetLogger().Fatal(format, args...)
}
