// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package audit keeps the append-only history of successful lookups
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log appends one line per entry to a file
type Log struct {
	path string
	mu   sync.Mutex
}

// New returns a log writing to path; the file is created on first append
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the file the log appends to
func (l *Log) Path() string {
	return l.path
}

// Append writes entry followed by a newline
func (l *Log) Append(entry string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.TrimRight(entry, "\n") + "\n"); err != nil {
		return fmt.Errorf("failed to append to audit log %s: %w", l.path, err)
	}
	return nil
}
