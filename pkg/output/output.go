// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package output renders the exported table into additional file formats
package output

import (
	"zonemap/pkg/log"
	"zonemap/pkg/table"
	"zonemap/pkg/util"

	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Generator is written into every rendered file
const Generator = "zonemap"

// Renderer turns rows into file content
type Renderer func(rows []table.Row, meta Metadata) ([]byte, error)

var (
	formatRegistry = make(map[string]Renderer)
	registryMutex  sync.RWMutex
)

func init() {
	RegisterFormat("json", renderJSON)
	RegisterFormat("yaml", renderYAML)
	RegisterFormat("hosts", renderHosts)
	RegisterFormat("zone", renderZone)
}

// RegisterFormat makes a renderer available under name
func RegisterFormat(name string, render Renderer) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, exists := formatRegistry[name]; exists {
		log.Debug("[output] Format '%s' already registered, skipping duplicate registration", name)
		return
	}
	formatRegistry[name] = render
}

// Formats lists the registered format names
func Formats() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	names := make([]string, 0, len(formatRegistry))
	for name := range formatRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File is one configured output
type File struct {
	format string
	path   string
	render Renderer
	logger *log.ScopedLogger
	now    func() time.Time
}

// String returns the output as format:path
func (f *File) String() string {
	return f.format + ":" + f.path
}

// Format returns the format name
func (f *File) Format() string {
	return f.format
}

// Path returns the destination file
func (f *File) Path() string {
	return f.path
}

// Write renders rows and atomically replaces the destination file
func (f *File) Write(rows []table.Row) error {
	data, err := f.render(rows, Metadata{Generator: Generator, GeneratedAt: f.now().UTC()})
	if err != nil {
		return fmt.Errorf("%s failed to render: %w", f.logger.Prefix(), err)
	}
	if err := util.WriteFileAtomic(f.path, data, 0644); err != nil {
		return err
	}
	f.logger.Debug("Generated export with %d records: %s", len(rows), f.path)
	return nil
}

// Parse builds an output from a "format:path" pair
func Parse(value string) (*File, error) {
	format, path, ok := strings.Cut(strings.TrimSpace(value), ":")
	format = strings.ToLower(strings.TrimSpace(format))
	path = strings.TrimSpace(path)
	if !ok || format == "" || path == "" {
		return nil, fmt.Errorf("invalid output %q, expected format:path", value)
	}
	// "file/json" style names are accepted
	format = strings.TrimPrefix(format, "file/")

	registryMutex.RLock()
	render, exists := formatRegistry[format]
	registryMutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}

	return &File{
		format: format,
		path:   path,
		render: render,
		logger: log.NewScopedLogger(fmt.Sprintf("[output/%s]", format), ""),
		now:    time.Now,
	}, nil
}

// ParseAll parses every format:path value, failing on the first invalid one
func ParseAll(values []string) ([]*File, error) {
	files := make([]*File, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		f, err := Parse(value)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
