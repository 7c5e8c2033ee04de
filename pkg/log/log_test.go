// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	logger := GetLogger()
	prevLevel := logger.GetLevel()
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	logger.SetLevel(level)
	logger.SetShowTimestamps(false)
	t.Cleanup(func() {
		logger.SetLevel(prevLevel)
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		skipped []string
	}{
		{LevelError, []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{LevelWarn, []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{LevelInfo, []string{"ERROR", "WARN", "INFO"}, []string{"VERBOSE", "DEBUG"}},
		{LevelDebug, []string{"INFO", "VERBOSE", "DEBUG"}, []string{"TRACE"}},
		{LevelTrace, []string{"DEBUG", "TRACE"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureDefault(t, tt.level)
			Error("e")
			Warn("w")
			Info("i")
			Verbose("v")
			Debug("d")
			Trace("t")

			out := buf.String()
			for _, tag := range tt.logged {
				assert.Contains(t, out, tag+" ")
			}
			for _, tag := range tt.skipped {
				assert.NotContains(t, out, tag+" ")
			}
		})
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l := NewLogger("shouting", false)
	assert.Equal(t, LevelInfo, l.GetLevel())
}

func TestScopedLoggerPrefixAndOverride(t *testing.T) {
	buf := captureDefault(t, LevelInfo)

	scoped := NewScopedLogger("[cloudflare/main]", LevelDebug)
	scoped.Debug("listing page %d", 2)
	plain := NewScopedLogger("[cloudflare/other]", "")
	plain.Debug("hidden")
	plain.With("zone").Info("shown")

	out := buf.String()
	assert.Contains(t, out, "DEBUG [cloudflare/main] listing page 2")
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "INFO [cloudflare/other][zone] shown"), out)
}
