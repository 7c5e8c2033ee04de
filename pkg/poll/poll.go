// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package poll re-runs a task on a fixed interval
package poll

import (
	"zonemap/pkg/log"

	"context"
	"sync/atomic"
	"time"
)

// Poller calls its poll function once immediately and then on every tick until its context ends
type Poller struct {
	name     string
	interval time.Duration
	poll     func(ctx context.Context) error
	runs     atomic.Int64
	logger   *log.ScopedLogger
}

// NewPoller creates a poller; name is used as log prefix
func NewPoller(name string, interval time.Duration, poll func(ctx context.Context) error) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		poll:     poll,
		logger:   log.NewScopedLogger("[poll/"+name+"]", ""),
	}
}

// Runs returns how many polls have completed
func (p *Poller) Runs() int64 {
	return p.runs.Load()
}

func (p *Poller) runOnce(ctx context.Context) {
	start := time.Now()
	if err := p.poll(ctx); err != nil {
		p.logger.Error("Error during poll: %v", err)
	} else {
		p.logger.Verbose("Poll completed in %.2fs", time.Since(start).Seconds())
	}
	p.runs.Add(1)
}

// Run blocks until ctx is cancelled. A non-positive interval polls once.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Starting poll cycle (interval: %s)", p.interval)
	p.runOnce(ctx)
	if p.interval <= 0 {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Poll cycle stopped")
			return
		case <-ticker.C:
			p.logger.Debug("Polling (interval: %s)", p.interval)
			p.runOnce(ctx)
		}
	}
}
