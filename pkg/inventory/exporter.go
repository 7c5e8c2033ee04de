// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package inventory

import (
	"zonemap/pkg/config"
	"zonemap/pkg/log"
	"zonemap/pkg/table"

	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Output is an additional rendering of the exported rows
type Output interface {
	String() string
	Write(rows []table.Row) error
}

// Exporter runs every account in parallel and persists the merged rows
type Exporter struct {
	TablePath  string
	MaxWorkers int // 0 means one worker per account
	NewSource  SourceFactory
	Outputs    []Output
}

// Summary describes one export run
type Summary struct {
	Rows     []table.Row     // completion order
	Accounts []AccountResult // completion order
	Duration time.Duration
}

// Failed returns the accounts whose run failed outright
func (s *Summary) Failed() []AccountResult {
	var failed []AccountResult
	for _, r := range s.Accounts {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

func (e *Exporter) workers(accounts int) int {
	if e.MaxWorkers > 0 && e.MaxWorkers < accounts {
		return e.MaxWorkers
	}
	return accounts
}

// Export processes every account, waits for all of them whatever their
// outcome, then overwrites the table. Only a failure to write the table is
// returned as an error.
func (e *Exporter) Export(ctx context.Context, accounts []config.Account) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	if len(accounts) > 0 {
		var (
			g  errgroup.Group
			mu sync.Mutex
		)
		workers := e.workers(len(accounts))
		g.SetLimit(workers)
		log.Debug("[inventory] Exporting %d account(s) with %d worker(s)", len(accounts), workers)

		for _, account := range accounts {
			g.Go(func() error {
				result := e.processOne(ctx, account)

				mu.Lock()
				summary.Accounts = append(summary.Accounts, result)
				summary.Rows = append(summary.Rows, result.Rows...)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := table.Write(e.TablePath, summary.Rows); err != nil {
		return summary, fmt.Errorf("failed to write table %s: %w", e.TablePath, err)
	}
	log.Verbose("[inventory] Wrote %d row(s) to %s", len(summary.Rows), e.TablePath)

	for _, out := range e.Outputs {
		if err := out.Write(summary.Rows); err != nil {
			log.Error("[inventory] Output %s failed: %v", out, err)
			continue
		}
		log.Verbose("[inventory] Wrote output %s", out)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func (e *Exporter) processOne(ctx context.Context, account config.Account) AccountResult {
	logger := log.NewScopedLogger(fmt.Sprintf("[inventory/%s]", account.Name), "")

	src, err := e.NewSource(account)
	if err != nil {
		logger.Error("Unable to create client: %v", err)
		return AccountResult{Account: account.Name, Listing: err, Status: StatusFailed}
	}

	result := ProcessAccount(ctx, src)
	switch result.Status {
	case StatusFailed:
		logger.Error("Account failed after %.2fs: %v", result.Duration.Seconds(), result.Err())
	default:
		logger.Info("Found domains in account %s: %d", account.Name, len(result.Zones))
		if result.Partial() {
			logger.Warn("Incomplete result: %d of %d zone(s) failed, listing error: %v",
				result.FailedZones(), len(result.Zones), result.Listing)
		}
	}
	return result
}
