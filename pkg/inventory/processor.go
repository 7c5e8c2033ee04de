// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package inventory builds the domain to IP table across every configured account
package inventory

import (
	"zonemap/pkg/cloudflare"
	"zonemap/pkg/config"
	"zonemap/pkg/log"
	"zonemap/pkg/table"
	"zonemap/pkg/util"

	"context"
	"fmt"
	"time"
)

// ZoneSource is the per-account view of the provider API
type ZoneSource interface {
	Account() string
	ListZones(ctx context.Context) cloudflare.ZoneListing
	FetchApexRecords(ctx context.Context, zone cloudflare.Zone) ([]cloudflare.ARecord, error)
}

// SourceFactory builds the ZoneSource for one account
type SourceFactory func(account config.Account) (ZoneSource, error)

// NewSourceFactory returns a factory building cloudflare clients with opts
func NewSourceFactory(opts cloudflare.Options) SourceFactory {
	return func(account config.Account) (ZoneSource, error) {
		client, err := cloudflare.NewClient(account, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// ZoneResult is the outcome of fetching one zone's apex records
type ZoneResult struct {
	Zone    cloudflare.Zone
	Records []cloudflare.ARecord
	Status  Status
	Err     error
}

// AccountResult is the outcome of processing one account
type AccountResult struct {
	Account  string
	Rows     []table.Row
	Zones    []ZoneResult
	Listing  error // set when the zone listing stopped early
	Status   Status
	Duration time.Duration
}

// FailedZones counts zones whose record fetch failed
func (r AccountResult) FailedZones() int {
	n := 0
	for _, z := range r.Zones {
		if z.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Err returns the listing error, or else the first zone error
func (r AccountResult) Err() error {
	if r.Listing != nil {
		return r.Listing
	}
	for _, z := range r.Zones {
		if z.Err != nil {
			return z.Err
		}
	}
	return nil
}

// Partial reports whether some data could not be fetched
func (r AccountResult) Partial() bool {
	return r.Listing != nil || r.FailedZones() > 0
}

// ProcessAccount lists the account's zones and fetches each zone's apex
// A-records in turn. Every apex record becomes its own row.
func ProcessAccount(ctx context.Context, src ZoneSource) AccountResult {
	start := time.Now()
	result := AccountResult{Account: src.Account()}
	logger := log.NewScopedLogger(fmt.Sprintf("[inventory/%s]", result.Account), "")

	listing := src.ListZones(ctx)
	result.Listing = listing.Err

	for _, zone := range listing.Zones {
		if ctx.Err() != nil {
			result.Zones = append(result.Zones, ZoneResult{Zone: zone, Status: StatusFailed, Err: ctx.Err()})
			continue
		}

		zoneLogger := logger.With(util.NormalizeDomainKey(zone.Name))
		records, err := src.FetchApexRecords(ctx, zone)
		zr := ZoneResult{Zone: zone, Records: records, Err: err}
		switch {
		case err != nil:
			zr.Status = StatusFailed
			zoneLogger.Warn("No records: %v", err)
		case len(records) == 0:
			zr.Status = StatusEmpty
			zoneLogger.Debug("No apex A record")
		default:
			zr.Status = StatusOK
			zoneLogger.Trace("%d apex A record(s)", len(records))
		}
		result.Zones = append(result.Zones, zr)

		for _, rec := range records {
			result.Rows = append(result.Rows, table.Row{
				Domain:  zone.Name,
				IP:      rec.Content,
				Account: result.Account,
			})
		}
	}

	result.Status = accountStatus(result)
	result.Duration = time.Since(start)
	return result
}

func accountStatus(r AccountResult) Status {
	if len(r.Rows) > 0 {
		return StatusOK
	}
	if r.Listing != nil && len(r.Zones) == 0 {
		return StatusFailed
	}
	if len(r.Zones) > 0 && r.FailedZones() == len(r.Zones) {
		return StatusFailed
	}
	return StatusEmpty
}
