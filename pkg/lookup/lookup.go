// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package lookup resolves a domain to its apex IP from the table, falling
// back to a live scan of every account
package lookup

import (
	"zonemap/pkg/audit"
	"zonemap/pkg/config"
	"zonemap/pkg/inventory"
	"zonemap/pkg/log"
	"zonemap/pkg/table"
	"zonemap/pkg/util"

	"context"
	"errors"
	"fmt"
	"io/fs"
)

// UnknownAccount is reported for table rows without an account column
const UnknownAccount = "Unknown account"

// ErrInvalidDomain is returned for queries that are not domain names
var ErrInvalidDomain = errors.New("invalid domain name")

// Source tells where a result came from
type Source string

const (
	SourceTable Source = "table"
	SourceAPI   Source = "api"
)

// Result is a resolved domain
type Result struct {
	Domain  string
	IP      string
	Account string
	Source  Source
}

// String renders the result as shown to the operator and written to the audit log
func (r Result) String() string {
	return fmt.Sprintf("%s - %s (Account: %s)", r.Domain, r.IP, r.Account)
}

// Service answers lookups
type Service struct {
	TablePath string
	Audit     *audit.Log // nil disables the audit trail
	NewSource inventory.SourceFactory
}

// Lookup searches the table, then every account in order. found is false
// when no account manages the domain. Only an invalid query is an error.
func (s *Service) Lookup(ctx context.Context, domain string, accounts []config.Account) (Result, bool, error) {
	query := util.CleanDomain(domain)
	if !util.IsValidDomain(query) {
		return Result{}, false, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	result, found := s.fromTable(query)
	if !found {
		result, found = s.fromAPI(ctx, query, accounts)
	}
	if !found {
		log.Verbose("[lookup] %s not found in table or any of %d account(s)", query, len(accounts))
		return Result{}, false, nil
	}

	if s.Audit != nil {
		if err := s.Audit.Append(result.String()); err != nil {
			log.Warn("[lookup] Unable to record lookup: %v", err)
		}
	}
	return result, true, nil
}

func (s *Service) fromTable(query string) (Result, bool) {
	row, found, err := table.Find(s.TablePath, query)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("File %s not found. Searching via API.", s.TablePath)
		return Result{}, false
	case err != nil:
		log.Error("[lookup] Error reading file %s: %v", s.TablePath, err)
		return Result{}, false
	case !found:
		log.Debug("[lookup] %s not in %s", query, s.TablePath)
		return Result{}, false
	}

	account := row.Account
	if account == "" {
		account = UnknownAccount
	}
	return Result{Domain: query, IP: row.IP, Account: account, Source: SourceTable}, true
}

// fromAPI requires the zone name to equal the query exactly
func (s *Service) fromAPI(ctx context.Context, query string, accounts []config.Account) (Result, bool) {
	if s.NewSource == nil {
		return Result{}, false
	}

	for _, account := range accounts {
		if ctx.Err() != nil {
			log.Warn("[lookup] Search for %s cancelled: %v", query, ctx.Err())
			return Result{}, false
		}

		logger := log.NewScopedLogger(fmt.Sprintf("[lookup/%s]", account.Name), "")
		src, err := s.NewSource(account)
		if err != nil {
			logger.Debug("Skipping account: %v", err)
			continue
		}

		listing := src.ListZones(ctx)
		for _, zone := range listing.Zones {
			if zone.Name != query {
				continue
			}
			records, err := src.FetchApexRecords(ctx, zone)
			if err != nil || len(records) == 0 {
				logger.Debug("Zone %s matched without a usable apex A record", zone.Name)
				continue
			}
			return Result{Domain: query, IP: records[0].Content, Account: account.Name, Source: SourceAPI}, true
		}
	}
	return Result{}, false
}
