// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"zonemap/pkg/api"
	"zonemap/pkg/audit"
	"zonemap/pkg/cloudflare"
	"zonemap/pkg/config"
	"zonemap/pkg/inventory"
	"zonemap/pkg/log"
	"zonemap/pkg/lookup"
	"zonemap/pkg/output"
	"zonemap/pkg/poll"
	"zonemap/pkg/table"
	"zonemap/pkg/version"

	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"golang.org/x/sync/errgroup"
)

// Runtime wires the operations behind every command
type Runtime struct {
	Settings config.Settings
	Store    *config.Store
	Exporter *inventory.Exporter
	Lookup   *lookup.Service
	Out      io.Writer
}

// NewRuntime loads the account file and builds the export and lookup services
func NewRuntime(settings config.Settings, out io.Writer) (*Runtime, error) {
	cfg, err := config.Load(settings.ConfigFile)
	if err != nil {
		return nil, err
	}
	log.Info("[config] Loaded %d account(s) from %s", len(cfg.Accounts), cfg.Path)

	tlsConfig := cloudflare.TLSConfig{CA: settings.TLSCA}
	if err := tlsConfig.ValidateConfig(); err != nil {
		return nil, err
	}
	httpClient, err := cloudflare.NewHTTPClient(tlsConfig, settings.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	outputs, err := output.ParseAll(settings.Outputs)
	if err != nil {
		return nil, err
	}
	exportOutputs := make([]inventory.Output, 0, len(outputs))
	for _, o := range outputs {
		exportOutputs = append(exportOutputs, o)
	}

	factory := inventory.NewSourceFactory(cloudflare.Options{
		BaseURL:    settings.APIURL,
		PerPage:    settings.PerPage,
		RateLimit:  float64(settings.RateLimit),
		HTTPClient: httpClient,
		UserAgent:  version.UserAgent(),
	})

	return &Runtime{
		Settings: settings,
		Store:    config.NewStore(cfg),
		Exporter: &inventory.Exporter{
			TablePath:  settings.TableFile,
			MaxWorkers: settings.MaxWorkers,
			NewSource:  factory,
			Outputs:    exportOutputs,
		},
		Lookup: &lookup.Service{
			TablePath: settings.TableFile,
			Audit:     audit.New(settings.AuditLogFile),
			NewSource: factory,
		},
		Out: out,
	}, nil
}

// Check looks a domain up and prints the outcome
func (r *Runtime) Check(ctx context.Context, domain string) error {
	result, found, err := r.Lookup.Lookup(ctx, domain, r.Store.Accounts())
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(r.Out, "IP for %s not found in any account\n", domain)
		return nil
	}
	fmt.Fprintf(r.Out, "Found: %s\n", result)
	log.Debug("[lookup] %s answered from %s", result.Domain, result.Source)
	return nil
}

// Update rebuilds the table from every account and prints the elapsed time
func (r *Runtime) Update(ctx context.Context) error {
	summary, err := r.Exporter.Export(ctx, r.Store.Accounts())
	if err != nil {
		return err
	}
	for _, failed := range summary.Failed() {
		log.Warn("[inventory] Account %s contributed no rows: %v", failed.Account, failed.Err())
	}
	fmt.Fprintf(r.Out, "DNS records export completed. Results saved in %s\n", r.Settings.TableFile)
	fmt.Fprintf(r.Out, "Execution time: %.2f seconds\n", summary.Duration.Seconds())
	return nil
}

// List prints the cached table, optionally restricted to one account
func (r *Runtime) List(account string) error {
	rows, err := table.Read(r.Settings.TableFile)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("table %s not found, run with --update first", r.Settings.TableFile)
	}
	if err != nil {
		return err
	}
	PrintTable(r.Out, rows, account)
	return nil
}

// Serve answers HTTP lookups, re-exports on the refresh interval and reloads
// the account file when it changes
func (r *Runtime) Serve(ctx context.Context) error {
	clients, err := api.ParseClients(r.Settings.APIClients)
	if err != nil {
		return err
	}
	server := api.NewServer(api.Options{
		Listen:    r.Settings.Listen,
		Port:      r.Settings.ListenPort,
		TLSCert:   r.Settings.ListenTLSCert,
		TLSKey:    r.Settings.ListenTLSKey,
		Clients:   clients,
		TablePath: r.Settings.TableFile,
	}, r.Lookup, r.Exporter, r.Store)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		if err := config.WatchStore(ctx, r.Store); err != nil {
			log.Warn("[config] Not watching %s for changes: %v", r.Settings.ConfigFile, err)
		}
		return nil
	})
	if r.Settings.RefreshInterval > 0 {
		poller := poll.NewPoller("refresh", r.Settings.RefreshInterval, func(ctx context.Context) error {
			_, err := r.Exporter.Export(ctx, r.Store.Accounts())
			return err
		})
		g.Go(func() error {
			poller.Run(ctx)
			return nil
		})
	}
	return g.Wait()
}
