// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"zonemap/pkg/config"

	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// Options holds all command line options
type Options struct {
	ConfigFile    string
	TableFile     string
	AuditLogFile  string
	PerPage       int
	MaxWorkers    int
	APIURL        string
	Outputs       []string
	LogLevel      string
	LogTimestamps bool
}

// Flags returns the global command line flags. Defaults live in
// config.LoadSettings so that unset flags fall back to the environment.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "domain",
			Aliases: []string{"d"},
			Usage:   "Domain to check",
		},
		&cli.BoolFlag{
			Name:    "update",
			Aliases: []string{"u"},
			Usage:   "Update domain database",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the account configuration file (default: " + config.DefaultConfigFile + ")",
		},
		&cli.StringFlag{
			Name:  "table",
			Usage: "Path to the lookup table (default: " + config.DefaultTableFile + ")",
		},
		&cli.StringFlag{
			Name:  "audit-log",
			Usage: "Path to the lookup audit log (default: " + config.DefaultAuditLogFile + ")",
		},
		&cli.IntFlag{
			Name:  "per-page",
			Usage: "Zones requested per page",
		},
		&cli.IntFlag{
			Name:  "max-workers",
			Usage: "Accounts exported in parallel (0 = all)",
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Cloudflare API base URL",
		},
		&cli.StringSliceFlag{
			Name:  "output",
			Usage: "Additional export as format:path, formats: json, yaml, hosts, zone (repeatable)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (error, warn, info, verbose, debug, trace)",
		},
		&cli.BoolFlag{
			Name:  "log-timestamps",
			Usage: "Show timestamps in logs",
		},
	}
}

// OptionsFromContext collects the flags that were set on the command line
func OptionsFromContext(c *cli.Context) *Options {
	return &Options{
		ConfigFile:    c.String("config"),
		TableFile:     c.String("table"),
		AuditLogFile:  c.String("audit-log"),
		PerPage:       c.Int("per-page"),
		MaxWorkers:    c.Int("max-workers"),
		APIURL:        c.String("api-url"),
		Outputs:       c.StringSlice("output"),
		LogLevel:      c.String("log-level"),
		LogTimestamps: c.Bool("log-timestamps"),
	}
}

// ApplyOverrides applies command line options to the configuration system
func ApplyOverrides(opts *Options) {
	if opts.ConfigFile != "" {
		config.SetEnvVar("ZONEMAP_CONFIG", opts.ConfigFile)
	}
	if opts.TableFile != "" {
		config.SetEnvVar("ZONEMAP_TABLE", opts.TableFile)
	}
	if opts.AuditLogFile != "" {
		config.SetEnvVar("ZONEMAP_AUDIT_LOG", opts.AuditLogFile)
	}
	if opts.PerPage > 0 {
		config.SetEnvVar("ZONEMAP_PER_PAGE", strconv.Itoa(opts.PerPage))
	}
	if opts.MaxWorkers > 0 {
		config.SetEnvVar("ZONEMAP_MAX_WORKERS", strconv.Itoa(opts.MaxWorkers))
	}
	if opts.APIURL != "" {
		config.SetEnvVar("ZONEMAP_API_URL", opts.APIURL)
	}
	if len(opts.Outputs) > 0 {
		config.SetEnvVar("ZONEMAP_OUTPUTS", strings.Join(opts.Outputs, ","))
	}
	if opts.LogLevel != "" {
		config.SetEnvVar("LOG_LEVEL", opts.LogLevel)
	}
	if opts.LogTimestamps {
		config.SetEnvVar("LOG_TIMESTAMPS", "true")
	}
}
