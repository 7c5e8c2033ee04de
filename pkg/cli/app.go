// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package cli defines the zonemap command surface
package cli

import (
	"zonemap/pkg/config"
	"zonemap/pkg/log"
	"zonemap/pkg/version"

	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// NewApp builds the zonemap command line application
func NewApp() *cli.App {
	return &cli.App{
		Name:    "zonemap",
		Usage:   "Cloudflare domain IP search",
		Version: version.String(),
		Flags:   Flags(),
		Action:  runMain,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the cached lookup table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "account",
						Aliases: []string{"a"},
						Usage:   "Only show rows of this account",
					},
				},
				Action: runList,
			},
			{
				Name:  "serve",
				Usage: "Serve lookups over HTTP, optionally refreshing the table on an interval",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "listen",
						Usage: "Listen address, IP or interface pattern such as eth* or !docker* (repeatable, default: all)",
					},
					&cli.StringFlag{
						Name:  "port",
						Usage: "Port used with IP and interface patterns (default: " + config.DefaultListenPort + ")",
					},
					&cli.DurationFlag{
						Name:  "refresh-interval",
						Usage: "Re-export the table on this interval (0 = never)",
					},
				},
				Action: runServe,
			},
		},
	}
}

// setup applies flag overrides, configures logging and loads the runtime
func setup(c *cli.Context) (*Runtime, error) {
	ApplyOverrides(OptionsFromContext(c))
	settings := config.LoadSettings()

	logger := log.GetLogger()
	logger.SetLevel(settings.LogLevel)
	logger.SetShowTimestamps(settings.LogTimestamps)
	log.Debug("[config] Logger configured with level: %s, timestamps: %t", settings.LogLevel, settings.LogTimestamps)

	rt, err := NewRuntime(settings, c.App.Writer)
	if errors.Is(err, config.ErrConfigNotFound) || errors.Is(err, config.ErrNoAccounts) {
		fmt.Fprintln(c.App.ErrWriter, "No API configurations available!")
	}
	return rt, err
}

func runMain(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	switch {
	case c.String("domain") != "":
		return rt.Check(ctx, c.String("domain"))
	case c.Bool("update"):
		return rt.Update(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := config.WatchStore(ctx, rt.Store); err != nil {
			log.Warn("[config] Not watching %s for changes: %v", rt.Settings.ConfigFile, err)
		}
	}()

	return RunMenu(ctx, c.App.Reader, c.App.Writer, rt)
}

func runServe(c *cli.Context) error {
	if listen := c.StringSlice("listen"); len(listen) > 0 {
		config.SetEnvVar("ZONEMAP_LISTEN", strings.Join(listen, ","))
	}
	if port := c.String("port"); port != "" {
		config.SetEnvVar("ZONEMAP_LISTEN_PORT", port)
	}
	if interval := c.Duration("refresh-interval"); interval > 0 {
		config.SetEnvVar("ZONEMAP_REFRESH_INTERVAL", interval.String())
	}

	rt, err := setup(c)
	if err != nil {
		return err
	}
	return rt.Serve(c.Context)
}

func runList(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	return rt.List(c.String("account"))
}
