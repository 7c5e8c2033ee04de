// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"zonemap/pkg/cli"
	"zonemap/pkg/log"

	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Initialize logger early to avoid singleton lock-in at wrong level
	log.Initialize(os.Getenv("LOG_LEVEL"), false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewApp().RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatal("%v", err)
	}
}
