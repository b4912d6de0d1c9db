// serve.go: the 'slfctl serve' subcommand
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flashflags "github.com/agilira/flash-flags"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/slf"
	"github.com/agilira/slf/catalog"
)

// collectArgs reads every positional argument orpheus parsed for this
// subcommand, so flash-flags can re-parse them for its own flag set.
func collectArgs(ctx *orpheus.Context) []string {
	var args []string
	for i := 0; ; i++ {
		a := ctx.GetArg(i)
		if a == "" {
			break
		}
		args = append(args, a)
	}
	return args
}

// handleServe starts a Router against a directory and blocks, writing
// one heartbeat event per tick until interrupted. It parses its own
// argument set with flash-flags rather than orpheus's per-command
// flags, mirroring how the teacher layers FlashFlags underneath its
// own command routing for the options a long-running process needs.
func handleServe(ctx *orpheus.Context) error {
	flags := flashflags.New("slfctl-serve")
	flags.String("dir", "./logs", "Directory to write log files into")
	flags.String("prefix", "app", "Log file prefix")
	flags.Int("max-retained", 10, "Maximum rotated files to retain")
	flags.String("heartbeat", "5s", "Heartbeat interval")
	flags.String("catalog", "", "Path to a SQLite rotation catalog (default: directory scan)")
	flags.String("flush-interval", "2s", "How often buffered events are flushed to disk")

	if err := flags.Parse(collectArgs(ctx)); err != nil {
		return fmt.Errorf("failed to parse serve flags: %w", err)
	}

	heartbeat, err := time.ParseDuration(flags.GetString("heartbeat"))
	if err != nil {
		return fmt.Errorf("invalid heartbeat duration: %w", err)
	}
	flushInterval, err := time.ParseDuration(flags.GetString("flush-interval"))
	if err != nil {
		return fmt.Errorf("invalid flush-interval duration: %w", err)
	}

	cfg := slf.Config{
		Directory:        flags.GetString("dir"),
		FilePrefix:       flags.GetString("prefix"),
		MaxRetainedFiles: flags.GetInt("max-retained"),
		ZoneKind:         slf.ZoneUTC,
		CatalogPath:      flags.GetString("catalog"),
		FlushInterval:    flushInterval,
	}

	var routerOpts []slf.RouterOption
	if cfg.CatalogPath != "" {
		store, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("failed to open rotation catalog: %w", err)
		}
		defer store.Close()
		routerOpts = append(routerOpts, slf.WithCatalogStore(store))
	}

	router, err := slf.NewRouter(cfg, routerOpts...)
	if err != nil {
		return fmt.Errorf("failed to start router: %w", err)
	}
	defer router.Close()

	bgCtx := context.Background()
	if err := router.Start(bgCtx); err != nil {
		return fmt.Errorf("failed to start router: %w", err)
	}
	defer router.Stop(bgCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	flushTicker := time.NewTicker(cfg.FlushInterval)
	defer flushTicker.Stop()

	for {
		select {
		case <-ticker.C:
			err := router.LogEvent(slf.Event{
				Level:   "INFO",
				Details: []slf.Detail{{Variant: slf.DetailMessage, Message: "heartbeat"}},
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, "slfctl serve: heartbeat write failed:", err)
			}
		case <-flushTicker.C:
			if err := router.Flush(bgCtx); err != nil {
				fmt.Fprintln(os.Stderr, "slfctl serve: flush failed:", err)
			}
		case <-sigCh:
			return nil
		}
	}
}
