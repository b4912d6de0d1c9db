// slfctl: command-line inspection and serving tool for SLF log streams
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/slf"
)

func main() {
	app := orpheus.New("slfctl").
		SetDescription("Inspect and serve structured logfile streams").
		SetVersion("1.0.0")

	catCmd := orpheus.NewCommand("cat", "Print every entity in a stream as text")
	catCmd.SetHandler(handleCat)
	catCmd.AddFlag("zone", "z", "utc", "Zone interpretation for unspecified timestamps")

	tailCmd := orpheus.NewCommand("tail", "Print the last N events in a stream")
	tailCmd.SetHandler(handleTail)
	tailCmd.AddFlag("n", "n", "10", "Number of events to print")

	serveCmd := orpheus.NewCommand("serve", "Run a router against a directory, emitting heartbeats")
	serveCmd.SetHandler(handleServe)

	app.AddCommand(catCmd)
	app.AddCommand(tailCmd)
	app.AddCommand(serveCmd)

	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "slfctl:", err)
		os.Exit(1)
	}
}

func handleCat(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		return fmt.Errorf("usage: slfctl cat <path>")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	loc := zoneFromFlag(ctx.GetFlagString("zone"))
	reader := slf.NewReader(f, loc)

	for {
		elem, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		printElement(elem)
	}
}

func handleTail(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		return fmt.Errorf("usage: slfctl tail <path> [-n count]")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := slf.NewReader(f, time.UTC)

	var ring []slf.Element
	limit := 10
	if n := ctx.GetFlagString("n"); n != "" {
		fmt.Sscanf(n, "%d", &limit)
	}

	for {
		elem, err := reader.Next()
		if err != nil {
			break
		}
		ring = append(ring, elem)
		if len(ring) > limit {
			ring = ring[1:]
		}
	}
	for _, elem := range ring {
		printElement(elem)
	}
	return nil
}

func printElement(elem slf.Element) {
	switch elem.Kind {
	case slf.ElementHeader:
		fmt.Printf("header app=%q seq-no=%d start-up=%s\n",
			elem.Header.App, elem.Header.SeqNo, elem.Header.StartUp.Format(time.RFC3339))
	case slf.ElementEvent:
		fmt.Printf("[%s] %s %s\n",
			elem.Event.Timestamp.Format(time.RFC3339), elem.Event.Level, eventMessage(elem.Event))
	}
}

// eventMessage returns the first message-variant detail's text, or the
// empty string if the event carries none.
func eventMessage(e slf.Event) string {
	for _, d := range e.Details {
		if d.Variant == slf.DetailMessage {
			return d.Message
		}
	}
	return ""
}

func zoneFromFlag(zone string) *time.Location {
	switch zone {
	case "local":
		return time.Local
	default:
		return time.UTC
	}
}
