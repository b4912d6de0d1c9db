// config.go: plain Router configuration
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import "time"

// Config is a plain value object describing how a Router opens,
// rotates and retains its log files. There is no fluent builder; build
// one with a struct literal and call WithDefaults to backfill zero
// fields, the same pattern the teacher's own configuration type uses.
type Config struct {
	// Directory is where log files are created.
	Directory string
	// FilePrefix names the stream; each file is named
	// <prefix>-<UTC timestamp>-<seq-no>.slf.
	FilePrefix string
	// MaxFileBytes triggers a rollover once the active file reaches
	// this size. Zero is replaced by DefaultMaxFileBytes in WithDefaults;
	// a negative value disables size-based rollover.
	MaxFileBytes int64
	// MaxRetainedFiles bounds how many rotated files are kept; the
	// oldest are removed once the count is exceeded. Zero disables
	// retention (files accumulate indefinitely).
	MaxRetainedFiles int
	// ZoneKind selects how timestamps are rendered in headers/events.
	ZoneKind ZoneKind
	// EchoToConsole additionally writes every event to os.Stdout.
	EchoToConsole bool
	// EchoToDebugConsole additionally writes every event to os.Stderr.
	EchoToDebugConsole bool
	// ConsoleBeautified strips the ES and RS framing bytes from the
	// console/debug-console echo; newlines and indentation are kept.
	ConsoleBeautified bool
	// FlushInterval is the period at which slfctl serve calls
	// Router.Flush. The Router itself does not read it and does not
	// flush on a timer or after each write.
	FlushInterval time.Duration
	// CatalogPath names a catalog.Store database file. NewRouter does
	// not open it; slfctl serve opens the store from this path and
	// installs it with WithCatalogStore.
	CatalogPath string
}

// DefaultMaxFileBytes is applied by WithDefaults when MaxFileBytes is
// zero: 25 MiB, per the format's own size budget.
const DefaultMaxFileBytes = 25 * 1024 * 1024

// DefaultFlushInterval is applied by WithDefaults when FlushInterval is
// zero; a negative FlushInterval becomes zero instead.
const DefaultFlushInterval = 2 * time.Second

// WithDefaults returns a copy of c with zero-valued fields backfilled:
// FilePrefix defaults to "app", MaxFileBytes to DefaultMaxFileBytes,
// FlushInterval to DefaultFlushInterval. A negative FlushInterval is
// normalised to zero.
func (c Config) WithDefaults() Config {
	if c.FilePrefix == "" {
		c.FilePrefix = "app"
	}
	if c.MaxFileBytes == 0 {
		c.MaxFileBytes = DefaultMaxFileBytes
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = DefaultFlushInterval
	} else if c.FlushInterval < 0 {
		c.FlushInterval = 0
	}
	return c
}
