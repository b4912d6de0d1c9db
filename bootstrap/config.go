// Package bootstrap loads a slf.Config from a YAML file, the format a
// deploying operator hand-edits instead of constructing a Config
// literal in Go.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/agilira/slf"
	yaml "go.yaml.in/yaml/v3"
)

// fileConfig mirrors slf.Config's fields in YAML's own naming
// convention; FlushInterval is a duration string ("2s") rather than a
// raw integer, since that's what a human editing the file expects.
type fileConfig struct {
	Directory          string `yaml:"directory"`
	FilePrefix         string `yaml:"file_prefix"`
	MaxFileBytes       int64  `yaml:"max_file_bytes"`
	MaxRetainedFiles   *int   `yaml:"max_retained_files"`
	Zone               string `yaml:"zone"`
	EchoToConsole      bool   `yaml:"echo_to_console"`
	EchoToDebugConsole bool   `yaml:"echo_to_debug_console"`
	ConsoleBeautified  bool   `yaml:"console_beautified"`
	FlushInterval      string `yaml:"flush_interval"`
	CatalogPath        string `yaml:"catalog_path"`
}

// DefaultMaxRetainedFiles is backfilled by Parse when a config file
// omits max_retained_files entirely, distinguishing "not set" (apply
// the format's own default of 5) from an explicit "0", which is kept
// as 0; the Router treats 0 as retention disabled and deletes no
// files. slf.Config.WithDefaults leaves MaxRetainedFiles alone,
// since a zero value there is ambiguous without this YAML layer's
// pointer.
const DefaultMaxRetainedFiles = 5

// Load reads path as YAML and returns the slf.Config it describes, with
// WithDefaults already applied.
func Load(path string) (slf.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return slf.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document already read into memory.
func Parse(data []byte) (slf.Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return slf.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	maxRetained := DefaultMaxRetainedFiles
	if fc.MaxRetainedFiles != nil {
		maxRetained = *fc.MaxRetainedFiles
	}

	cfg := slf.Config{
		Directory:          fc.Directory,
		FilePrefix:         fc.FilePrefix,
		MaxFileBytes:       fc.MaxFileBytes,
		MaxRetainedFiles:   maxRetained,
		EchoToConsole:      fc.EchoToConsole,
		EchoToDebugConsole: fc.EchoToDebugConsole,
		ConsoleBeautified:  fc.ConsoleBeautified,
		CatalogPath:        fc.CatalogPath,
	}

	switch fc.Zone {
	case "utc", "":
		cfg.ZoneKind = slf.ZoneUTC
	case "offset":
		cfg.ZoneKind = slf.ZoneOffset
	case "unspecified":
		cfg.ZoneKind = slf.ZoneUnspecified
	default:
		return slf.Config{}, fmt.Errorf("unrecognised zone kind %q", fc.Zone)
	}

	if fc.FlushInterval != "" {
		d, err := time.ParseDuration(fc.FlushInterval)
		if err != nil {
			return slf.Config{}, fmt.Errorf("invalid flush_interval: %w", err)
		}
		cfg.FlushInterval = d
	}

	return cfg.WithDefaults(), nil
}
