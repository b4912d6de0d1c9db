// config_test.go: tests for the YAML bootstrap loader
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package bootstrap

import (
	"testing"

	"github.com/agilira/slf"
)

func TestParseAppliesDefaults(t *testing.T) {
	data := []byte(`
directory: /var/log/myapp
file_prefix: myapp
max_retained_files: 5
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Directory != "/var/log/myapp" {
		t.Errorf("Directory = %q, want %q", cfg.Directory, "/var/log/myapp")
	}
	if cfg.ZoneKind != slf.ZoneUTC {
		t.Errorf("ZoneKind = %v, want ZoneUTC default", cfg.ZoneKind)
	}
	if cfg.MaxFileBytes != slf.DefaultMaxFileBytes {
		t.Errorf("MaxFileBytes = %d, want default %d", cfg.MaxFileBytes, slf.DefaultMaxFileBytes)
	}
}

func TestParseBackfillsMaxRetainedFilesWhenOmitted(t *testing.T) {
	data := []byte(`directory: /var/log/myapp`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxRetainedFiles != DefaultMaxRetainedFiles {
		t.Errorf("MaxRetainedFiles = %d, want default %d", cfg.MaxRetainedFiles, DefaultMaxRetainedFiles)
	}
}

func TestParsePreservesExplicitZeroMaxRetainedFiles(t *testing.T) {
	data := []byte(`
directory: /var/log/myapp
max_retained_files: 0
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxRetainedFiles != 0 {
		t.Errorf("MaxRetainedFiles = %d, want explicit 0 preserved", cfg.MaxRetainedFiles)
	}
}

func TestParseRejectsUnknownZone(t *testing.T) {
	data := []byte(`zone: martian`)
	if _, err := Parse(data); err == nil {
		t.Error("expected error for unrecognised zone kind")
	}
}

func TestParseFlushInterval(t *testing.T) {
	data := []byte(`flush_interval: 250ms`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FlushInterval.String() != "250ms" {
		t.Errorf("FlushInterval = %v, want 250ms", cfg.FlushInterval)
	}
}
