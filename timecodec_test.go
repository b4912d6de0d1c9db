// timecodec_test.go: tests for the ISO-8601 round-trip time codec
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"testing"
	"time"
)

func TestFormatParseISO8601UTC(t *testing.T) {
	original := time.Date(2026, 3, 5, 12, 30, 45, 123456700, time.UTC)
	text := FormatISO8601(original, ZoneUTC)

	parsed, kind, err := ParseISO8601(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != ZoneUTC {
		t.Errorf("kind = %v, want ZoneUTC", kind)
	}
	if !parsed.Equal(original) {
		t.Errorf("parsed = %v, want %v", parsed, original)
	}
}

func TestFormatParseISO8601Offset(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	original := time.Date(2026, 3, 5, 12, 30, 45, 0, loc)
	text := FormatISO8601(original, ZoneOffset)

	parsed, kind, err := ParseISO8601(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != ZoneOffset {
		t.Errorf("kind = %v, want ZoneOffset", kind)
	}
	if !parsed.Equal(original) {
		t.Errorf("parsed = %v, want %v", parsed, original)
	}
}

func TestFormatParseISO8601Unspecified(t *testing.T) {
	loc := time.FixedZone("TEST", 3600)
	original := time.Date(2026, 3, 5, 12, 30, 45, 0, loc)
	text := FormatISO8601(original, ZoneUnspecified)

	parsed, kind, err := ParseISO8601(text, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != ZoneUnspecified {
		t.Errorf("kind = %v, want ZoneUnspecified", kind)
	}
	if !parsed.Equal(original) {
		t.Errorf("parsed = %v, want %v", parsed, original)
	}
}

func TestParseISO8601RejectsGarbage(t *testing.T) {
	if _, _, err := ParseISO8601("not-a-timestamp", nil); err == nil {
		t.Error("expected Format error for malformed timestamp")
	}
}

func TestUnixSecondsRoundTrip(t *testing.T) {
	original := time.Date(2026, 3, 5, 12, 30, 45, 0, time.UTC)
	sec := UnixSeconds(original)
	back := FromUnixSeconds(sec)
	if !back.Equal(original) {
		t.Errorf("FromUnixSeconds(UnixSeconds(t)) = %v, want %v", back, original)
	}
}
