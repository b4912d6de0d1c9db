// header_test.go: tests for HeaderElement serialise/parse round trips
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"testing"
	"time"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		App:     "TestApp",
		StartUp: time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
		SeqNo:   42,
		Misc:    []MiscEntry{{Key: "env", Value: "staging"}},
	}

	entity := h.Serialise(ZoneUTC)
	parsed, kind, consumed, err := ParseHeader(entity, 0, time.Local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != len(entity) {
		t.Errorf("consumed = %d, want %d", consumed, len(entity))
	}
	if kind != ZoneUTC {
		t.Errorf("kind = %v, want ZoneUTC", kind)
	}
	if parsed.App != h.App {
		t.Errorf("App = %q, want %q", parsed.App, h.App)
	}
	if parsed.SeqNo != h.SeqNo {
		t.Errorf("SeqNo = %d, want %d", parsed.SeqNo, h.SeqNo)
	}
	if !parsed.StartUp.Equal(h.StartUp) {
		t.Errorf("StartUp = %v, want %v", parsed.StartUp, h.StartUp)
	}
	if len(parsed.Misc) != 1 || parsed.Misc[0].Key != "env" || parsed.Misc[0].Value != "staging" {
		t.Errorf("Misc = %v, want one entry env=staging", parsed.Misc)
	}
}

func TestHeaderRoundTripEscapesSpecialCharacters(t *testing.T) {
	h := Header{
		App:     `App"With`,
		StartUp: time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
		SeqNo:   1,
	}
	entity := h.Serialise(ZoneUTC)
	parsed, _, _, err := ParseHeader(entity, 0, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.App != h.App {
		t.Errorf("App = %q, want %q", parsed.App, h.App)
	}
}

func TestParseHeaderRejectsIncompleteEntity(t *testing.T) {
	entity := Header{App: "X", StartUp: time.Now(), SeqNo: 1}.Serialise(ZoneUTC)
	truncated := entity[:len(entity)-1]
	if _, _, _, err := ParseHeader(truncated, 0, time.UTC); err == nil {
		t.Error("expected Format error for a truncated header entity")
	}
}

func TestHeaderSerialiseStartsWithIdentityLiteral(t *testing.T) {
	entity := Header{App: "X", StartUp: time.Now(), SeqNo: 1}.Serialise(ZoneUTC)
	if string(entity[:len(HeaderIdentity)]) != HeaderIdentity {
		t.Errorf("entity does not start with %q: %q", HeaderIdentity, entity[:len(HeaderIdentity)])
	}
}

func TestIdentifyNeedsMoreBytes(t *testing.T) {
	needMore, compatible := Identify([]byte("SLF"))
	if !needMore || compatible {
		t.Errorf("Identify(%q) = (%v, %v), want (true, false)", "SLF", needMore, compatible)
	}
}

func TestIdentifyCompatible(t *testing.T) {
	entity := Header{App: "X", StartUp: time.Now(), SeqNo: 1}.Serialise(ZoneUTC)
	needMore, compatible := Identify(entity)
	if needMore || !compatible {
		t.Errorf("Identify(header entity) = (%v, %v), want (false, true)", needMore, compatible)
	}
}

func TestIdentifyIncompatible(t *testing.T) {
	needMore, compatible := Identify([]byte("NOTSLF" + string(RS) + "x" + string(ES)))
	if needMore || compatible {
		t.Errorf("Identify(bogus) = (%v, %v), want (false, false)", needMore, compatible)
	}
}

func TestParseHeaderRejectsMissingIdentityLiteral(t *testing.T) {
	bogus := append([]byte("NOTSLF"), RS, ES)
	if _, _, _, err := ParseHeader(bogus, 0, time.UTC); err == nil {
		t.Error("expected Unsupported error when the SLF.1 identity record is missing")
	}
}
