// binarydump_test.go: tests for hex + transcript binary dump formatting
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"strings"
	"testing"
)

func TestBinaryDumpBasic(t *testing.T) {
	data := []byte("Hello, World!")
	dump, err := BinaryDump(data, 0, 0, BinaryDumpOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dump == "" {
		t.Fatal("expected non-empty dump")
	}
}

func TestBinaryDumpClampsOverlongLimit(t *testing.T) {
	data := []byte("short")
	dump, err := BinaryDump(data, 0, 1000, BinaryDumpOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dump == "" {
		t.Fatal("expected a dump of the clamped data, not an error")
	}
}

func TestBinaryDumpRejectsNegativeWidth(t *testing.T) {
	_, err := BinaryDump([]byte("x"), 0, 0, BinaryDumpOptions{Width: -1})
	if err == nil {
		t.Error("expected InvalidArg error for negative width")
	}
}

func TestBinaryDumpRejectsNegativeOffset(t *testing.T) {
	_, err := BinaryDump([]byte("hello"), -1, 0, BinaryDumpOptions{})
	if err == nil {
		t.Error("expected InvalidArg error for negative offset")
	}
}

func TestBinaryDumpRejectsOffsetPastData(t *testing.T) {
	_, err := BinaryDump([]byte("hi"), 10, 0, BinaryDumpOptions{})
	if err == nil {
		t.Error("expected InvalidArg error for an offset past the end of data")
	}
}

func TestBinaryDumpOffsetStartsMidBuffer(t *testing.T) {
	dump, err := BinaryDump([]byte("Hello, World!"), 7, 0, BinaryDumpOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsByte(dump, 'W') {
		t.Error("expected the dump to start from offset, including 'World!'")
	}
	if containsByte(dump, 'H') {
		t.Error("expected the dump to exclude bytes before offset")
	}
}

func TestBinaryDumpSubstitutesNonPrintable(t *testing.T) {
	dump, err := BinaryDump([]byte{0x00, 0x01, 'A'}, 0, 0, BinaryDumpOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsByte(dump, '.') {
		t.Error("expected substitution character '.' for non-printable bytes")
	}
	if !containsByte(dump, 'A') {
		t.Error("expected printable byte 'A' to appear verbatim")
	}
}

func TestBinaryDumpSubstitutesBacktick(t *testing.T) {
	dump, err := BinaryDump([]byte{'`', 'A'}, 0, 0, BinaryDumpOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if containsByte(dump, '`') {
		t.Error("expected backtick in the transcript column to be substituted")
	}
}

func TestBinaryDumpColumnHeader(t *testing.T) {
	dump, err := BinaryDump([]byte("Hello"), 0, 0, BinaryDumpOptions{ColumnHeader: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := SplitLines(dump)
	if len(lines) < 2 {
		t.Fatal("expected at least a header line and a data line")
	}
	if !containsByte(lines[0], '0') {
		t.Errorf("expected column header line to contain hex offsets, got %q", lines[0])
	}
}

func TestAddressWidthGrowsWithData(t *testing.T) {
	dump, err := BinaryDump(make([]byte, 0x1_0001), 0, 0, BinaryDumpOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := SplitLines(dump)
	lastData := lines[len(lines)-2]
	addrField := strings.SplitN(lastData, "  ", 2)[0]
	if len(addrField)%2 != 0 {
		t.Errorf("address field width = %d, want an even count", len(addrField))
	}
	if len(addrField) < 6 {
		t.Errorf("address field %q too narrow to cover 0x10000", addrField)
	}
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
