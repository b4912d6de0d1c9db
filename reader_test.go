// reader_test.go: tests for the incremental stream reader
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func buildStream(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	h := Header{App: "streamtest", StartUp: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), SeqNo: 0}
	buf.Write(h.Serialise(ZoneUTC))

	for i := 0; i < 3; i++ {
		e := Event{
			Timestamp: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			Level:     "INFO",
			Details:   []Detail{{Variant: DetailMessage, Message: "event"}},
		}
		entity, err := e.Serialise(ZoneUTC, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		buf.Write(entity)
	}
	return buf.Bytes()
}

func TestReaderYieldsHeaderThenEvents(t *testing.T) {
	stream := buildStream(t)
	reader := NewReader(bytes.NewReader(stream), time.UTC)

	elem, err := reader.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elem.Kind != ElementHeader {
		t.Fatalf("first element kind = %v, want ElementHeader", elem.Kind)
	}
	if elem.Header.App != "streamtest" {
		t.Errorf("App = %q, want %q", elem.Header.App, "streamtest")
	}

	for i := 0; i < 3; i++ {
		elem, err := reader.Next()
		if err != nil {
			t.Fatalf("unexpected error on event %d: %v", i, err)
		}
		if elem.Kind != ElementEvent {
			t.Fatalf("element %d kind = %v, want ElementEvent", i, elem.Kind)
		}
	}

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReaderTopsUpInSmallChunks(t *testing.T) {
	stream := buildStream(t)
	reader := NewReader(&slowReader{data: stream, chunk: 3}, time.UTC)

	count := 0
	for {
		_, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
	}
	if count != 4 {
		t.Errorf("read %d elements, want 4 (1 header + 3 events)", count)
	}
}

// slowReader returns at most chunk bytes per Read call, forcing Reader
// to top up its buffer multiple times per entity.
type slowReader struct {
	data  []byte
	chunk int
}

func (s *slowReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := s.chunk
	if n > len(p) {
		n = len(p)
	}
	if n > len(s.data) {
		n = len(s.data)
	}
	copy(p, s.data[:n])
	s.data = s.data[n:]
	return n, nil
}

func TestReaderRejectsTruncatedFinalEntity(t *testing.T) {
	stream := buildStream(t)
	truncated := stream[:len(stream)-3]
	reader := NewReader(bytes.NewReader(truncated), time.UTC)

	for {
		_, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				t.Fatal("expected a Format error for a truncated stream, got io.EOF")
			}
			return
		}
	}
}
