// header.go: the per-stream HeaderElement
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"bytes"
	"strconv"
	"time"
)

// HeaderIdentity is the literal first record of every Header entity,
// naming the format version. A stream that does not begin with this
// exact record is not an SLF stream.
const HeaderIdentity = "SLF.1"

// MiscEntry is one caller-supplied key/value pair carried in a header,
// in addition to the fixed app/start-up/seq-no fields. Order is
// preserved across serialise/parse round trips.
type MiscEntry struct {
	Key   string
	Value string
}

// Header is the first entity written to every stream: it names the
// producing application, records when the stream was opened, and
// carries the file's sequence number (events carry none of their own).
type Header struct {
	App     string
	StartUp time.Time
	SeqNo   uint64
	Misc    []MiscEntry
}

// Serialise renders h as a complete entity: the literal identity record
// SLF.1, then the three mandatory records in fixed order (each
// RS-delimited and VRS-decorated), then each misc entry (each preceded
// by NL RS INDENT instead of VRS), terminated by ES.
func (h Header) Serialise(kind ZoneKind) []byte {
	buf := []byte(HeaderIdentity)
	writeMandatoryRecord(&buf, "app", h.App)
	writeMandatoryRecord(&buf, "start-up", FormatISO8601(h.StartUp, kind))
	writeMandatoryRecord(&buf, "seq-no", strconv.FormatUint(h.SeqNo, 10))
	for _, m := range h.Misc {
		writeMiscRecord(&buf, m.Key, m.Value)
	}
	buf = append(buf, ES)
	return buf
}

// writeMandatoryRecord appends one RS-delimited, VRS-decorated
// "key=\"value\"" record to buf. Values are always wrapped in a literal
// double-quote pair; stripValueQuotes reverses this on the read side.
func writeMandatoryRecord(buf *[]byte, key, value string) {
	*buf = append(*buf, RS)
	*buf = append(*buf, VRS...)
	*buf = append(*buf, key...)
	*buf = append(*buf, AS)
	*buf = append(*buf, '"')
	*buf = append(*buf, Encode(value)...)
	*buf = append(*buf, '"')
}

// writeMiscRecord appends one optional key/value record using the
// NL+RS+INDENT ornamentation instead of VRS, per §4.5.
func writeMiscRecord(buf *[]byte, key, value string) {
	*buf = append(*buf, NL, RS)
	*buf = append(*buf, INDENT...)
	*buf = append(*buf, Encode(key)...)
	*buf = append(*buf, AS)
	*buf = append(*buf, '"')
	*buf = append(*buf, Encode(value)...)
	*buf = append(*buf, '"')
}

// Identify reports whether data begins with the header identity
// literal. needMore is true when fewer bytes than the literal are
// available to decide; compatible is only meaningful when needMore is
// false.
func Identify(data []byte) (needMore bool, compatible bool) {
	if len(data) < len(HeaderIdentity) {
		return true, false
	}
	records, _, complete, err := SplitRecords(data, 0)
	if err != nil {
		return false, false
	}
	if len(records) == 0 {
		if !complete {
			return true, false
		}
		return false, false
	}
	first := trimOrnament(records[0])
	return false, bytes.Equal(first, []byte(HeaderIdentity))
}

// ParseHeader consumes one entity from data starting at offset and
// returns the decoded Header, the zone kind its start-up field carried,
// and the number of bytes consumed. fallback supplies the location for
// a ZoneUnspecified start-up timestamp. A malformed or incomplete
// entity returns a Format error, except that an entity with fewer than
// four records or without the SLF.1 identity record returns an
// Unsupported error; callers needing more bytes detect the incomplete
// case the same way Reader does, via SplitRecords' entityComplete flag.
func ParseHeader(data []byte, offset int, fallback *time.Location) (Header, ZoneKind, int, error) {
	records, consumed, complete, err := SplitRecords(data, offset)
	if err != nil {
		return Header{}, 0, 0, err
	}
	if !complete {
		return Header{}, 0, consumed, newFormat("incomplete header entity")
	}
	if len(records) < 4 {
		return Header{}, 0, consumed, newUnsupported("header entity missing required records")
	}
	if !bytes.Equal(trimOrnament(records[0]), []byte(HeaderIdentity)) {
		return Header{}, 0, consumed, newUnsupported("header entity missing SLF.1 identity record")
	}

	var h Header
	var kind ZoneKind

	app, err := parseRecordValue(records[1], "app")
	if err != nil {
		return Header{}, 0, consumed, err
	}
	h.App = app

	startUpRaw, err := parseRecordValue(records[2], "start-up")
	if err != nil {
		return Header{}, 0, consumed, err
	}
	startUp, zoneKind, err := ParseISO8601(startUpRaw, fallback)
	if err != nil {
		return Header{}, 0, consumed, err
	}
	h.StartUp = startUp
	kind = zoneKind

	seqNoRaw, err := parseRecordValue(records[3], "seq-no")
	if err != nil {
		return Header{}, 0, consumed, err
	}
	seqNo, err := strconv.ParseUint(seqNoRaw, 10, 64)
	if err != nil {
		return Header{}, 0, consumed, wrapFormat(err, "invalid seq-no")
	}
	h.SeqNo = seqNo

	for _, rec := range records[4:] {
		key, value, hasValue, err := ParseKV(rec)
		if err != nil {
			return Header{}, 0, consumed, err
		}
		decodedKey, err := Decode(string(key))
		if err != nil {
			return Header{}, 0, consumed, err
		}
		decodedValue := ""
		if hasValue {
			decoded, err := Decode(string(stripValueQuotes(value)))
			if err != nil {
				return Header{}, 0, consumed, err
			}
			decodedValue = decoded
		}
		h.Misc = append(h.Misc, MiscEntry{Key: decodedKey, Value: decodedValue})
	}

	return h, kind, consumed, nil
}

// parseRecordValue parses rec as a kv record, requires its key to
// match expectedKey, and returns the decoded, quote-stripped value.
func parseRecordValue(rec []byte, expectedKey string) (string, error) {
	key, value, hasValue, err := ParseKV(rec)
	if err != nil {
		return "", err
	}
	if string(key) != expectedKey {
		return "", newFormat("expected record key " + expectedKey + ", got " + string(key))
	}
	if !hasValue {
		return "", newFormat("record " + expectedKey + " is missing its value")
	}
	decoded, err := Decode(string(stripValueQuotes(value)))
	if err != nil {
		return "", err
	}
	return decoded, nil
}
