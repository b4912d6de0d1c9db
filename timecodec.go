// timecodec.go: ISO-8601 round-trip time codec
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"strconv"
	"strings"
	"time"
)

// ZoneKind records how a timestamp's zone offset was represented on the
// wire, so a round trip can reconstruct the same representation instead
// of silently promoting every timestamp to UTC.
type ZoneKind int

const (
	// ZoneUTC is a trailing "Z".
	ZoneUTC ZoneKind = iota
	// ZoneOffset is an explicit "+HH:MM" / "-HH:MM" suffix.
	ZoneOffset
	// ZoneUnspecified carries no zone suffix at all.
	ZoneUnspecified
)

const isoLayout = "2006-01-02T15:04:05.0000000"

// FormatISO8601 renders t with a fixed 7-digit fractional-second field
// and a zone suffix chosen by kind. ZoneUnspecified emits the local
// clock fields of t with no suffix; the zone is lost on purpose and
// must be supplied externally on decode (see ParseISO8601).
func FormatISO8601(t time.Time, kind ZoneKind) string {
	switch kind {
	case ZoneUTC:
		return t.UTC().Format(isoLayout) + "Z"
	case ZoneOffset:
		base := t.Format(isoLayout)
		_, offsetSeconds := t.Zone()
		return base + formatOffset(offsetSeconds)
	default: // ZoneUnspecified
		return t.Format(isoLayout)
	}
}

func formatOffset(totalSeconds int) string {
	sign := "+"
	if totalSeconds < 0 {
		sign = "-"
		totalSeconds = -totalSeconds
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	var b strings.Builder
	b.WriteString(sign)
	writePadded2(&b, hours)
	b.WriteByte(':')
	writePadded2(&b, minutes)
	return b.String()
}

func writePadded2(b *strings.Builder, v int) {
	if v < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(v))
}

// ParseISO8601 parses a timestamp formatted by FormatISO8601. fallback
// is applied only when the text carries no zone suffix at all
// (ZoneUnspecified on the wire): the parsed clock fields are interpreted
// in fallback's location. A malformed timestamp returns a Format error.
func ParseISO8601(text string, fallback *time.Location) (time.Time, ZoneKind, error) {
	switch {
	case strings.HasSuffix(text, "Z"):
		t, err := time.Parse(isoLayout+"Z", text)
		if err != nil {
			return time.Time{}, 0, wrapFormat(err, "invalid ISO-8601 UTC timestamp")
		}
		return t.UTC(), ZoneUTC, nil
	case hasOffsetSuffix(text):
		t, err := time.Parse(isoLayout+"Z07:00", text)
		if err != nil {
			return time.Time{}, 0, wrapFormat(err, "invalid ISO-8601 offset timestamp")
		}
		return t, ZoneOffset, nil
	default:
		if fallback == nil {
			fallback = time.UTC
		}
		t, err := time.ParseInLocation(isoLayout, text, fallback)
		if err != nil {
			return time.Time{}, 0, wrapFormat(err, "invalid ISO-8601 timestamp")
		}
		return t, ZoneUnspecified, nil
	}
}

// hasOffsetSuffix reports whether text ends in "+HH:MM" or "-HH:MM"
// beyond the fixed-width date/time/fraction prefix.
func hasOffsetSuffix(text string) bool {
	if len(text) < len(isoLayout)+6 {
		return false
	}
	suffix := text[len(isoLayout):]
	if len(suffix) != 6 {
		return false
	}
	return (suffix[0] == '+' || suffix[0] == '-') && suffix[3] == ':'
}

// UnixSeconds truncates t to whole seconds since the epoch.
func UnixSeconds(t time.Time) int64 { return t.Unix() }

// FromUnixSeconds builds a UTC time from whole seconds since the epoch.
func FromUnixSeconds(sec int64) time.Time { return time.Unix(sec, 0).UTC() }
