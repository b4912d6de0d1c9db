// event.go: the per-log-line EventElement
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

// EventIdentity is the literal first record of every Event entity.
const EventIdentity = "EVENT"

// DevMarker is the literal record emitted when an event was forced into
// the stream by a developer override, regardless of configured level.
const DevMarker = "Dev"

// Event is one record of activity: a timestamp, a severity level, the
// dot-separated logger hierarchy that produced it, a developer-forced
// flag, and an ordered list of details. A Details entry whose Variant is
// DetailSensitiveBegin/DetailSensitiveEnd marks the extent of a nested
// block to be folded and encrypted as a whole (§4.6); every other entry
// is emitted as its own value record.
type Event struct {
	Timestamp time.Time
	Level     string
	Hierarchy []string
	Dev       bool
	Details   []Detail
}

// Serialise renders e as a complete entity, in the exact order fixed by
// §4.6: the EVENT identity literal, a space-prefixed timestamp, level,
// hierarchy (if present), the first event-id detail's inline form (if
// present), the Dev marker (if set), then one value record per
// remaining detail — the first with VRS, the rest with NL+INDENT. A
// sensitive-begin/sensitive-end run is folded into a single encrypted
// value record via cipher; cipher may be nil only when no event
// presents a sensitive block (a nil cipher fails Encrypt for one).
func (e Event) Serialise(kind ZoneKind, cipher Cipher) ([]byte, error) {
	if cipher == nil {
		cipher = noCipher{}
	}

	buf := []byte(EventIdentity)
	buf = append(buf, RS, ' ')
	buf = append(buf, FormatISO8601(e.Timestamp, kind)...)
	buf = append(buf, RS)
	buf = append(buf, VRS...)
	buf = append(buf, Encode(e.Level)...)

	if len(e.Hierarchy) > 0 {
		buf = append(buf, RS)
		buf = append(buf, VRS...)
		buf = append(buf, encodeHierarchy(e.Hierarchy)...)
	}

	leadEventID, valueDetails := selectEventID(e.Details)
	if !leadEventID.IsEmpty() {
		buf = append(buf, RS)
		buf = append(buf, VRS...)
		buf = append(buf, leadEventID.InlineString()...)
	}

	if e.Dev {
		buf = append(buf, RS)
		buf = append(buf, VRS...)
		buf = append(buf, DevMarker...)
	}

	records, err := foldAndRenderDetails(valueDetails, cipher)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		buf = append(buf, NL)
	} else {
		for i, rec := range records {
			buf = append(buf, RS)
			if i == 0 {
				buf = append(buf, VRS...)
			} else {
				buf = append(buf, NL)
				buf = append(buf, INDENT...)
			}
			buf = append(buf, rec...)
		}
	}

	buf = append(buf, ES)
	return buf, nil
}

// selectEventID returns the first event-id detail (used for the inline
// header record) and the detail list with every event-id detail that
// carries no arguments removed (arguments-bearing event-id details are
// kept, since they still need their own value record per §4.6).
func selectEventID(details []Detail) (EventID, []Detail) {
	var lead EventID
	found := false
	out := make([]Detail, 0, len(details))
	for _, d := range details {
		if d.Variant == DetailEventID {
			if !found {
				lead = d.EventID
				found = true
			}
			if d.EventID.HasDetail() {
				out = append(out, d)
			}
			continue
		}
		out = append(out, d)
	}
	return lead, out
}

func encodeHierarchy(hierarchy []string) string {
	parts := make([]string, len(hierarchy))
	for i, h := range hierarchy {
		parts[i] = Encode(h)
	}
	return strings.Join(parts, ".")
}

// foldAndRenderDetails walks details in order, folding any run bounded
// by DetailSensitiveBegin/DetailSensitiveEnd (honouring nesting) into
// one ciphertext value record, and renders every other detail as a
// `Key`="value" record body (without the leading RS/ornament, which the
// caller attaches positionally). If encryption of a sensitive block
// fails, the whole block is dropped and rendering resumes at the next
// outer detail.
func foldAndRenderDetails(details []Detail, cipher Cipher) ([]string, error) {
	var records []string
	i := 0
	for i < len(details) {
		d := details[i]
		if d.Variant == DetailSensitiveBegin {
			end, ok := matchingSensitiveEnd(details, i)
			if !ok {
				return nil, newFormat("sensitive-begin detail has no matching sensitive-end")
			}
			inner := details[i+1 : end]
			i = end + 1

			innerRecords, err := foldAndRenderDetails(inner, cipher)
			if err != nil {
				return nil, err
			}
			// Sub-serialise "as if it stood alone" but with first=false
			// (§4.6): even the first inner record uses NL+INDENT, never
			// VRS, since it is not really the first record of an entity.
			plaintext := joinDetailRecords(innerRecords, false)

			ciphertext, err := cipher.Encrypt([]byte(plaintext))
			if err != nil {
				continue
			}
			text, err := cipher.Serialise(ciphertext)
			if err != nil {
				continue
			}
			records = append(records, quotedDetailRecord(recordKey(DetailSensitiveBegin), text))
			continue
		}

		raw, err := SerializeDetail(d)
		if err != nil {
			return nil, err
		}
		records = append(records, quotedDetailRecord(recordKey(d.Variant), raw))
		i++
	}
	return records, nil
}

// matchingSensitiveEnd returns the index of the DetailSensitiveEnd that
// closes the DetailSensitiveBegin at begin, honouring nesting.
func matchingSensitiveEnd(details []Detail, begin int) (int, bool) {
	depth := 0
	for i := begin; i < len(details); i++ {
		switch details[i].Variant {
		case DetailSensitiveBegin:
			depth++
		case DetailSensitiveEnd:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// quotedDetailRecord renders one `key`="value" record body (backtick-
// quoted key, double-quoted percent-encoded value), with no RS/ornament
// prefix; the caller positions that.
func quotedDetailRecord(key, value string) string {
	var b strings.Builder
	b.WriteByte(QM)
	b.WriteString(Encode(key))
	b.WriteByte(QM)
	b.WriteByte(AS)
	b.WriteByte('"')
	b.WriteString(Encode(value))
	b.WriteByte('"')
	return b.String()
}

// joinDetailRecords re-renders a list of already-built `key`="value"
// record bodies into the same RS-delimited shape foldAndRenderDetails'
// caller would produce for a standalone event's value-record tail, used
// as the plaintext a sensitive block's cipher encrypts. firstUsesVRS is
// false for a nested block (§4.6's "as if it stood alone, with
// first=false"): every record, including the first, uses NL+INDENT.
func joinDetailRecords(records []string, firstUsesVRS bool) string {
	var b strings.Builder
	for i, rec := range records {
		b.WriteByte(RS)
		if i == 0 && firstUsesVRS {
			b.WriteString(VRS)
		} else {
			b.WriteByte(NL)
			b.WriteString(INDENT)
		}
		b.WriteString(rec)
	}
	return b.String()
}

// ParseEvent consumes one entity from data starting at offset and
// returns the decoded Event and the number of bytes consumed. Event
// parsing is best-effort: §4.8 reserves it from the Reader's own
// contract, and a sensitive block's plaintext is never recovered here
// (its ciphertext value record is kept as an opaque message detail).
func ParseEvent(data []byte, offset int, fallback *time.Location) (Event, int, error) {
	records, consumed, complete, err := SplitRecords(data, offset)
	if err != nil {
		return Event{}, 0, err
	}
	if !complete {
		return Event{}, consumed, newFormat("incomplete event entity")
	}
	if len(records) < 3 {
		return Event{}, consumed, newUnsupported("event entity missing required records")
	}
	if string(trimOrnament(records[0])) != EventIdentity {
		return Event{}, consumed, newUnsupported("event entity missing EVENT identity record")
	}

	var e Event
	idx := 1

	timestampRaw := string(trimOrnament(records[idx]))
	timestamp, _, err := ParseISO8601(timestampRaw, fallback)
	if err != nil {
		return Event{}, consumed, err
	}
	e.Timestamp = timestamp
	idx++

	level, err := Decode(string(trimOrnament(records[idx])))
	if err != nil {
		return Event{}, consumed, err
	}
	e.Level = level
	idx++

	// Optional positional records: hierarchy (no space), event-id inline
	// form (may contain a space or '{'), Dev (exact literal), in that
	// order, each absent independently. A record starting with QM marks
	// the first value record and ends the optional-field scan.
	for idx < len(records) {
		raw := trimOrnament(records[idx])
		if len(raw) > 0 && raw[0] == QM {
			break
		}
		text := string(raw)
		switch {
		case text == DevMarker:
			e.Dev = true
			idx++
		case strings.ContainsAny(text, " {"):
			id, err := parseEventIDInline(text)
			if err != nil {
				return Event{}, consumed, err
			}
			e.Details = append(e.Details, Detail{Variant: DetailEventID, EventID: id})
			idx++
		default:
			decoded, err := Decode(text)
			if err != nil {
				return Event{}, consumed, err
			}
			segs := strings.Split(decoded, ".")
			for i, s := range segs {
				d, err := Decode(s)
				if err != nil {
					return Event{}, consumed, err
				}
				segs[i] = d
			}
			e.Hierarchy = segs
			idx++
		}
	}

	for ; idx < len(records); idx++ {
		key, value, hasValue, err := ParseKV(records[idx])
		if err != nil {
			return Event{}, consumed, err
		}
		if !hasValue {
			continue
		}
		decodedKey, err := Decode(string(key))
		if err != nil {
			return Event{}, consumed, err
		}
		decodedValue, err := Decode(string(stripValueQuotes(value)))
		if err != nil {
			return Event{}, consumed, err
		}
		detail, err := parseNamedDetail(decodedKey, decodedValue)
		if err != nil {
			return Event{}, consumed, err
		}
		e.Details = append(e.Details, detail)
	}

	return e, consumed, nil
}

// parseNamedDetail maps a detail record's decoded key back to a
// DetailVariant and parses its value with the matching formatter.
// Unrecognised keys are kept as opaque messages rather than failing the
// whole event, since detail-formatter registries may grow.
func parseNamedDetail(key, value string) (Detail, error) {
	for _, v := range []DetailVariant{DetailMessage, DetailBinary, DetailEventID, DetailException} {
		if recordKey(v) == key {
			return ParseDetail(v, value)
		}
	}
	return Detail{Variant: DetailVariant(key), Message: value}, nil
}

// parseEventIDInline reverses EventID.InlineString: "<n1.n2…> <T1.T2…>
// {name1=`v1`, name2=`v2`}", any segment independently absent.
func parseEventIDInline(inline string) (EventID, error) {
	var id EventID

	rest := inline
	argsPart := ""
	if open := strings.IndexByte(rest, '{'); open >= 0 {
		closeIdx := strings.LastIndexByte(rest, '}')
		if closeIdx < open {
			return EventID{}, newFormat("unterminated argument list in event-id inline form")
		}
		argsPart = rest[open+1 : closeIdx]
		rest = strings.TrimRight(rest[:open], " ")
	}

	if rest != "" {
		numericPart, textualPart := rest, ""
		if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			numericPart, textualPart = rest[:sp], rest[sp+1:]
		}
		if nums, ok := parseIntChain(numericPart); ok {
			id.Numeric = nums
			if textualPart != "" {
				id.Textual = strings.Split(textualPart, ".")
			}
		} else {
			id.Textual = strings.Split(rest, ".")
		}
	}

	if argsPart != "" {
		args, err := parseNamedArgs(argsPart)
		if err != nil {
			return EventID{}, err
		}
		id.Arguments = args
	}

	return id, nil
}

func parseIntChain(text string) ([]int64, bool) {
	if text == "" {
		return nil, false
	}
	parts := strings.Split(text, ".")
	nums := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

// parseNamedArgs parses the comma-space-separated "name=`value`" (or
// bare "`value`" for unnamed) list inside an event-id inline form's
// brace block.
func parseNamedArgs(text string) ([]NamedArg, error) {
	if text == "" {
		return nil, nil
	}
	var args []NamedArg
	for _, entry := range strings.Split(text, ", ") {
		open := strings.IndexByte(entry, QM)
		if open < 0 {
			return nil, newFormat("malformed event-id argument: missing backtick-quoted value")
		}
		closeIdx := strings.LastIndexByte(entry, QM)
		if closeIdx <= open {
			return nil, newFormat("malformed event-id argument: unterminated backtick-quoted value")
		}
		name := strings.TrimSuffix(entry[:open], "=")
		value := entry[open+1 : closeIdx]
		args = append(args, NamedArg{Name: name, Value: value})
	}
	return args, nil
}
