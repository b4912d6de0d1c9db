// encoding.go: byte-level framing, escaping and tolerant kv parsing
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"bytes"
	"strings"
)

const (
	// ES is the entity separator: marks the end of one entity.
	ES byte = 0x1E
	// RS is the record separator: marks the end of one record within an entity.
	RS byte = 0x1F
	// QM is the quotation mark used by the tolerant kv parser.
	QM byte = '`'
	// AS is the assignment byte between a key and its value.
	AS byte = '='
	// NL is the newline byte; CRLF is normalised to this on decode.
	NL byte = '\n'
)

// VRS is the visual record separator inserted after RS for readability.
// It is pure ornament: the parser discards any run of ornament bytes
// immediately following RS.
const VRS = " == "

// INDENT precedes each non-first value record.
const INDENT = "    "

// ornamentSet is the set of bytes the parser treats as pure decoration
// around a record: inserted by VRS/INDENT and safely discarded.
var ornamentSet = [256]bool{
	' ':  true,
	'-':  true,
	'=':  true,
	'#':  true,
	'*':  true,
	'\t': true,
	'\n': true,
}

func isOrnament(b byte) bool { return ornamentSet[b] }

func isAllOrnament(b []byte) bool {
	for _, c := range b {
		if !isOrnament(c) {
			return false
		}
	}
	return true
}

// isControlExceptTabLFCR reports whether b is a control byte that must
// be escaped by Encode: every byte in [0x00,0x1F] except tab, LF, CR.
func isControlExceptTabLFCR(b byte) bool {
	if b > 0x1F {
		return false
	}
	return b != 0x09 && b != 0x0A && b != 0x0D
}

const hexDigits = "0123456789ABCDEF"

// Encode percent-encodes every byte of text that is '%', a byte listed
// in extras, or a control byte outside {tab, LF, CR}. Tab, LF and CR
// pass through verbatim. Encoding is not idempotent by design: encoding
// an already-encoded string re-escapes its '%' signs.
func Encode(text string, extras ...byte) string {
	var extraSet [256]bool
	for _, e := range extras {
		extraSet[e] = true
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '%' || extraSet[c] || isControlExceptTabLFCR(c) {
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0F])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// Decode reverses Encode. It fails with a Format error when a '%' is
// not followed by two hex digits, or the input ends inside an escape.
func Decode(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(text) {
			return "", newFormat("invalid escape: truncated at end of input")
		}
		hi, ok1 := hexVal(text[i+1])
		lo, ok2 := hexVal(text[i+2])
		if !ok1 || !ok2 {
			return "", newFormat("invalid escape: expected two hex digits after '%'")
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

// SplitLines normalises CRLF and lone CR to LF, then splits on LF. Empty
// input produces one empty element; a trailing LF produces a trailing
// empty element.
func SplitLines(text string) []string {
	normalised := strings.ReplaceAll(text, "\r\n", "\n")
	normalised = strings.ReplaceAll(normalised, "\r", "\n")
	return strings.Split(normalised, "\n")
}

// Trim strips leading and trailing bytes whose value is in set.
func Trim(data []byte, set map[byte]bool) []byte {
	start := 0
	for start < len(data) && set[data[start]] {
		start++
	}
	end := len(data)
	for end > start && set[data[end-1]] {
		end--
	}
	return data[start:end]
}

func trimOrnament(data []byte) []byte {
	start := 0
	for start < len(data) && isOrnament(data[start]) {
		start++
	}
	end := len(data)
	for end > start && isOrnament(data[end-1]) {
		end--
	}
	return data[start:end]
}

// SplitRecords walks data starting at offset, splitting on RS and
// terminating on ES. It returns the records found, the number of bytes
// consumed from offset, and whether an ES was found (entity complete).
func SplitRecords(data []byte, offset int) (records [][]byte, consumed int, entityComplete bool, err error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, false, newInvalidArg("offset out of range")
	}

	start := offset
	pos := offset
	for pos < len(data) {
		b := data[pos]
		switch b {
		case ES:
			records = append(records, data[start:pos])
			return records, pos - offset + 1, true, nil
		case RS:
			records = append(records, data[start:pos])
			start = pos + 1
		}
		pos++
	}
	return records, pos - offset, false, nil
}

// ParseKV parses a single record's raw bytes into a key and an optional
// value, per the tolerant grammar of §4.1: optional backtick quoting of
// either side, surrounding ornament, and strict quote balancing (only 0,
// 2, or 4 quote marks are legal).
func ParseKV(record []byte) (key []byte, value []byte, hasValue bool, err error) {
	trimmed := trimOrnament(record)

	// '=' is itself an ornament byte, so a lone assignment such as "="
	// trims to nothing; it still denotes an empty key with an empty value.
	if len(trimmed) == 0 && bytes.IndexByte(record, AS) >= 0 {
		return []byte{}, []byte{}, true, nil
	}

	var positions []int
	for i, c := range trimmed {
		if c == QM {
			positions = append(positions, i)
		}
	}
	n := len(positions)
	if n != 0 && n != 2 && n != 4 {
		return nil, nil, false, newFormat("unbalanced quote marks in record")
	}

	switch n {
	case 0:
		return parseKVUnquoted(trimmed)
	case 2:
		return parseKVTwoQuotes(trimmed, positions[0], positions[1])
	default: // 4
		return parseKVFourQuotes(trimmed, positions[0], positions[1], positions[2], positions[3])
	}
}

func parseKVUnquoted(trimmed []byte) ([]byte, []byte, bool, error) {
	asIdx := bytes.IndexByte(trimmed, AS)
	if asIdx < 0 {
		return trimOrnament(trimmed), nil, false, nil
	}
	key := trimOrnament(trimmed[:asIdx])
	value := trimOrnament(trimmed[asIdx+1:])

	// Edge case: an apparent key that is a single stray quote mark (e.g.
	// `"="value"`) is not a real quoted key — quote/assignment symmetry
	// forces treating the leading empty unquoted key as absent, and the
	// remainder after the first `=` is re-interpreted as the key, not
	// the whole original record.
	if len(key) == 1 && key[0] == '"' {
		return trimOrnament(value), nil, false, nil
	}
	return key, value, true, nil
}

func parseKVTwoQuotes(trimmed []byte, p0, p1 int) ([]byte, []byte, bool, error) {
	if p0 == 0 {
		// "k" or "k"=v : key is quoted from the very start.
		key := trimmed[1:p1]
		rest := trimmed[p1+1:]
		if isAllOrnament(rest) {
			return key, nil, false, nil
		}
		eqRel := bytes.IndexByte(rest, AS)
		if eqRel < 0 || !isAllOrnament(rest[:eqRel]) {
			return nil, nil, false, newFormat("expected assignment after quoted key")
		}
		value := trimOrnament(rest[eqRel+1:])
		return key, value, true, nil
	}

	// k="v" : value is quoted; there must be an AS before the opening
	// quote, with only ornament between them.
	eqIdx := bytes.IndexByte(trimmed[:p0], AS)
	if eqIdx < 0 {
		return nil, nil, false, newFormat("expected assignment before quoted value")
	}
	if !isAllOrnament(trimmed[eqIdx+1 : p0]) {
		return nil, nil, false, newFormat("unexpected bytes between assignment and quoted value")
	}
	if p1 != len(trimmed)-1 {
		return nil, nil, false, newFormat("unexpected bytes after quoted value")
	}
	key := trimOrnament(trimmed[:eqIdx])
	value := trimmed[p0+1 : p1]
	return key, value, true, nil
}

func parseKVFourQuotes(trimmed []byte, p0, p1, p2, p3 int) ([]byte, []byte, bool, error) {
	if p0 != 0 {
		return nil, nil, false, newFormat("expected quoted key at start of record")
	}
	if p3 != len(trimmed)-1 {
		return nil, nil, false, newFormat("unexpected bytes after quoted value")
	}
	key := trimmed[1:p1]
	mid := trimmed[p1+1 : p2]
	eqRel := bytes.IndexByte(mid, AS)
	if eqRel < 0 {
		return nil, nil, false, newFormat("expected assignment between quoted key and quoted value")
	}
	if !isAllOrnament(mid[:eqRel]) || !isAllOrnament(mid[eqRel+1:]) {
		return nil, nil, false, newFormat("unexpected bytes around assignment")
	}
	value := trimmed[p2+1 : p3]
	return key, value, true, nil
}

// stripValueQuotes removes one literal leading/trailing double-quote
// delimiter pair from a value, the hardcoded convention HeaderElement
// and EventElement use to wrap every value they emit, distinct from the
// backtick-based QM tolerant parsing ParseKV performs on the raw
// record. Values returned by ParseKV for records this package emits
// keep that delimiter, since '"' is not a QM byte; record-specific
// readers (header, event) call this before Decode.
func stripValueQuotes(value []byte) []byte {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
