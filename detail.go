// detail.go: event detail variants and the pluggable formatter registry
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"encoding/json"
	"strings"
	"sync"
)

// DetailVariant identifies the shape carried by a Detail value. New
// variants are added by registering a DetailFormatter, not by growing a
// type switch across the package.
type DetailVariant string

const (
	DetailMessage   DetailVariant = "message"
	DetailBinary    DetailVariant = "binary"
	DetailEventID   DetailVariant = "event-id"
	DetailException DetailVariant = "exception"

	// DetailSensitiveBegin and DetailSensitiveEnd are markers, not
	// formatted variants: EventElement.Serialise recognises them in a
	// Details list and folds everything between a matching pair into
	// one encrypted value record instead of emitting them individually.
	// Neither is registered in the formatter registry.
	DetailSensitiveBegin DetailVariant = "sensitive-begin"
	DetailSensitiveEnd   DetailVariant = "sensitive-end"
)

// Detail is the payload an EventElement carries beyond its header
// fields: a free-text message, a binary dump, a structured EventID, or
// an exception/stack description. Exactly one of the fields matching
// Variant is meaningful. A Detail whose Variant is DetailSensitiveBegin
// or DetailSensitiveEnd carries no payload; it only marks the extent of
// a nested block to be encrypted as a whole.
type Detail struct {
	Variant   DetailVariant
	Message   string
	Binary    []byte
	EventID   EventID
	Exception ExceptionInfo
}

// ExceptionInfo captures a caught-error description: its type name,
// message, an optional preformatted stack trace, and the cause that
// produced it (e.g. one errors.Unwrap step). Cause[0] is the immediate
// cause and carries its own Cause in turn; the exception formatter
// follows only the first element of each Cause slice.
type ExceptionInfo struct {
	Type    string
	Message string
	Stack   string
	Cause   []ExceptionInfo
}

// DetailFormatter renders and parses the record-level representation of
// one DetailVariant. Serialize produces the record's value bytes
// (pre-Encode); Parse reconstructs a Detail from those decoded bytes.
type DetailFormatter interface {
	Variant() DetailVariant
	Serialize(d Detail) (string, error)
	Parse(raw string) (Detail, error)
}

// detailRegistry dispatches by variant, mirroring a config-format
// registry: callers register formatters by key instead of the package
// hard-coding a type switch over every known variant.
type detailRegistry struct {
	mu         sync.RWMutex
	formatters map[DetailVariant]DetailFormatter
}

var defaultDetailRegistry = newDetailRegistry()

func newDetailRegistry() *detailRegistry {
	r := &detailRegistry{formatters: make(map[DetailVariant]DetailFormatter)}
	r.register(messageFormatter{})
	r.register(binaryFormatter{})
	r.register(eventIDFormatter{})
	r.register(exceptionFormatter{})
	return r
}

func (r *detailRegistry) register(f DetailFormatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Variant()] = f
}

func (r *detailRegistry) get(v DetailVariant) (DetailFormatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[v]
	return f, ok
}

// RegisterDetailFormatter installs a formatter for a caller-defined
// DetailVariant (or replaces a built-in one) in the default registry.
func RegisterDetailFormatter(f DetailFormatter) {
	defaultDetailRegistry.register(f)
}

// SerializeDetail renders d using the registered formatter for its
// Variant. Unsupported is returned for an unregistered variant.
func SerializeDetail(d Detail) (string, error) {
	f, ok := defaultDetailRegistry.get(d.Variant)
	if !ok {
		return "", newUnsupported("no formatter registered for detail variant " + string(d.Variant))
	}
	return f.Serialize(d)
}

// ParseDetail reconstructs a Detail of the given variant from its
// decoded record value.
func ParseDetail(variant DetailVariant, raw string) (Detail, error) {
	f, ok := defaultDetailRegistry.get(variant)
	if !ok {
		return Detail{}, newUnsupported("no formatter registered for detail variant " + string(variant))
	}
	return f.Parse(raw)
}

// recordKey returns the literal record key a detail variant is emitted
// under, e.g. `Message`="..." for DetailMessage. Custom variants fall
// back to their raw variant text, title-cased.
func recordKey(v DetailVariant) string {
	switch v {
	case DetailMessage:
		return "Message"
	case DetailBinary:
		return "Binary"
	case DetailEventID:
		return "EventID"
	case DetailException:
		return "Exception"
	case DetailSensitiveBegin, DetailSensitiveEnd:
		return string(v)
	default:
		s := string(v)
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

type messageFormatter struct{}

func (messageFormatter) Variant() DetailVariant { return DetailMessage }

func (messageFormatter) Serialize(d Detail) (string, error) { return d.Message, nil }

func (messageFormatter) Parse(raw string) (Detail, error) {
	return Detail{Variant: DetailMessage, Message: raw}, nil
}

type binaryFormatter struct{}

func (binaryFormatter) Variant() DetailVariant { return DetailBinary }

// Serialize renders "Hex dump:" followed by a newline and the
// BinaryDump output; BinaryDump itself substitutes any QM byte in the
// transcript column, so the result is always safe inside a
// backtick-quoted value record.
func (binaryFormatter) Serialize(d Detail) (string, error) {
	dump, err := BinaryDump(d.Binary, 0, 0, BinaryDumpOptions{})
	if err != nil {
		return "", err
	}
	return "Hex dump:\n" + dump, nil
}

func (binaryFormatter) Parse(raw string) (Detail, error) {
	// The hex dump is not losslessly reversible (the transcript column
	// discards non-printable and QM bytes by design); readers get the
	// formatted dump back as a message rather than reconstructed bytes.
	return Detail{Variant: DetailBinary, Message: raw}, nil
}

type eventIDFormatter struct{}

func (eventIDFormatter) Variant() DetailVariant { return DetailEventID }

func (eventIDFormatter) Serialize(d Detail) (string, error) {
	b, err := json.Marshal(d.EventID)
	if err != nil {
		return "", wrapFormat(err, "failed to marshal event-id detail")
	}
	return string(b), nil
}

func (eventIDFormatter) Parse(raw string) (Detail, error) {
	var id EventID
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Detail{}, wrapFormat(err, "failed to unmarshal event-id detail")
	}
	return Detail{Variant: DetailEventID, EventID: id}, nil
}

type exceptionFormatter struct{}

func (exceptionFormatter) Variant() DetailVariant { return DetailException }

// Serialize produces idiomatic text, not JSON: each entry in the causal
// chain (the exception itself, then each Cause in turn) renders as its
// type name, message, and frames, with successive causes separated by
// NL.
func (exceptionFormatter) Serialize(d Detail) (string, error) {
	var b strings.Builder
	writeExceptionEntry(&b, d.Exception)
	cur := d.Exception
	for len(cur.Cause) > 0 {
		cur = cur.Cause[0]
		b.WriteByte(NL)
		writeExceptionEntry(&b, cur)
	}
	return b.String(), nil
}

func writeExceptionEntry(b *strings.Builder, e ExceptionInfo) {
	b.WriteString(e.Type)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Stack != "" {
		b.WriteByte(NL)
		b.WriteString(e.Stack)
	}
}

// Parse reconstructs the outermost exception entry; nested causes are
// not reconstructed from the NL-joined text form, since the chain's
// own type/message boundaries are not distinguishable once flattened
// to text (the same trade-off detail.go's binary formatter makes).
// Callers needing a structured cause chain should keep the ExceptionInfo
// they built alongside the event, rather than re-derive it from text.
func (exceptionFormatter) Parse(raw string) (Detail, error) {
	lines := SplitLines(raw)
	first := lines[0]
	typ, msg := first, ""
	if idx := strings.Index(first, ": "); idx >= 0 {
		typ, msg = first[:idx], first[idx+2:]
	}
	stack := ""
	if len(lines) > 1 {
		stack = strings.Join(lines[1:], "\n")
	}
	return Detail{
		Variant:   DetailException,
		Exception: ExceptionInfo{Type: typ, Message: msg, Stack: stack},
	}, nil
}
