// eventid.go: hierarchical event identifier and its JSON projection
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NamedArg is a single named argument attached to an EventID.
type NamedArg struct {
	Name  string
	Value string
}

// EventID identifies an event by a hierarchical numeric chain, an
// optional parallel textual chain, and optional named arguments. Either
// chain may be used alone; this package does not require them to be the
// same length.
type EventID struct {
	Numeric   []int64
	Textual   []string
	Arguments []NamedArg
}

// eventIDJSON mirrors the wire projection: {"en":[...],"et":[...],
// "a":[{"n":...,"v":...}]}, each field omitted when empty.
type eventIDJSON struct {
	Numeric   []int64        `json:"en,omitempty"`
	Textual   []string       `json:"et,omitempty"`
	Arguments []namedArgJSON `json:"a,omitempty"`
}

type namedArgJSON struct {
	Name  string `json:"n,omitempty"`
	Value string `json:"v"`
}

// MarshalJSON implements the wire projection described above.
func (id EventID) MarshalJSON() ([]byte, error) {
	proj := eventIDJSON{
		Numeric: id.Numeric,
		Textual: id.Textual,
	}
	for _, a := range id.Arguments {
		proj.Arguments = append(proj.Arguments, namedArgJSON{Name: a.Name, Value: a.Value})
	}
	return json.Marshal(proj)
}

// UnmarshalJSON reverses MarshalJSON.
func (id *EventID) UnmarshalJSON(data []byte) error {
	var proj eventIDJSON
	if err := json.Unmarshal(data, &proj); err != nil {
		return wrapFormat(err, "invalid event-id JSON")
	}
	id.Numeric = proj.Numeric
	id.Textual = proj.Textual
	id.Arguments = nil
	for _, a := range proj.Arguments {
		id.Arguments = append(id.Arguments, NamedArg{Name: a.Name, Value: a.Value})
	}
	return nil
}

// IsEmpty reports whether id carries no numeric chain, textual chain,
// or arguments — the zero value that warrants suppressing the inline
// form entirely.
func (id EventID) IsEmpty() bool {
	return len(id.Numeric) == 0 && len(id.Textual) == 0 && len(id.Arguments) == 0
}

// InlineString renders the human-readable form embedded in an event's
// header record: "<n1.n2…> <T1.T2…> {name1=`v1`, name2=`v2`}" — the
// numeric chain dot-joined, a space, the textual chain dot-joined, and
// (when arguments are present) a space then a brace-delimited,
// comma-separated list of backtick-quoted name=value pairs. This is the
// representation a reader sees without decoding the JSON detail record.
func (id EventID) InlineString() string {
	var b strings.Builder
	for i, n := range id.Numeric {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatInt(n, 10))
	}
	if len(id.Textual) > 0 {
		if len(id.Numeric) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Join(id.Textual, "."))
	}
	if len(id.Arguments) > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('{')
		for i, a := range id.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			if a.Name != "" {
				b.WriteString(a.Name)
				b.WriteByte('=')
			}
			b.WriteByte('`')
			b.WriteString(a.Value)
			b.WriteByte('`')
		}
		b.WriteByte('}')
	}
	return b.String()
}

// HasDetail reports whether id needs its own JSON detail record, i.e.
// it carries more information than InlineString captures losslessly.
// Arguments always require the detail record since InlineString's
// brace form is not guaranteed to round-trip values containing ", ",
// the separator between arguments.
func (id EventID) HasDetail() bool {
	return len(id.Arguments) > 0
}
