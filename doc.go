// Package slf implements a structured logfile codec and router: a
// byte-level framing and escaping scheme, a tolerant key/value record
// parser, header/event entity serialisation, and a file-rotating
// Router that fans events out to disk plus any number of secondary
// sinks.
//
// # Architecture
//
// A stream is a sequence of entities: exactly one Header followed by
// any number of Events, each terminated by the entity separator byte
// and made up of RS-delimited records. Encode/Decode, SplitRecords and
// ParseKV (encoding.go) implement the wire grammar; Header and Event
// (header.go, event.go) build and parse the two entity shapes on top
// of it; Router (router.go) owns the write side — file lifecycle,
// size-based rollover, retention, and fan-out to secondary Sinks; and
// Reader (reader.go) owns the read side — an incremental, bounded-
// buffer parser that never loads a whole stream into memory.
//
// # Extensibility
//
// Detail payloads (a message, a binary dump, an EventID, an exception)
// are dispatched through a DetailFormatter registry (detail.go) rather
// than a closed type switch, so callers can register new detail
// variants without modifying this package. Sink, Filesystem and Cipher
// are narrow capability interfaces a caller can substitute: see
// providers/webhook for an HTTP fan-out sink and catalog for a SQLite-
// backed retention store.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package slf
