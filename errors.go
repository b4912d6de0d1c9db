// errors.go: typed error taxonomy for the SLF codec and router
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"github.com/agilira/go-errors"
)

// Error codes used across the codec, router and reader. Callers can
// compare a returned error's code (via errors.As into *errors.Error and
// calling .Code()) to classify failures per the taxonomy in §7.
const (
	ErrCodeInvalidArg  = "SLF_INVALID_ARG"
	ErrCodeFormat      = "SLF_FORMAT"
	ErrCodeUnsupported = "SLF_UNSUPPORTED"
	ErrCodeIO          = "SLF_IO"
	ErrCodeCancelled   = "SLF_CANCELLED"
	ErrCodeInternal    = "SLF_INTERNAL"
)

// newInvalidArg builds an InvalidArg error for a caller-facing boundary
// violation (nil, negative, or out-of-range argument).
func newInvalidArg(msg string) error {
	return errors.New(ErrCodeInvalidArg, msg)
}

// newFormat builds a Format error for malformed on-wire bytes.
func newFormat(msg string) error {
	return errors.New(ErrCodeFormat, msg)
}

// wrapFormat wraps an underlying cause as a Format error, preserving it
// for inspection via errors.Unwrap.
func wrapFormat(cause error, msg string) error {
	return errors.Wrap(cause, ErrCodeFormat, msg)
}

// newUnsupported builds an Unsupported error for a structural mismatch.
func newUnsupported(msg string) error {
	return errors.New(ErrCodeUnsupported, msg)
}

// wrapIO wraps a filesystem/stream failure as an Io error without
// altering its identity for errors.Is/errors.As.
func wrapIO(cause error, msg string) error {
	return errors.Wrap(cause, ErrCodeIO, msg)
}

// newInternal builds an Internal error for a violated invariant —
// these indicate a bug in this package, never caller misuse.
func newInternal(msg string) error {
	return errors.New(ErrCodeInternal, msg)
}

// wrapCancelled wraps a context cancellation as a Cancelled error,
// re-raised to the Forward caller rather than swallowed like a disk or
// sink fault.
func wrapCancelled(cause error) error {
	return errors.Wrap(cause, ErrCodeCancelled, "forward cancelled")
}
