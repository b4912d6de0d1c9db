// sink.go: the capability interface every Router output implements
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

// Sink is the narrow interface a Router fans events out to: the disk
// file, the console echo, the debug-console echo, and any caller-
// supplied extra sink (see providers/webhook) all implement it. This
// mirrors the teacher's backend interface narrowed to the three
// operations a log sink actually needs.
type Sink interface {
	// Write appends raw bytes (an already-serialised entity) to the
	// sink. Implementations that buffer must make their own flush/sync
	// decisions; the Router does not interleave partial writes across
	// entities.
	Write(data []byte) error
	// Flush forces any buffered bytes out. A sink with no buffering may
	// implement this as a no-op.
	Flush() error
	// Close releases any resource the sink holds. Whether Write and
	// Flush fail after Close depends on the implementation: the file
	// sink's do, the console sink keeps accepting writes.
	Close() error
}

// consoleSink writes every event to a writer with no buffering beyond
// what the underlying writer itself performs.
type consoleSink struct {
	w interface {
		Write(p []byte) (int, error)
	}
}

// NewConsoleSink wraps w (typically os.Stdout) as a Sink.
func NewConsoleSink(w interface {
	Write(p []byte) (int, error)
}) Sink {
	return &consoleSink{w: w}
}

func (c *consoleSink) Write(data []byte) error {
	_, err := c.w.Write(data)
	if err != nil {
		return wrapIO(err, "console sink write failed")
	}
	return nil
}

func (c *consoleSink) Flush() error { return nil }
func (c *consoleSink) Close() error { return nil }
