// router.go: file lifecycle, rollover, fan-out and retention
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// CatalogStore lets a Router delegate retention bookkeeping to a
// persistent store (see the catalog package) instead of re-reading
// rotated files' headers from disk on every rollover. A nil store
// falls back to directory scanning plus a header read-back per file.
type CatalogStore interface {
	RecordRotation(path string, seqNo uint64) error
	OldestBeyond(keep int) ([]string, error)
	Forget(path string) error
}

// Router owns one active log file plus any number of secondary sinks
// (console, debug console, extra providers), and performs size-based
// rollover and count-based retention. A single mutex serialises every
// operation, the same discipline the teacher's buffer-flush loop uses:
// correctness over fan-out parallelism, since log volume rarely
// bottlenecks on lock contention.
type Router struct {
	cfg  Config
	fs   Filesystem
	clk  Clock
	ciph Cipher

	startUp time.Time

	mu          sync.Mutex
	disk        Sink
	diskPath    string
	currentSize int64
	seqNo       uint64

	consoleSink Sink
	debugSink   Sink
	extraSinks  []Sink
	catalog     CatalogStore

	closed atomic.Bool
}

// RouterOption customises Router construction beyond Config.
type RouterOption func(*Router)

// WithClock overrides the Router's time source.
func WithClock(c Clock) RouterOption { return func(r *Router) { r.clk = c } }

// WithFilesystem overrides the Router's Filesystem, for tests.
func WithFilesystem(fsys Filesystem) RouterOption { return func(r *Router) { r.fs = fsys } }

// WithCipher installs the encryption capability used to fold an
// event's nested sensitive block (§4.6). It has no effect on anything
// else an entity carries.
func WithCipher(c Cipher) RouterOption { return func(r *Router) { r.ciph = c } }

// WithExtraSink registers an additional fan-out destination (e.g. a
// webhook provider) alongside disk/console/debug-console.
func WithExtraSink(s Sink) RouterOption {
	return func(r *Router) { r.extraSinks = append(r.extraSinks, s) }
}

// WithCatalogStore installs a CatalogStore for retention bookkeeping.
func WithCatalogStore(c CatalogStore) RouterOption { return func(r *Router) { r.catalog = c } }

// NewRouter constructs a Router. No file is opened and no directory is
// created yet: both happen lazily on the first event that needs to
// reach disk, per §4.7's forward algorithm.
func NewRouter(cfg Config, opts ...RouterOption) (*Router, error) {
	cfg = cfg.WithDefaults()
	r := &Router{
		cfg: cfg,
		fs:  NewOSFilesystem(),
		clk: NewCachedClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.startUp = r.clk.Now()

	if cfg.EchoToConsole {
		r.consoleSink = NewConsoleSink(os.Stdout)
	}
	if cfg.EchoToDebugConsole {
		r.debugSink = NewConsoleSink(os.Stderr)
	}

	return r, nil
}

// LogEvent is a single-event convenience wrapper around Forward with a
// background, never-cancelled context.
func (r *Router) LogEvent(e Event) error {
	return r.Forward(context.Background(), []Event{e})
}

// Reconfigure replaces the Router's configuration snapshot under lock.
// Per §4.7, a file already open is retained across reconfiguration.
// The next event is serialised and size-checked under the new settings;
// the new directory, prefix and header fields take effect when the next
// file is opened.
func (r *Router) Reconfigure(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg.WithDefaults()
}

// Start is an idempotent no-op: this Router has no background work of
// its own (no flush ticker, no watcher goroutine). The method exists so
// a caller can treat Router like any other component with an explicit
// lifecycle; a future revision that adds a background writer can give
// this method real work without changing its signature.
func (r *Router) Start(ctx context.Context) error {
	return ctx.Err()
}

// Stop is an idempotent no-op for the same reason Start is: it does not
// close the active file (Close does that). It exists purely to mirror
// Start's lifecycle contract.
func (r *Router) Stop(ctx context.Context) error {
	return ctx.Err()
}

// Flush flushes the active file, if any, then flushes every extra sink
// in order. Per-extra-sink failures are swallowed so a broken sink
// cannot prevent the others from flushing; cancellation is honoured at
// entry only, matching §4.7's flush(cancel) contract.
func (r *Router) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return wrapCancelled(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disk != nil {
		_ = r.disk.Flush()
	}
	for _, s := range r.extraSinks {
		_ = s.Flush()
	}
	return nil
}

// Forward serialises and dispatches every event in batch, in order,
// under the Router's lock, per §4.7. A disk I/O fault is swallowed
// (the per-event text still reaches the other sinks); a cancelled
// context is re-raised to the caller instead, checked before each
// event and between extra-sink writes. batch must not be nil.
func (r *Router) Forward(ctx context.Context, batch []Event) error {
	if batch == nil {
		return newInvalidArg("batch must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return newInternal("router is closed")
	}

	for _, e := range batch {
		if err := ctx.Err(); err != nil {
			return wrapCancelled(err)
		}

		if e.Timestamp.IsZero() {
			e.Timestamp = r.clk.Now()
		}

		entity, err := e.Serialise(r.cfg.ZoneKind, r.ciph)
		if err != nil {
			// A single malformed event does not fail the whole batch.
			continue
		}

		r.writeToDisk(entity)
		r.echoToConsoles(entity)

		for _, s := range r.extraSinks {
			if err := ctx.Err(); err != nil {
				return wrapCancelled(err)
			}
			_ = s.Write(entity)
		}
	}

	return nil
}

// writeToDisk opens a file if none is currently open, writes entity,
// and rolls over once the configured size cap is reached. Every
// failure here is swallowed: the disk file is best-effort, not the
// channel Forward raises errors through.
func (r *Router) writeToDisk(entity []byte) {
	if err := r.ensureFileOpen(); err != nil {
		return
	}
	if err := r.disk.Write(entity); err != nil {
		return
	}
	r.currentSize += int64(len(entity))

	if r.cfg.MaxFileBytes > 0 && r.currentSize >= r.cfg.MaxFileBytes {
		_ = r.disk.Flush()
		_ = r.disk.Close()
		r.disk = nil
		r.diskPath = ""
		r.currentSize = 0
	}
}

// echoToConsoles mirrors entity to the console/debug-console sinks, if
// configured, beautifying it first when cfg.ConsoleBeautified is set.
func (r *Router) echoToConsoles(entity []byte) {
	if r.consoleSink == nil && r.debugSink == nil {
		return
	}
	text := entity
	if r.cfg.ConsoleBeautified {
		text = beautify(entity)
	}
	if r.consoleSink != nil {
		_ = r.consoleSink.Write(text)
	}
	if r.debugSink != nil {
		_ = r.debugSink.Write(text)
	}
}

// beautify strips the ES and RS framing bytes from entity for a console
// tail, per §4.7 step 4; newlines and indentation are kept.
func beautify(entity []byte) []byte {
	out := make([]byte, 0, len(entity))
	for _, b := range entity {
		if b == ES || b == RS {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ensureFileOpen opens a fresh file if none is active: running
// retention first when the directory already exists, or creating it
// when it does not (§4.7 step 3a).
func (r *Router) ensureFileOpen() error {
	if r.disk != nil {
		return nil
	}
	if _, err := r.fs.Stat(r.cfg.Directory); err == nil {
		r.applyRetention()
	} else if err := r.fs.MkdirAll(r.cfg.Directory); err != nil {
		return err
	}
	return r.openNewFile()
}

func (r *Router) openNewFile() error {
	r.seqNo++
	path := filepath.Join(r.cfg.Directory, r.nextFileName())
	f, err := r.fs.OpenAppend(path)
	if err != nil {
		return err
	}
	r.disk = &fileSink{f: f, fs: r.fs, path: path}
	r.diskPath = path
	r.currentSize = 0

	header := Header{App: r.cfg.FilePrefix, StartUp: r.startUp, SeqNo: r.seqNo}
	entity := header.Serialise(r.cfg.ZoneKind)
	if err := r.disk.Write(entity); err != nil {
		_ = r.disk.Close()
		r.disk = nil
		r.diskPath = ""
		return err
	}
	r.currentSize += int64(len(entity))

	if r.catalog != nil {
		_ = r.catalog.RecordRotation(path, r.seqNo)
	}
	return nil
}

func (r *Router) nextFileName() string {
	ts := r.clk.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s-%s-%06d.slf", r.cfg.FilePrefix, ts, r.seqNo)
}

// ratedFile is one candidate considered for removal during the
// directory-scan retention fallback: the (start-up-time, seq-no) pair
// its header carries, plus its path.
type ratedFile struct {
	startUp time.Time
	seqNo   uint64
	path    string
}

// applyRetention removes the oldest rotated files once the retained
// count exceeds cfg.MaxRetainedFiles. With a CatalogStore configured,
// the stale set comes from it directly; otherwise every candidate
// file's header is read back from disk and the survivors are ranked
// by (start-up-time, seq-no), oldest first, per §4.7.1. A file whose
// header cannot be read or parsed is dropped from the ranking rather
// than failing the pass. Per-file delete failures are swallowed.
func (r *Router) applyRetention() {
	if r.cfg.MaxRetainedFiles <= 0 {
		return
	}

	if r.catalog != nil {
		stale, err := r.catalog.OldestBeyond(r.cfg.MaxRetainedFiles)
		if err != nil {
			return
		}
		for _, path := range stale {
			if err := r.fs.Remove(path); err == nil {
				_ = r.catalog.Forget(path)
			}
		}
		return
	}

	names, err := r.fs.ReadDir(r.cfg.Directory)
	if err != nil {
		return
	}
	if len(names) <= r.cfg.MaxRetainedFiles {
		return
	}

	candidates := make([]ratedFile, 0, len(names))
	for _, name := range names {
		h, ok := r.readHeader(name)
		if !ok {
			continue
		}
		candidates = append(candidates, ratedFile{startUp: h.StartUp, seqNo: h.SeqNo, path: name})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].startUp.Equal(candidates[j].startUp) {
			return candidates[i].startUp.Before(candidates[j].startUp)
		}
		return candidates[i].seqNo < candidates[j].seqNo
	})

	excess := len(candidates) - r.cfg.MaxRetainedFiles
	for i := 0; i < excess; i++ {
		_ = r.fs.Remove(candidates[i].path)
	}
}

// readHeader opens path for reading and parses its leading Header
// entity, reporting false if the file cannot be opened or does not
// begin with a valid header.
func (r *Router) readHeader(path string) (Header, bool) {
	rc, err := r.fs.OpenForReading(path)
	if err != nil {
		return Header{}, false
	}
	defer rc.Close()

	elem, err := NewReader(rc, time.UTC).Next()
	if err != nil || elem.Kind != ElementHeader {
		return Header{}, false
	}
	return elem.Header, true
}

// Close closes the active file and every secondary sink without
// flushing them first.
// It is idempotent and safe to call even if no file was ever opened.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed.Swap(true) {
		return nil
	}
	var firstErr error
	if r.disk != nil {
		if err := r.disk.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.consoleSink != nil {
		if err := r.consoleSink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.debugSink != nil {
		if err := r.debugSink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, s := range r.extraSinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fileSink adapts a Filesystem-opened File to the Sink interface,
// syncing on every Flush rather than buffering in memory: the format's
// human-readable design goal assumes a tail -f reader sees events
// promptly.
type fileSink struct {
	f    File
	fs   Filesystem
	path string
}

func (s *fileSink) Write(data []byte) error {
	if _, err := s.f.Write(data); err != nil {
		return wrapIO(err, "failed to write log entity")
	}
	return nil
}

func (s *fileSink) Flush() error {
	if err := s.f.Sync(); err != nil {
		return wrapIO(err, "failed to sync log file")
	}
	return nil
}

func (s *fileSink) Close() error {
	if err := s.f.Close(); err != nil {
		return wrapIO(err, "failed to close log file")
	}
	return nil
}
