// Package webhook implements an outbound HTTP slf.Sink: every entity
// written is POSTed to a configured endpoint, with bounded retries and
// a timeout, the same tolerance pattern the teacher's remote config
// loader applies to fetches instead of pushes.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package webhook

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single POST attempt.
const DefaultTimeout = 5 * time.Second

// DefaultMaxRetries is how many additional attempts are made after the
// first failure, with linear backoff between them.
const DefaultMaxRetries = 2

// DefaultRetryBackoff is the delay before the first retry; subsequent
// retries wait a multiple of it.
const DefaultRetryBackoff = 200 * time.Millisecond

// Sink posts every entity it is given to a webhook endpoint.
type Sink struct {
	url         string
	client      *http.Client
	maxRetries  int
	backoff     time.Duration
	contentType string
}

// Option customises Sink construction.
type Option func(*Sink)

// WithTimeout overrides the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Sink) { s.client.Timeout = d }
}

// WithMaxRetries overrides how many retries follow an initial failure.
func WithMaxRetries(n int) Option {
	return func(s *Sink) { s.maxRetries = n }
}

// WithRetryBackoff overrides the delay before the first retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Sink) { s.backoff = d }
}

// New constructs a Sink that posts to url.
func New(url string, opts ...Option) *Sink {
	s := &Sink{
		url:         url,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		backoff:     DefaultRetryBackoff,
		contentType: "application/octet-stream",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write POSTs data to the webhook endpoint, retrying on failure with
// linear backoff. The final attempt's error is returned if every
// attempt fails.
func (s *Sink) Write(data []byte) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.backoff * time.Duration(attempt))
		}
		resp, err := s.client.Post(s.url, s.contentType, bytes.NewReader(data))
		if err != nil {
			lastErr = err
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("webhook sink: unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("webhook sink: all attempts failed: %w", lastErr)
}

// Flush is a no-op: every Write is already a complete synchronous POST.
func (s *Sink) Flush() error { return nil }

// Close releases the underlying HTTP client's idle connections.
func (s *Sink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
