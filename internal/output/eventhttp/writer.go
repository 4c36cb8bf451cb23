// Package eventhttp posts event batches to a remote collector endpoint.
package eventhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"trafficforge/pkg/models"
)

// Config configures the HTTP writer.
type Config struct {
	URL       string
	Timeout   time.Duration
	BatchSize int
	Headers   map[string]string
}

// Writer buffers events and POSTs them as JSON arrays.
type Writer struct {
	url       string
	headers   map[string]string
	client    *http.Client
	batchSize int
	pending   []*models.Event
}

// NewWriter creates an HTTP writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http output URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Writer{
		url:       cfg.URL,
		headers:   cfg.Headers,
		client:    &http.Client{Timeout: timeout},
		batchSize: batchSize,
		pending:   make([]*models.Event, 0, batchSize),
	}, nil
}

// WriteEvent queues one event, flushing when the batch is full.
func (w *Writer) WriteEvent(ctx context.Context, ev *models.Event) error {
	w.pending = append(w.pending, ev)
	if len(w.pending) < w.batchSize {
		return nil
	}
	return w.flush(ctx)
}

func (w *Writer) flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}

	body, err := json.Marshal(w.pending)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http request failed with status %s", resp.Status)
	}

	w.pending = w.pending[:0]
	return nil
}

// Close flushes any queued events.
func (w *Writer) Close() error {
	return w.flush(context.Background())
}
