// Package eventjson writes events as line-delimited JSON to a file or an
// arbitrary stream. Plain files are written unbuffered so every line is
// immediately visible to downstream tailers; paths ending in .gz are
// gzip-compressed and only complete on Close.
package eventjson

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"trafficforge/internal/logger"
	"trafficforge/pkg/models"
)

// Writer outputs events to a JSON lines stream.
type Writer struct {
	encoder *json.Encoder
	gz      *gzip.Writer
	closer  io.Closer
}

// NewWriter creates a JSONL writer for the given path, compressing when the
// path has a .gz suffix.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &Writer{closer: f}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
		w.gz = gz
		w.encoder = json.NewEncoder(gz)
	} else {
		w.encoder = json.NewEncoder(f)
	}

	logger.Infof("Event JSONL writer initialized: %s", path)
	return w, nil
}

// NewStreamWriter wraps an existing stream, typically os.Stdout. Close does
// not close the underlying stream.
func NewStreamWriter(out io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(out)}
}

// WriteEvent encodes one event as a single line. The context is unused;
// local writes either complete or fail immediately.
func (w *Writer) WriteEvent(_ context.Context, ev *models.Event) error {
	if err := w.encoder.Encode(ev); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

// Close flushes the compressor, if any, and closes the underlying file.
func (w *Writer) Close() error {
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			if w.closer != nil {
				w.closer.Close()
			}
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
