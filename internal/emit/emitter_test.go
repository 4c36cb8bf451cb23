package emit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trafficforge/internal/synth"
	"trafficforge/pkg/models"
)

// stubSource alternates a fixed class pattern so summaries are predictable.
type stubSource struct {
	n       int
	pattern []string // "" for benign, campaign label otherwise
}

func (s *stubSource) Next() *models.Event {
	label := s.pattern[s.n%len(s.pattern)]
	s.n++
	ev := &models.Event{
		AccountID: "sk-test",
		Timestamp: time.Now().UTC(),
		Model:     "gpt-4o",
		Prompt:    "hello",
	}
	if label != "" {
		ev.CampaignLabel = &label
	}
	return ev
}

type captureWriter struct {
	events   []*models.Event
	closed   bool
	failAt   int   // fail on the Nth write (1-based), 0 = never
	closeErr error // returned from Close
}

func (w *captureWriter) WriteEvent(_ context.Context, ev *models.Event) error {
	if w.failAt > 0 && len(w.events)+1 == w.failAt {
		return errors.New("disk full")
	}
	w.events = append(w.events, ev)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestRunBoundedEmitsExactCount(t *testing.T) {
	src := &stubSource{pattern: []string{"", "", "campaign_0001"}}
	sink := &captureWriter{}

	summary, err := New(src, sink, Config{Count: 100}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.Total != 100 || len(sink.events) != 100 {
		t.Fatalf("expected exactly 100 events, got summary=%d written=%d", summary.Total, len(sink.events))
	}
	if !sink.closed {
		t.Fatal("sink not closed after bounded run")
	}
}

func TestSummaryMatchesIndependentRecount(t *testing.T) {
	src := &stubSource{pattern: []string{"", "campaign_0002", "", "", "campaign_0001"}}
	sink := &captureWriter{}

	summary, err := New(src, sink, Config{Count: 1000}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var positive int64
	perCampaign := make(map[string]int64)
	for _, ev := range sink.events {
		if ev.IsDistillation() {
			positive++
			perCampaign[ev.Campaign()]++
		}
	}
	if summary.Positive != positive {
		t.Fatalf("positive count mismatch: summary=%d recount=%d", summary.Positive, positive)
	}
	for c, n := range perCampaign {
		if summary.PerCampaign[c] != n {
			t.Fatalf("campaign %s mismatch: summary=%d recount=%d", c, summary.PerCampaign[c], n)
		}
	}
}

func TestRunPropagatesSinkCloseError(t *testing.T) {
	// Batching sinks deliver their last events from Close; a flush failure
	// there must not be reported as a successful run.
	src := &stubSource{pattern: []string{""}}
	sink := &captureWriter{closeErr: errors.New("flush failed: connection refused")}

	summary, err := New(src, sink, Config{Count: 50}, nil).Run(context.Background())
	if err == nil {
		t.Fatalf("expected Close error to propagate, got nil (summary.Total=%d)", summary.Total)
	}
	if !strings.Contains(err.Error(), "close sink") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sink.closed {
		t.Fatal("sink not closed")
	}
}

func TestRunWriteErrorTakesPrecedenceOverCloseError(t *testing.T) {
	src := &stubSource{pattern: []string{""}}
	sink := &captureWriter{failAt: 3, closeErr: errors.New("also failed")}

	_, err := New(src, sink, Config{Count: 50}, nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "write event") {
		t.Fatalf("expected the write error, got %v", err)
	}
}

func TestRunStopsOnWriteErrorAndClosesSink(t *testing.T) {
	src := &stubSource{pattern: []string{""}}
	sink := &captureWriter{failAt: 5}

	summary, err := New(src, sink, Config{Count: 100}, nil).Run(context.Background())
	if err == nil {
		t.Fatal("expected write error to propagate")
	}
	if summary.Total != 4 {
		t.Fatalf("expected 4 events before failure, got %d", summary.Total)
	}
	if !sink.closed {
		t.Fatal("sink not closed on failure path")
	}
}

func TestRunUnboundedStopsOnCancel(t *testing.T) {
	src := &stubSource{pattern: []string{"", "campaign_0001"}}
	sink := &captureWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	var summary Summary
	var err error
	go func() {
		summary, err = New(src, sink, Config{Count: 0, Rate: 1000}, nil).Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("emitter did not stop on cancel")
	}

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Total == 0 {
		t.Fatal("expected some events before cancel")
	}
	if !sink.closed {
		t.Fatal("sink not closed on cancel path")
	}
}

func TestRunWithSynthesizerSourceIsReproducible(t *testing.T) {
	run := func() []*models.Event {
		src, err := synth.New(42, 3)
		if err != nil {
			t.Fatalf("synth.New failed: %v", err)
		}
		sink := &captureWriter{}
		if _, err := New(src, sink, Config{Count: 100}, nil).Run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return sink.events
	}

	first, second := run(), run()
	if len(first) != 100 || len(second) != 100 {
		t.Fatalf("expected 100 events per run, got %d and %d", len(first), len(second))
	}
	for i := range first {
		a, b := *first[i], *second[i]
		a.Timestamp, b.Timestamp = time.Time{}, time.Time{}
		if a.AccountID != b.AccountID || a.Model != b.Model || a.Prompt != b.Prompt ||
			a.TokenCount != b.TokenCount || a.MaxTokens != b.MaxTokens ||
			a.ClientIP != b.ClientIP || a.Campaign() != b.Campaign() {
			t.Fatalf("event %d differs between equal-seed runs", i)
		}
	}
}
