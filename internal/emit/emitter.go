// Package emit drives the generation loop: pull events from a source, track
// summary counts in memory, hand each event to a sink, and pace pulls in
// streaming mode. The source itself is lazy and delay-free; all timing lives
// here.
package emit

import (
	"context"
	"fmt"
	"time"

	"trafficforge/internal/metrics"
	"trafficforge/pkg/models"
)

// Source produces one event per pull.
type Source interface {
	Next() *models.Event
}

// EventWriter consumes serialized events.
type EventWriter interface {
	WriteEvent(ctx context.Context, ev *models.Event) error
	Close() error
}

// Summary counts one run's output. Counts are tracked at emission time, never
// re-derived from the sink.
type Summary struct {
	Total       int64
	Positive    int64
	PerCampaign map[string]int64
}

// Config controls the emitter.
type Config struct {
	Count int64   // total events; 0 means unbounded streaming
	Rate  float64 // events/sec, streaming mode only
}

// Emitter owns the emission loop for one run.
type Emitter struct {
	source Source
	writer EventWriter
	cfg    Config
	stats  *metrics.Metrics // optional
}

// New creates an emitter. stats may be nil.
func New(source Source, writer EventWriter, cfg Config, stats *metrics.Metrics) *Emitter {
	return &Emitter{source: source, writer: writer, cfg: cfg, stats: stats}
}

// Run emits events until the configured count is reached, the context is
// canceled, or a write fails. The sink is closed on every exit path; each
// event is fully constructed and encoded before any bytes reach the sink, so
// partial output stays one complete record per line. Batching sinks deliver
// their final events from Close, so a Close failure propagates too.
func (e *Emitter) Run(ctx context.Context) (summary Summary, err error) {
	summary = Summary{PerCampaign: make(map[string]int64)}

	var ticker *time.Ticker
	if e.cfg.Count == 0 {
		rate := e.cfg.Rate
		if rate < 1 {
			rate = 1
		}
		ticker = time.NewTicker(time.Duration(float64(time.Second) / rate))
		defer ticker.Stop()
	}

	defer func() {
		cerr := e.writer.Close()
		if cerr != nil {
			if e.stats != nil {
				e.stats.WriteErrorsTotal.Inc()
			}
			if err == nil {
				err = fmt.Errorf("close sink: %w", cerr)
			}
		}
	}()

	for e.cfg.Count == 0 || summary.Total < e.cfg.Count {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		ev := e.source.Next()
		if werr := e.writer.WriteEvent(ctx, ev); werr != nil {
			if e.stats != nil {
				e.stats.WriteErrorsTotal.Inc()
			}
			return summary, fmt.Errorf("write event: %w", werr)
		}
		e.record(&summary, ev)

		if ticker != nil {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-ticker.C:
			}
		}
	}

	return summary, nil
}

func (e *Emitter) record(summary *Summary, ev *models.Event) {
	summary.Total++
	if ev.IsDistillation() {
		summary.Positive++
		summary.PerCampaign[ev.Campaign()]++
	}

	if e.stats == nil {
		return
	}
	if ev.IsDistillation() {
		e.stats.EventsTotal.WithLabelValues("distill").Inc()
		e.stats.CampaignEvents.WithLabelValues(ev.Campaign()).Inc()
	} else {
		e.stats.EventsTotal.WithLabelValues("benign").Inc()
	}
}
