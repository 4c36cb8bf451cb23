// Package report recounts finished JSONL output independently of the
// generation-time counters, for verifying labeled datasets before they feed
// a detector.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"trafficforge/pkg/models"
)

// Report summarizes one generated dataset.
type Report struct {
	Total       int64            `json:"total"`
	Positive    int64            `json:"positive"`
	PerCampaign map[string]int64 `json:"per_campaign"`
	PerModel    map[string]int64 `json:"per_model"`
}

// LoadEventsJSONL reads events from a JSONL file, transparently decompressing
// .gz paths. Blank lines are skipped; a malformed line is an error, since a
// generated dataset must be valid on every line.
func LoadEventsJSONL(path string) ([]*models.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	events := make([]*models.Event, 0, 4096)
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	s.Buffer(buf, 8*1024*1024)

	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		var ev models.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
		}
		events = append(events, &ev)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return events, nil
}

// Summarize counts totals, positives, and per-campaign/per-model breakdowns.
func Summarize(events []*models.Event) Report {
	rep := Report{
		PerCampaign: make(map[string]int64),
		PerModel:    make(map[string]int64),
	}
	for _, ev := range events {
		rep.Total++
		rep.PerModel[ev.Model]++
		if ev.IsDistillation() {
			rep.Positive++
			rep.PerCampaign[ev.Campaign()]++
		}
	}
	return rep
}

// Print writes a plain-text report.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "events total=%d positive=%d negative=%d\n", r.Total, r.Positive, r.Total-r.Positive)

	for _, campaign := range sortedKeys(r.PerCampaign) {
		fmt.Fprintf(w, "campaign %s: %d\n", campaign, r.PerCampaign[campaign])
	}
	for _, model := range sortedKeys(r.PerModel) {
		fmt.Fprintf(w, "model %s: %d\n", model, r.PerModel[model])
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
