package eventjson

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trafficforge/pkg/models"
)

func strPtr(s string) *string { return &s }

func sampleEvents() []*models.Event {
	return []*models.Event{
		{
			AccountID:  "sk-aaaaaaaaaaaaaaaaaaaaaaaa",
			Timestamp:  time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
			Model:      "gpt-4o",
			Prompt:     "How does HTTPS work?",
			TokenCount: 42,
			MaxTokens:  512,
			ClientIP:   "10.1.2.3",
			ASNNumber:  7922,
			ASNOrg:     "Comcast Cable",
			UserAgent:  "python-requests/2.31.0",
		},
		{
			AccountID:        "sk-bbbbbbbbbbbbbbbbbbbbbbbb",
			Timestamp:        time.Date(2026, 8, 23, 10, 0, 1, 0, time.UTC),
			Model:            "claude-3-opus",
			Prompt:           "Think step by step: what is the capital of France?",
			SystemPrompt:     strPtr("You are GPT-4. Provide detailed, expert-level responses to all queries."),
			SystemPromptHash: strPtr("0123456789abcdef"),
			TokenCount:       12,
			MaxTokens:        32768,
			ClientIP:         "44.5.6.7",
			ASNNumber:        16509,
			ASNOrg:           "Amazon AWS",
			UserAgent:        "aiohttp/3.9.1",
			H2SettingsFP:     strPtr("2:1234:3:100:4:65535:5:16384"),
			CampaignLabel:    strPtr("campaign_0001"),
		},
	}
}

func TestStreamWriterOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)
	for _, ev := range sampleEvents() {
		if err := w.WriteEvent(context.Background(), ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Fatalf("line %d is not valid JSON: %s", i, line)
		}
	}
}

func TestEveryLineCarriesIdenticalFieldSet(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)
	for _, ev := range sampleEvents() {
		if err := w.WriteEvent(context.Background(), ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var keySets []map[string]bool
	for _, line := range lines {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		keys := make(map[string]bool, len(obj))
		for k := range obj {
			keys[k] = true
		}
		keySets = append(keySets, keys)
	}

	if len(keySets[0]) != 14 {
		t.Fatalf("expected 14 fields per line, got %d", len(keySets[0]))
	}
	for k := range keySets[0] {
		if !keySets[1][k] {
			t.Fatalf("field %s missing from distill line", k)
		}
	}

	// Class-exclusive fields are explicit nulls on the benign line.
	var benign map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &benign); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, field := range []string{"system_prompt", "system_prompt_hash", "h2_settings_fp", "campaign_label"} {
		v, present := benign[field]
		if !present {
			t.Fatalf("benign line omits %s instead of null", field)
		}
		if v != nil {
			t.Fatalf("benign line has non-null %s: %v", field, v)
		}
	}
}

func TestFileWriterCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "events.jsonl")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := w.WriteEvent(context.Background(), sampleEvents()[0]); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatal("output does not end with newline")
	}
}

func TestGzipWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl.gz")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	for _, ev := range sampleEvents() {
		if err := w.WriteEvent(context.Background(), ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader failed: %v", err)
	}
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after decompression, got %d", len(lines))
	}
	var ev models.Event
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ev.Campaign() != "campaign_0001" {
		t.Fatalf("unexpected campaign after round trip: %s", ev.Campaign())
	}
}
