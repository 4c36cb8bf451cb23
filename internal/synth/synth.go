// Package synth fabricates labeled API gateway request events in two traffic
// classes: benign end-user usage and a simulated model-distillation campaign.
// Given the same seed and campaign count the value sequence is reproducible;
// only the wall-clock timestamp differs between runs.
package synth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"time"

	"trafficforge/pkg/models"
)

// distillProbability is the per-event chance of drawing the distillation
// class; the remainder is benign.
const distillProbability = 0.20

// Synthesizer produces an unbounded stream of events from a seeded random
// source. It is not safe for concurrent use; each goroutine should own its
// own instance.
type Synthesizer struct {
	rng       *rand.Rand
	campaigns []string
	seq       map[string]int
	now       func() time.Time
}

// New constructs a Synthesizer with campaignCount distillation campaigns,
// identified by zero-padded sequence numbers 0001..N. campaignCount must be
// at least 1 so the distillation branch always has a campaign to draw.
func New(seed int64, campaignCount int) (*Synthesizer, error) {
	if campaignCount < 1 {
		return nil, fmt.Errorf("campaign count must be >= 1, got %d", campaignCount)
	}

	campaigns := make([]string, campaignCount)
	seq := make(map[string]int, campaignCount)
	for i := range campaigns {
		id := fmt.Sprintf("%04d", i+1)
		campaigns[i] = id
		seq[id] = 0
	}

	return &Synthesizer{
		rng:       rand.New(rand.NewPCG(uint64(seed), 0)),
		campaigns: campaigns,
		seq:       seq,
		now:       time.Now,
	}, nil
}

// Campaigns returns the configured campaign identifiers.
func (s *Synthesizer) Campaigns() []string {
	out := make([]string, len(s.campaigns))
	copy(out, s.campaigns)
	return out
}

// Next draws one event. With probability 0.20 it belongs to a distillation
// campaign, otherwise it is benign.
func (s *Synthesizer) Next() *models.Event {
	if s.rng.Float64() < distillProbability {
		campaign := s.campaigns[s.rng.IntN(len(s.campaigns))]
		ev := s.distillEvent(campaign, s.seq[campaign])
		s.seq[campaign]++
		return ev
	}
	return s.benignEvent()
}

func (s *Synthesizer) benignEvent() *models.Event {
	account := accountID(fmt.Sprintf("benign-%d", s.rng.IntN(201)))
	ip, asn := s.clientAddr(benignASNs)

	return &models.Event{
		AccountID:  account,
		Timestamp:  s.now().UTC(),
		Model:      benignModels[s.rng.IntN(len(benignModels))],
		Prompt:     benignPrompts[s.rng.IntN(len(benignPrompts))],
		TokenCount: 10 + s.rng.IntN(191),
		MaxTokens:  benignMaxTokens[s.rng.IntN(len(benignMaxTokens))],
		ClientIP:   ip,
		ASNNumber:  asn.Number,
		ASNOrg:     asn.Org,
		UserAgent:  benignUserAgent,
	}
}

func (s *Synthesizer) distillEvent(campaign string, seq int) *models.Event {
	account := accountID(fmt.Sprintf("distill-%s-%d", campaign, s.rng.IntN(6)))
	ip, asn := s.clientAddr(distillASNs)

	sysPrompt := distillSystemPrompts[s.rng.IntN(len(distillSystemPrompts))]
	sysHash := truncatedHash(sysPrompt, 16)

	// The model and max_tokens sweeps rotate by sequence index instead of a
	// random draw, mimicking an actor probing the full capability matrix.
	model := distillModelSweep[seq%len(distillModelSweep)]
	maxTokens := distillMaxTokensSweep[seq%len(distillMaxTokensSweep)]

	prompt := distillCotPrompts[s.rng.IntN(len(distillCotPrompts))]
	h2fp := fmt.Sprintf("2:%d:3:100:4:65535:5:16384", s.rng.IntN(65536))
	label := "campaign_" + campaign

	return &models.Event{
		AccountID:        account,
		Timestamp:        s.now().UTC(),
		Model:            model,
		Prompt:           prompt,
		SystemPrompt:     &sysPrompt,
		SystemPromptHash: &sysHash,
		TokenCount:       8 + s.rng.IntN(23),
		MaxTokens:        maxTokens,
		ClientIP:         ip,
		ASNNumber:        asn.Number,
		ASNOrg:           asn.Org,
		UserAgent:        distillUserAgent,
		H2SettingsFP:     &h2fp,
		CampaignLabel:    &label,
	}
}

// clientAddr picks an ASN entry and fabricates a dotted quad. First and last
// octets stay in [1,254] so the address is never a network or broadcast one.
func (s *Synthesizer) clientAddr(pool []asnEntry) (string, asnEntry) {
	asn := pool[s.rng.IntN(len(pool))]
	ip := fmt.Sprintf("%d.%d.%d.%d",
		1+s.rng.IntN(254),
		s.rng.IntN(256),
		s.rng.IntN(256),
		1+s.rng.IntN(254),
	)
	return ip, asn
}

// accountID derives a stable pseudo-identifier from a class+index seed
// string. The sk- prefix matches provider API key shapes.
func accountID(seedStr string) string {
	return "sk-" + truncatedHash(seedStr, 24)
}

func truncatedHash(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:n]
}
