package models

import "time"

// Event is one synthetic API gateway request record.
//
// Class-exclusive fields use pointer types so that the JSON encoding carries
// an explicit null rather than omitting the field: every emitted line has the
// identical field set regardless of traffic class, which downstream tailers
// and labeled-dataset loaders rely on.
type Event struct {
	AccountID        string    `json:"account_id"`
	Timestamp        time.Time `json:"timestamp"`
	Model            string    `json:"model"`
	Prompt           string    `json:"prompt"`
	SystemPrompt     *string   `json:"system_prompt"`
	SystemPromptHash *string   `json:"system_prompt_hash"`
	TokenCount       int       `json:"token_count"`
	MaxTokens        int       `json:"max_tokens"`
	ClientIP         string    `json:"client_ip"`
	ASNNumber        int       `json:"asn_number"`
	ASNOrg           string    `json:"asn_org"`
	UserAgent        string    `json:"user_agent"`
	H2SettingsFP     *string   `json:"h2_settings_fp"`
	CampaignLabel    *string   `json:"campaign_label"`
}

// IsDistillation reports whether the event belongs to a simulated
// distillation campaign.
func (e *Event) IsDistillation() bool {
	return e != nil && e.CampaignLabel != nil && *e.CampaignLabel != ""
}

// Campaign returns the campaign label, or "" for benign events.
func (e *Event) Campaign() string {
	if e == nil || e.CampaignLabel == nil {
		return ""
	}
	return *e.CampaignLabel
}
