package disputedto

import (
	"encoding/json"
	"time"

	"github.com/dolpagu/dispute-service/internal/verdict"
)

// PartyIdentity is the display-safe identity of the opposing party.
type PartyIdentity struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type DisputeSummary struct {
	ID                string        `json:"id"`
	CaseNumber        string        `json:"case_number"`
	Status            string        `json:"status"`
	DisputeType       string        `json:"dispute_type"`
	DisputeAmount     int64         `json:"dispute_amount"`
	PlaintiffRole     string        `json:"plaintiff_role"`
	CallerParty       string        `json:"caller_party"`
	Counterpart       PartyIdentity `json:"counterpart"`
	AIVerdict         string        `json:"ai_verdict,omitempty"`
	AIRefundAmount    *int64        `json:"ai_refund_amount,omitempty"`
	AIVerdictAt       *time.Time    `json:"ai_verdict_at,omitempty"`
	PlaintiffAccepted bool          `json:"plaintiff_accepted"`
	DefendantAccepted bool          `json:"defendant_accepted"`
	CreatedAt         time.Time     `json:"created_at"`
}

type VerdictOutput struct {
	Verdict  verdict.Verdict `json:"verdict"`
	Document string          `json:"document"`
}

type AcceptOutput struct {
	Status            string `json:"status"`
	PlaintiffAccepted bool   `json:"plaintiff_accepted"`
	DefendantAccepted bool   `json:"defendant_accepted"`
	Resolved          bool   `json:"resolved"`
}

type TimelineEntry struct {
	ID          string          `json:"id"`
	SenderID    string          `json:"sender_id,omitempty"`
	System      bool            `json:"system"`
	MessageType string          `json:"message_type"`
	Content     string          `json:"content"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
