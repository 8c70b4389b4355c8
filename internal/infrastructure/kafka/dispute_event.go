package kafka

// Dispute lifecycle events published to the dispute-events topic.
const (
	EventVerdictIssued = "verdict_issued"
	EventResolved      = "resolved"
	EventAppealed      = "appealed"
)

type DisputeEvent struct {
	Event         string `json:"event"`
	DisputeID     string `json:"dispute_id"`
	CaseNumber    string `json:"case_number"`
	OrderID       string `json:"order_id"`
	PlaintiffID   string `json:"plaintiff_id"`
	DefendantID   string `json:"defendant_id"`
	Status        string `json:"status"`
	Verdict       string `json:"verdict,omitempty"`
	RefundAmount  *int64 `json:"refund_amount,omitempty"`
	VerdictSource string `json:"verdict_source,omitempty"`
}
