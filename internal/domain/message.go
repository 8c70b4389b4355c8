package domain

import "time"

type MessageType string

const (
	MessageResponse   MessageType = "response"
	MessageAIVerdict  MessageType = "ai_verdict"
	MessageAcceptance MessageType = "acceptance"
	MessageAppeal     MessageType = "appeal"
)

// DisputeMessage is one entry of the append-only case timeline. Entries are
// never updated or deleted; ordering by CreatedAt reconstructs the case.
type DisputeMessage struct {
	ID          string
	DisputeID   string
	SenderID    string // empty for system-authored entries
	MessageType MessageType
	Content     string
	Metadata    []byte // opaque JSON payload, e.g. a serialized verdict
	CreatedAt   time.Time
}

// System reports whether the entry was authored by the platform itself.
func (m *DisputeMessage) System() bool {
	return m.SenderID == ""
}

type DisputeMessageRepository interface {
	ListMessages(disputeID string) ([]*DisputeMessage, error)
}
