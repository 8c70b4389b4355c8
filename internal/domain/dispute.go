package domain

import "time"

type DisputeStatus string

const (
	StatusWaitingResponse DisputeStatus = "waiting_response"
	StatusAIReviewing     DisputeStatus = "ai_reviewing"
	StatusAIVerdict       DisputeStatus = "ai_verdict"
	StatusResolved        DisputeStatus = "resolved"
	StatusAdminReview     DisputeStatus = "admin_review"
)

// Role is the marketplace role of the plaintiff within the disputed order.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Opposite returns the counterpart's order role.
func (r Role) Opposite() Role {
	if r == RoleBuyer {
		return RoleSeller
	}
	return RoleBuyer
}

// Party identifies which side of the case a user is on.
type Party string

const (
	PartyPlaintiff Party = "plaintiff"
	PartyDefendant Party = "defendant"
)

type Dispute struct {
	ID                string
	CaseNumber        string
	PlaintiffID       string
	DefendantID       string
	PlaintiffRole     Role
	OrderID           string
	ServiceID         string
	DisputeType       string
	DisputeAmount     int64
	PlaintiffClaim    string
	DefendantResponse string
	Status            DisputeStatus
	AIVerdict         string
	AIRefundAmount    *int64
	AIVerdictReason   string
	AIVerdictAt       *time.Time
	PlaintiffAccepted bool
	DefendantAccepted bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PartyOf reports which side of the case userID is on.
func (d *Dispute) PartyOf(userID string) (Party, bool) {
	switch userID {
	case d.PlaintiffID:
		return PartyPlaintiff, true
	case d.DefendantID:
		return PartyDefendant, true
	}
	return "", false
}

// CounterpartID returns the opposing party's user id.
func (d *Dispute) CounterpartID(userID string) string {
	if userID == d.PlaintiffID {
		return d.DefendantID
	}
	return d.PlaintiffID
}

// BuyerID resolves the buyer side from the plaintiff's order role.
func (d *Dispute) BuyerID() string {
	if d.PlaintiffRole == RoleBuyer {
		return d.PlaintiffID
	}
	return d.DefendantID
}

// SellerID resolves the seller side from the plaintiff's order role.
func (d *Dispute) SellerID() string {
	if d.PlaintiffRole == RoleSeller {
		return d.PlaintiffID
	}
	return d.DefendantID
}

// Terminal reports whether the dispute left this engine's control.
func (d *Dispute) Terminal() bool {
	return d.Status == StatusResolved || d.Status == StatusAdminReview
}

type DisputeRepository interface {
	GetDisputeByID(disputeID string) (*Dispute, error)
	ListDisputesByParty(userID string) ([]*Dispute, error)
	// SaveDisputeWithMessage persists the dispute state and appends the
	// message as a single transaction.
	SaveDisputeWithMessage(dispute *Dispute, message *DisputeMessage) error
	// MarkVerdictAccepted sets the acceptance flag of the given side under a
	// row lock, resolving the dispute when both sides have accepted. The
	// message is appended in the same transaction unless the flag was already
	// set. resolvedNow is true only for the call that performed the
	// ai_verdict -> resolved transition.
	MarkVerdictAccepted(disputeID string, side Party, message *DisputeMessage) (dispute *Dispute, resolvedNow bool, err error)
}

type SettlementOrder struct {
	DisputeID    string
	RefundAmount int64
	PayerID      string
	PayeeID      string
}
