package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/kafka"
	disputedto "github.com/dolpagu/dispute-service/internal/usecase/dto/dispute"
	"github.com/google/uuid"
)

// AcceptVerdict records the caller's acceptance of the verdict. When both
// parties have accepted, the dispute resolves and settlement is triggered
// exactly once, by the call whose transaction performed the transition.
// Repeated acceptance by the same caller is a no-op.
func (uc *DefaultDisputeUsecase) AcceptVerdict(ctx context.Context, disputeID, callerID string) (*disputedto.AcceptOutput, error) {
	dispute, party, err := uc.loadForParty(disputeID, callerID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != domain.StatusAIVerdict {
		return nil, fmt.Errorf("%w: expected status %s, got %s",
			domain.ErrInvalidState, domain.StatusAIVerdict, dispute.Status)
	}

	content := "The plaintiff accepted the verdict."
	if party == domain.PartyDefendant {
		content = "The defendant accepted the verdict."
	}
	message := &domain.DisputeMessage{
		ID:          uuid.NewString(),
		DisputeID:   dispute.ID,
		SenderID:    callerID,
		MessageType: domain.MessageAcceptance,
		Content:     content,
		CreatedAt:   time.Now(),
	}

	// The repository re-reads the dispute under a row lock before setting
	// the flag, so this status check can safely be a fast pre-check.
	updated, resolvedNow, err := uc.disputeRepo.MarkVerdictAccepted(disputeID, party, message)
	if err != nil {
		return nil, err
	}

	if resolvedNow {
		uc.metrics.DisputesResolvedTotal.Inc()
		uc.triggerSettlement(ctx, updated)
		uc.publishEvent(kafka.DisputeEvent{
			Event:        kafka.EventResolved,
			DisputeID:    updated.ID,
			CaseNumber:   updated.CaseNumber,
			OrderID:      updated.OrderID,
			PlaintiffID:  updated.PlaintiffID,
			DefendantID:  updated.DefendantID,
			Status:       string(updated.Status),
			Verdict:      updated.AIVerdict,
			RefundAmount: updated.AIRefundAmount,
		})
	}

	return &disputedto.AcceptOutput{
		Status:            string(updated.Status),
		PlaintiffAccepted: updated.PlaintiffAccepted,
		DefendantAccepted: updated.DefendantAccepted,
		Resolved:          updated.Status == domain.StatusResolved,
	}, nil
}

// triggerSettlement hands the monetary outcome to the settlement
// collaborator. Refunds flow seller to buyer. A delivery failure is logged
// and counted but does not roll back the resolution; the settlement service
// owns recovery from there.
func (uc *DefaultDisputeUsecase) triggerSettlement(ctx context.Context, dispute *domain.Dispute) {
	var refund int64
	if dispute.AIRefundAmount != nil {
		refund = *dispute.AIRefundAmount
	}

	uc.metrics.SettlementTriggersTotal.Inc()
	err := uc.settlement.TriggerSettlement(ctx, &domain.SettlementOrder{
		DisputeID:    dispute.ID,
		RefundAmount: refund,
		PayerID:      dispute.SellerID(),
		PayeeID:      dispute.BuyerID(),
	})
	if err != nil {
		uc.metrics.SettlementFailuresTotal.Inc()
		slog.Error("settlement trigger failed",
			"dispute_id", dispute.ID, "refund_amount", refund, "error", err.Error())
	}
}
