package usecase

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

// Appeal escalates the case to manual administrator review. Either party may
// appeal, including one that previously accepted the verdict; once the case
// leaves ai_verdict the acceptance flags have no further effect.
func (uc *DefaultDisputeUsecase) Appeal(ctx context.Context, disputeID, callerID, reason string) error {
	dispute, _, err := uc.loadForParty(disputeID, callerID)
	if err != nil {
		return err
	}
	if dispute.Status != domain.StatusAIVerdict {
		return fmt.Errorf("%w: expected status %s, got %s",
			domain.ErrInvalidState, domain.StatusAIVerdict, dispute.Status)
	}
	if utf8.RuneCountInString(reason) < minStatementRunes {
		return fmt.Errorf("%w: appeal reason must be at least %d characters", domain.ErrValidation, minStatementRunes)
	}

	dispute.Status = domain.StatusAdminReview

	message := &domain.DisputeMessage{
		ID:          uuid.NewString(),
		DisputeID:   dispute.ID,
		SenderID:    callerID,
		MessageType: domain.MessageAppeal,
		Content:     reason,
		CreatedAt:   time.Now(),
	}
	if err := uc.disputeRepo.SaveDisputeWithMessage(dispute, message); err != nil {
		return err
	}

	uc.metrics.DisputesAppealedTotal.Inc()
	uc.publishEvent(kafka.DisputeEvent{
		Event:       kafka.EventAppealed,
		DisputeID:   dispute.ID,
		CaseNumber:  dispute.CaseNumber,
		OrderID:     dispute.OrderID,
		PlaintiffID: dispute.PlaintiffID,
		DefendantID: dispute.DefendantID,
		Status:      string(dispute.Status),
	})
	return nil
}
