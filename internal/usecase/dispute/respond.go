package usecase

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/google/uuid"
)

// SubmitResponse records the defendant's answer to the claim and moves the
// case into AI review.
func (uc *DefaultDisputeUsecase) SubmitResponse(ctx context.Context, disputeID, callerID, response string) error {
	dispute, party, err := uc.loadForParty(disputeID, callerID)
	if err != nil {
		return err
	}
	if party != domain.PartyDefendant {
		return fmt.Errorf("%w: only the defendant may submit a response", domain.ErrForbidden)
	}
	if dispute.Status != domain.StatusWaitingResponse && dispute.Status != domain.StatusAIReviewing {
		return fmt.Errorf("%w: expected status %s or %s, got %s",
			domain.ErrInvalidState, domain.StatusWaitingResponse, domain.StatusAIReviewing, dispute.Status)
	}
	if utf8.RuneCountInString(response) < minStatementRunes {
		return fmt.Errorf("%w: response must be at least %d characters", domain.ErrValidation, minStatementRunes)
	}

	dispute.DefendantResponse = response
	dispute.Status = domain.StatusAIReviewing

	message := &domain.DisputeMessage{
		ID:          uuid.NewString(),
		DisputeID:   dispute.ID,
		SenderID:    callerID,
		MessageType: domain.MessageResponse,
		Content:     response,
		CreatedAt:   time.Now(),
	}
	return uc.disputeRepo.SaveDisputeWithMessage(dispute, message)
}
