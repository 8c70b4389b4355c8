package usecase

import (
	"context"

	disputedto "github.com/dolpagu/dispute-service/internal/usecase/dto/dispute"
)

// ListDisputes returns the disputes the caller is a party to, newest first,
// with the counterpart reduced to display-safe identity.
func (uc *DefaultDisputeUsecase) ListDisputes(ctx context.Context, callerID string) ([]*disputedto.DisputeSummary, error) {
	disputes, err := uc.disputeRepo.ListDisputesByParty(callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*disputedto.DisputeSummary, 0, len(disputes))
	for _, dispute := range disputes {
		party, _ := dispute.PartyOf(callerID)

		var counterpart disputedto.PartyIdentity
		if profile, err := uc.caseRepo.GetProfileByID(dispute.CounterpartID(callerID)); err == nil {
			counterpart.DisplayName = profile.DisplayName
			counterpart.AvatarURL = profile.AvatarURL
		}

		summaries = append(summaries, &disputedto.DisputeSummary{
			ID:                dispute.ID,
			CaseNumber:        dispute.CaseNumber,
			Status:            string(dispute.Status),
			DisputeType:       dispute.DisputeType,
			DisputeAmount:     dispute.DisputeAmount,
			PlaintiffRole:     string(dispute.PlaintiffRole),
			CallerParty:       string(party),
			Counterpart:       counterpart,
			AIVerdict:         dispute.AIVerdict,
			AIRefundAmount:    dispute.AIRefundAmount,
			AIVerdictAt:       dispute.AIVerdictAt,
			PlaintiffAccepted: dispute.PlaintiffAccepted,
			DefendantAccepted: dispute.DefendantAccepted,
			CreatedAt:         dispute.CreatedAt,
		})
	}
	return summaries, nil
}

// GetTimeline returns the full case timeline in chronological order.
// Only the case parties may read it.
func (uc *DefaultDisputeUsecase) GetTimeline(ctx context.Context, disputeID, callerID string) ([]*disputedto.TimelineEntry, error) {
	if _, _, err := uc.loadForParty(disputeID, callerID); err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListMessages(disputeID)
	if err != nil {
		return nil, err
	}

	entries := make([]*disputedto.TimelineEntry, len(messages))
	for i, message := range messages {
		entries[i] = &disputedto.TimelineEntry{
			ID:          message.ID,
			SenderID:    message.SenderID,
			System:      message.System(),
			MessageType: string(message.MessageType),
			Content:     message.Content,
			Metadata:    message.Metadata,
			CreatedAt:   message.CreatedAt,
		}
	}
	return entries, nil
}
