package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/kafka"
	disputedto "github.com/dolpagu/dispute-service/internal/usecase/dto/dispute"
	"github.com/dolpagu/dispute-service/internal/verdict"
	"github.com/google/uuid"
)

// RequestVerdict runs the full adjudication pipeline: build the decision
// context, analyze with the rule engine, refine best-effort through the
// external adjudicator, render the verdict document and persist the
// transition with its system message. The action is one-shot: once a verdict
// exists the request is rejected instead of silently recomputing it.
func (uc *DefaultDisputeUsecase) RequestVerdict(ctx context.Context, disputeID, callerID string) (*disputedto.VerdictOutput, error) {
	dispute, _, err := uc.loadForParty(disputeID, callerID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != domain.StatusWaitingResponse && dispute.Status != domain.StatusAIReviewing {
		return nil, fmt.Errorf("%w: expected status %s or %s, got %s",
			domain.ErrInvalidState, domain.StatusWaitingResponse, domain.StatusAIReviewing, dispute.Status)
	}

	decisionCtx := verdict.BuildContext(uc.collectCaseFacts(dispute))
	baseline := verdict.Analyze(decisionCtx)

	start := time.Now()
	refined, refineErr := uc.adjudicator.Refine(ctx, dispute, decisionCtx, baseline)
	uc.metrics.AdjudicatorDuration.Observe(time.Since(start).Seconds())

	final := baseline
	source := "engine"
	if refineErr != nil || refined == nil {
		uc.metrics.AdjudicatorFailuresTotal.Inc()
		slog.Warn("adjudicator refinement unavailable, keeping rule baseline",
			"dispute_id", dispute.ID, "error", errString(refineErr))
	} else {
		// The adapter's own amount is never trusted: recompute from the
		// returned percentage so the refund can never exceed the dispute.
		refined.RefundAmount = verdict.RefundFor(dispute.DisputeAmount, refined.RefundPercentage)
		final = *refined
		source = "adjudicator"
	}
	uc.metrics.VerdictsIssuedTotal.WithLabelValues(source).Inc()

	issuedAt := time.Now()
	document := verdict.RenderDocument(
		dispute.CaseNumber,
		uc.partyDisplay(dispute.PlaintiffID, dispute.PlaintiffRole),
		uc.partyDisplay(dispute.DefendantID, dispute.PlaintiffRole.Opposite()),
		decisionCtx,
		final,
		issuedAt,
	)

	refundAmount := final.RefundAmount
	dispute.AIVerdict = string(final.Category)
	dispute.AIRefundAmount = &refundAmount
	dispute.AIVerdictReason = document
	dispute.AIVerdictAt = &issuedAt
	dispute.Status = domain.StatusAIVerdict

	metadata, err := json.Marshal(map[string]any{"verdict": final})
	if err != nil {
		return nil, fmt.Errorf("marshal verdict metadata: %w", err)
	}
	message := &domain.DisputeMessage{
		ID:          uuid.NewString(),
		DisputeID:   dispute.ID,
		MessageType: domain.MessageAIVerdict,
		Content:     document,
		Metadata:    metadata,
		CreatedAt:   issuedAt,
	}
	if err := uc.disputeRepo.SaveDisputeWithMessage(dispute, message); err != nil {
		return nil, err
	}

	uc.publishEvent(kafka.DisputeEvent{
		Event:         kafka.EventVerdictIssued,
		DisputeID:     dispute.ID,
		CaseNumber:    dispute.CaseNumber,
		OrderID:       dispute.OrderID,
		PlaintiffID:   dispute.PlaintiffID,
		DefendantID:   dispute.DefendantID,
		Status:        string(dispute.Status),
		Verdict:       string(final.Category),
		RefundAmount:  &refundAmount,
		VerdictSource: source,
	})

	return &disputedto.VerdictOutput{Verdict: final, Document: document}, nil
}

// collectCaseFacts gathers the raw order/service facts of the case. Lookups
// are tolerant: a missing record degrades to context defaults instead of
// failing the verdict request.
func (uc *DefaultDisputeUsecase) collectCaseFacts(dispute *domain.Dispute) verdict.CaseFacts {
	facts := verdict.CaseFacts{
		PlaintiffRole:     string(dispute.PlaintiffRole),
		DisputeType:       dispute.DisputeType,
		DisputeAmount:     dispute.DisputeAmount,
		FiledAt:           dispute.CreatedAt,
		PlaintiffClaim:    dispute.PlaintiffClaim,
		DefendantResponse: dispute.DefendantResponse,
	}

	order, err := uc.caseRepo.GetOrderByID(dispute.OrderID)
	if err != nil {
		slog.Warn("order lookup failed, building context from defaults",
			"dispute_id", dispute.ID, "order_id", dispute.OrderID, "error", err.Error())
	} else {
		facts.OrderStatus = string(order.Status)
		facts.OrderCreatedAt = order.CreatedAt
	}

	service, err := uc.caseRepo.GetServiceByID(dispute.ServiceID)
	if err != nil {
		slog.Warn("service lookup failed, building context from defaults",
			"dispute_id", dispute.ID, "service_id", dispute.ServiceID, "error", err.Error())
	} else {
		facts.ServiceCategory = service.Category
		facts.RevisionLimit = service.RevisionCount
	}

	return facts
}

func (uc *DefaultDisputeUsecase) partyDisplay(userID string, role domain.Role) verdict.PartyInfo {
	info := verdict.PartyInfo{Role: string(role)}
	profile, err := uc.caseRepo.GetProfileByID(userID)
	if err == nil {
		info.Name = profile.DisplayName
	}
	return info
}

func errString(err error) string {
	if err == nil {
		return "empty refinement"
	}
	return err.Error()
}
