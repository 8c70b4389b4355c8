package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/kafka"
	"github.com/dolpagu/dispute-service/internal/infrastructure/metrics"
	disputedto "github.com/dolpagu/dispute-service/internal/usecase/dto/dispute"
	"github.com/dolpagu/dispute-service/internal/verdict"
)

// Statements submitted by a party (defendant response, appeal reason) must
// carry at least this many characters to be actionable.
const minStatementRunes = 20

type DisputeUsecase interface {
	SubmitResponse(ctx context.Context, disputeID, callerID, response string) error
	RequestVerdict(ctx context.Context, disputeID, callerID string) (*disputedto.VerdictOutput, error)
	AcceptVerdict(ctx context.Context, disputeID, callerID string) (*disputedto.AcceptOutput, error)
	Appeal(ctx context.Context, disputeID, callerID, reason string) error
	ListDisputes(ctx context.Context, callerID string) ([]*disputedto.DisputeSummary, error)
	GetTimeline(ctx context.Context, disputeID, callerID string) ([]*disputedto.TimelineEntry, error)
}

// Adjudicator refines a baseline ruling through an external reasoning
// service. Any failure resolves to an error wrapping
// domain.ErrAdjudicatorUnavailable; the usecase then keeps the baseline.
type Adjudicator interface {
	Refine(ctx context.Context, dispute *domain.Dispute, dctx verdict.DecisionContext, baseline verdict.Verdict) (*verdict.Verdict, error)
}

// SettlementTrigger hands a resolved dispute's monetary outcome to the
// settlement collaborator.
type SettlementTrigger interface {
	TriggerSettlement(ctx context.Context, order *domain.SettlementOrder) error
}

type DisputeEventPublisher interface {
	PublishDispute(event kafka.DisputeEvent) error
}

// DefaultDisputeUsecase is the only mutator of the dispute aggregate. Every
// action authorizes the caller against the case parties, validates the
// current status, and persists state plus its timeline entry atomically.
type DefaultDisputeUsecase struct {
	disputeRepo domain.DisputeRepository
	messageRepo domain.DisputeMessageRepository
	caseRepo    domain.CaseRecordRepository
	adjudicator Adjudicator
	settlement  SettlementTrigger
	publisher   DisputeEventPublisher
	metrics     *metrics.DisputeMetrics
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	messageRepo domain.DisputeMessageRepository,
	caseRepo domain.CaseRecordRepository,
	adjudicator Adjudicator,
	settlement SettlementTrigger,
	publisher DisputeEventPublisher,
	disputeMetrics *metrics.DisputeMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo: disputeRepo,
		messageRepo: messageRepo,
		caseRepo:    caseRepo,
		adjudicator: adjudicator,
		settlement:  settlement,
		publisher:   publisher,
		metrics:     disputeMetrics,
	}
}

// loadForParty fetches the dispute and authorizes the caller as one of its
// two parties.
func (uc *DefaultDisputeUsecase) loadForParty(disputeID, callerID string) (*domain.Dispute, domain.Party, error) {
	dispute, err := uc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return nil, "", err
	}
	party, ok := dispute.PartyOf(callerID)
	if !ok {
		return nil, "", fmt.Errorf("%w: user %s is not a party to dispute %s",
			domain.ErrForbidden, callerID, disputeID)
	}
	return dispute, party, nil
}

func (uc *DefaultDisputeUsecase) publishEvent(event kafka.DisputeEvent) {
	if uc.publisher == nil {
		return
	}
	go func() {
		if err := uc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish kafka dispute event",
				"event", event.Event, "dispute_id", event.DisputeID, "error", err.Error())
		}
	}()
}
