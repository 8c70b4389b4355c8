package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/metrics"
	"github.com/dolpagu/dispute-service/internal/verdict"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	buyerID  = "user-buyer"
	sellerID = "user-seller"
)

func newDispute(status domain.DisputeStatus) *domain.Dispute {
	return &domain.Dispute{
		ID:             "d-1",
		CaseNumber:     "D-20250601-001",
		PlaintiffID:    buyerID,
		DefendantID:    sellerID,
		PlaintiffRole:  domain.RoleBuyer,
		OrderID:        "order-1",
		ServiceID:      "service-1",
		DisputeType:    verdict.DisputeQuality,
		DisputeAmount:  100000,
		PlaintiffClaim: "the delivered logo is nothing like the agreed draft",
		Status:         status,
		CreatedAt:      time.Now().Add(-24 * time.Hour),
	}
}

type testEnv struct {
	uc          *DefaultDisputeUsecase
	disputeRepo *fakeDisputeRepo
	caseRepo    *fakeCaseRepo
	adjudicator *fakeAdjudicator
	settlement  *fakeSettlement
}

func newTestEnv(dispute *domain.Dispute) *testEnv {
	disputeRepo := newFakeDisputeRepo()
	if dispute != nil {
		disputeRepo.disputes[dispute.ID] = dispute
	}
	caseRepo := &fakeCaseRepo{
		orders: map[string]*domain.Order{
			"order-1": {
				ID:          "order-1",
				BuyerID:     buyerID,
				SellerID:    sellerID,
				Status:      domain.OrderInProgress,
				TotalAmount: 100000,
				CreatedAt:   time.Now().Add(-30 * 24 * time.Hour),
			},
		},
		services: map[string]*domain.Service{
			"service-1": {ID: "service-1", SellerID: sellerID, Title: "Logo design", Category: "design", RevisionCount: 2},
		},
		profiles: map[string]*domain.Profile{
			buyerID:  {ID: buyerID, DisplayName: "Kim", AvatarURL: "https://img/kim"},
			sellerID: {ID: sellerID, DisplayName: "Lee", AvatarURL: "https://img/lee"},
		},
	}
	adjudicator := &fakeAdjudicator{err: domain.ErrAdjudicatorUnavailable}
	settlement := &fakeSettlement{}

	uc := NewDefaultDisputeUsecase(
		disputeRepo,
		disputeRepo,
		caseRepo,
		adjudicator,
		settlement,
		nil,
		metrics.NewDisputeMetrics(prometheus.NewRegistry()),
	)
	return &testEnv{uc: uc, disputeRepo: disputeRepo, caseRepo: caseRepo, adjudicator: adjudicator, settlement: settlement}
}

func TestSubmitResponse_MovesCaseIntoReview(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusWaitingResponse))

	response := "the draft was approved by the buyer before delivery"
	if err := env.uc.SubmitResponse(context.Background(), "d-1", sellerID, response); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	stored := env.disputeRepo.get(t, "d-1")
	if stored.Status != domain.StatusAIReviewing {
		t.Errorf("expected status %s, got %s", domain.StatusAIReviewing, stored.Status)
	}
	if stored.DefendantResponse != response {
		t.Errorf("response not recorded: %q", stored.DefendantResponse)
	}

	messages := env.disputeRepo.messagesOf("d-1")
	if len(messages) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(messages))
	}
	if messages[0].MessageType != domain.MessageResponse || messages[0].SenderID != sellerID {
		t.Errorf("unexpected timeline entry %+v", messages[0])
	}
}

func TestSubmitResponse_Failures(t *testing.T) {
	longEnough := strings.Repeat("a", 25)
	cases := []struct {
		name     string
		caller   string
		response string
		status   domain.DisputeStatus
		wantErr  error
	}{
		{"plaintiff cannot respond", buyerID, longEnough, domain.StatusWaitingResponse, domain.ErrForbidden},
		{"stranger cannot respond", "user-other", longEnough, domain.StatusWaitingResponse, domain.ErrForbidden},
		{"too short", sellerID, "too short", domain.StatusWaitingResponse, domain.ErrValidation},
		{"verdict already issued", sellerID, longEnough, domain.StatusAIVerdict, domain.ErrInvalidState},
		{"already resolved", sellerID, longEnough, domain.StatusResolved, domain.ErrInvalidState},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := newTestEnv(newDispute(c.status))

			err := env.uc.SubmitResponse(context.Background(), "d-1", c.caller, c.response)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
			if n := env.disputeRepo.saveCount(); n != 0 {
				t.Errorf("expected no writes on failure, got %d", n)
			}
		})
	}
}

func TestSubmitResponse_UnicodeLengthCounted(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusWaitingResponse))

	// 20 multi-byte runes pass the length check.
	if err := env.uc.SubmitResponse(context.Background(), "d-1", sellerID, strings.Repeat("구", 20)); err != nil {
		t.Fatalf("expected 20-rune response to pass, got %v", err)
	}
}

func TestRequestVerdict_AdjudicatorDownKeepsBaseline(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusAIReviewing))

	output, err := env.uc.RequestVerdict(context.Background(), "d-1", buyerID)
	if err != nil {
		t.Fatalf("adjudicator failure must not fail the request: %v", err)
	}

	// Divisible service in progress: the rule baseline is a 50% refund.
	if output.Verdict.Category != verdict.PartialRefund {
		t.Errorf("expected baseline partial_refund, got %s", output.Verdict.Category)
	}
	if output.Verdict.RefundAmount != 50000 {
		t.Errorf("expected baseline refund 50000, got %d", output.Verdict.RefundAmount)
	}
	if output.Verdict.Confidence != "" {
		t.Errorf("baseline must not carry confidence, got %q", output.Verdict.Confidence)
	}

	stored := env.disputeRepo.get(t, "d-1")
	if stored.Status != domain.StatusAIVerdict {
		t.Errorf("expected status %s, got %s", domain.StatusAIVerdict, stored.Status)
	}
	if stored.AIRefundAmount == nil || *stored.AIRefundAmount != 50000 {
		t.Errorf("refund amount not persisted: %v", stored.AIRefundAmount)
	}
	if stored.AIVerdictAt == nil {
		t.Errorf("verdict timestamp not persisted")
	}

	messages := env.disputeRepo.messagesOf("d-1")
	if len(messages) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(messages))
	}
	if messages[0].MessageType != domain.MessageAIVerdict || !messages[0].System() {
		t.Errorf("verdict entry must be system-authored, got %+v", messages[0])
	}
	if len(messages[0].Metadata) == 0 {
		t.Errorf("verdict entry must carry the structured verdict")
	}
}

func TestRequestVerdict_RefinementRecomputesAmount(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusAIReviewing))
	env.adjudicator.err = nil
	env.adjudicator.result = &verdict.Verdict{
		Category:         verdict.PartialRefund,
		RefundPercentage: 30,
		Reason:           "most of the agreed work was delivered in usable form",
		Recommendations:  []string{},
		Confidence:       "high",
	}

	output, err := env.uc.RequestVerdict(context.Background(), "d-1", sellerID)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if output.Verdict.RefundAmount != 30000 {
		t.Errorf("expected recomputed refund 30000, got %d", output.Verdict.RefundAmount)
	}
	if output.Verdict.Confidence != "high" {
		t.Errorf("refined verdict should carry confidence, got %q", output.Verdict.Confidence)
	}
	if !strings.Contains(output.Document, "Refund: 30000 KRW (30%)") {
		t.Errorf("document does not reflect the refined ruling:\n%s", output.Document)
	}
}

func TestRequestVerdict_OneShot(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusAIReviewing))

	if _, err := env.uc.RequestVerdict(context.Background(), "d-1", buyerID); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := env.uc.RequestVerdict(context.Background(), "d-1", buyerID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second request: expected ErrInvalidState, got %v", err)
	}
	if len(env.disputeRepo.messagesOf("d-1")) != 1 {
		t.Errorf("repeated request must not append entries")
	}
}

func TestAcceptVerdict_SingleSideDoesNotResolve(t *testing.T) {
	dispute := newDispute(domain.StatusAIVerdict)
	refund := int64(50000)
	dispute.AIVerdict = string(verdict.PartialRefund)
	dispute.AIRefundAmount = &refund
	env := newTestEnv(dispute)

	output, err := env.uc.AcceptVerdict(context.Background(), "d-1", buyerID)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if output.Resolved || output.Status != string(domain.StatusAIVerdict) {
		t.Errorf("one-sided acceptance must not resolve: %+v", output)
	}
	if !output.PlaintiffAccepted || output.DefendantAccepted {
		t.Errorf("unexpected flags: %+v", output)
	}
	if n := env.settlement.calls(); n != 0 {
		t.Errorf("settlement must not run, got %d calls", n)
	}
}

func TestAcceptVerdict_Idempotent(t *testing.T) {
	dispute := newDispute(domain.StatusAIVerdict)
	env := newTestEnv(dispute)

	if _, err := env.uc.AcceptVerdict(context.Background(), "d-1", buyerID); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	output, err := env.uc.AcceptVerdict(context.Background(), "d-1", buyerID)
	if err != nil {
		t.Fatalf("repeated accept must succeed, got %v", err)
	}
	if output.Resolved {
		t.Errorf("repeated accept must not resolve")
	}
	if got := len(env.disputeRepo.messagesOf("d-1")); got != 1 {
		t.Errorf("repeated accept must not append entries, got %d", got)
	}
}

func TestAcceptVerdict_BothSidesResolveAndSettle(t *testing.T) {
	dispute := newDispute(domain.StatusAIVerdict)
	refund := int64(30000)
	dispute.AIVerdict = string(verdict.PartialRefund)
	dispute.AIRefundAmount = &refund
	env := newTestEnv(dispute)

	if _, err := env.uc.AcceptVerdict(context.Background(), "d-1", buyerID); err != nil {
		t.Fatalf("plaintiff accept failed: %v", err)
	}
	output, err := env.uc.AcceptVerdict(context.Background(), "d-1", sellerID)
	if err != nil {
		t.Fatalf("defendant accept failed: %v", err)
	}
	if !output.Resolved || output.Status != string(domain.StatusResolved) {
		t.Fatalf("expected resolution, got %+v", output)
	}

	if n := env.settlement.calls(); n != 1 {
		t.Fatalf("expected exactly one settlement, got %d", n)
	}
	order := env.settlement.last()
	if order.PayerID != sellerID || order.PayeeID != buyerID {
		t.Errorf("refund must flow seller to buyer, got payer=%s payee=%s", order.PayerID, order.PayeeID)
	}
	if order.RefundAmount != 30000 {
		t.Errorf("expected refund 30000, got %d", order.RefundAmount)
	}
}

func TestAcceptVerdict_SettlementFailureDoesNotFailAction(t *testing.T) {
	dispute := newDispute(domain.StatusAIVerdict)
	env := newTestEnv(dispute)
	env.settlement.err = errors.New("settlement service down")

	if _, err := env.uc.AcceptVerdict(context.Background(), "d-1", buyerID); err != nil {
		t.Fatalf("plaintiff accept failed: %v", err)
	}
	output, err := env.uc.AcceptVerdict(context.Background(), "d-1", sellerID)
	if err != nil {
		t.Fatalf("resolution must survive a settlement failure, got %v", err)
	}
	if !output.Resolved {
		t.Errorf("expected resolution despite settlement failure")
	}
}

func TestAcceptVerdict_ConcurrentPartiesSettleOnce(t *testing.T) {
	dispute := newDispute(domain.StatusAIVerdict)
	refund := int64(50000)
	dispute.AIRefundAmount = &refund
	env := newTestEnv(dispute)

	var wg sync.WaitGroup
	for _, caller := range []string{buyerID, sellerID} {
		wg.Add(1)
		go func(caller string) {
			defer wg.Done()
			// A loser of the race may observe the case already resolved.
			if _, err := env.uc.AcceptVerdict(context.Background(), "d-1", caller); err != nil && !errors.Is(err, domain.ErrInvalidState) {
				t.Errorf("accept by %s failed: %v", caller, err)
			}
		}(caller)
	}
	wg.Wait()

	stored := env.disputeRepo.get(t, "d-1")
	if stored.Status != domain.StatusResolved {
		t.Fatalf("expected resolution, got %s", stored.Status)
	}
	if n := env.settlement.calls(); n != 1 {
		t.Fatalf("expected exactly one settlement under concurrency, got %d", n)
	}
}

func TestAppeal_EscalatesToAdminReview(t *testing.T) {
	dispute := newDispute(domain.StatusAIVerdict)
	dispute.PlaintiffAccepted = true
	env := newTestEnv(dispute)

	// The defendant can appeal even after the plaintiff accepted.
	reason := "the ruling ignores the revision history of the order"
	if err := env.uc.Appeal(context.Background(), "d-1", sellerID, reason); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	stored := env.disputeRepo.get(t, "d-1")
	if stored.Status != domain.StatusAdminReview {
		t.Errorf("expected status %s, got %s", domain.StatusAdminReview, stored.Status)
	}
	if n := env.settlement.calls(); n != 0 {
		t.Errorf("appeal must not settle, got %d calls", n)
	}

	messages := env.disputeRepo.messagesOf("d-1")
	if len(messages) != 1 || messages[0].MessageType != domain.MessageAppeal {
		t.Errorf("appeal entry missing: %+v", messages)
	}
}

func TestAppeal_Failures(t *testing.T) {
	reason := "the ruling ignores the revision history of the order"

	env := newTestEnv(newDispute(domain.StatusWaitingResponse))
	if err := env.uc.Appeal(context.Background(), "d-1", buyerID, reason); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("no verdict yet: expected ErrInvalidState, got %v", err)
	}

	env = newTestEnv(newDispute(domain.StatusAIVerdict))
	if err := env.uc.Appeal(context.Background(), "d-1", buyerID, "unfair"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("short reason: expected ErrValidation, got %v", err)
	}
	if n := env.disputeRepo.saveCount(); n != 0 {
		t.Errorf("expected no writes on failure, got %d", n)
	}
}

func TestGetTimeline_PartyOnly(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusWaitingResponse))
	response := "the draft was approved by the buyer before delivery"
	if err := env.uc.SubmitResponse(context.Background(), "d-1", sellerID, response); err != nil {
		t.Fatalf("seeding response failed: %v", err)
	}

	entries, err := env.uc.GetTimeline(context.Background(), "d-1", buyerID)
	if err != nil {
		t.Fatalf("party read failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Content != response {
		t.Errorf("unexpected timeline: %+v", entries)
	}

	if _, err := env.uc.GetTimeline(context.Background(), "d-1", "user-other"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("stranger read: expected ErrForbidden, got %v", err)
	}
}

func TestListDisputes_CounterpartIdentity(t *testing.T) {
	env := newTestEnv(newDispute(domain.StatusWaitingResponse))

	summaries, err := env.uc.ListDisputes(context.Background(), buyerID)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 dispute, got %d", len(summaries))
	}
	summary := summaries[0]
	if summary.CallerParty != string(domain.PartyPlaintiff) {
		t.Errorf("expected caller party plaintiff, got %s", summary.CallerParty)
	}
	if summary.Counterpart.DisplayName != "Lee" {
		t.Errorf("expected counterpart Lee, got %+v", summary.Counterpart)
	}
}

func TestGetDispute_NotFound(t *testing.T) {
	env := newTestEnv(nil)
	if _, err := env.uc.GetTimeline(context.Background(), "missing", buyerID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// --- fakes ---

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]*domain.Dispute
	messages map[string][]*domain.DisputeMessage
	saves    int
}

func newFakeDisputeRepo() *fakeDisputeRepo {
	return &fakeDisputeRepo{
		disputes: make(map[string]*domain.Dispute),
		messages: make(map[string][]*domain.DisputeMessage),
	}
}

func (f *fakeDisputeRepo) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dispute, ok := f.disputes[disputeID]
	if !ok {
		return nil, fmt.Errorf("%w: dispute %s", domain.ErrNotFound, disputeID)
	}
	clone := *dispute
	return &clone, nil
}

func (f *fakeDisputeRepo) ListDisputesByParty(userID string) ([]*domain.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Dispute
	for _, dispute := range f.disputes {
		if dispute.PlaintiffID == userID || dispute.DefendantID == userID {
			clone := *dispute
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeDisputeRepo) SaveDisputeWithMessage(dispute *domain.Dispute, message *domain.DisputeMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *dispute
	f.disputes[dispute.ID] = &clone
	f.messages[dispute.ID] = append(f.messages[dispute.ID], message)
	f.saves++
	return nil
}

func (f *fakeDisputeRepo) MarkVerdictAccepted(disputeID string, side domain.Party, message *domain.DisputeMessage) (*domain.Dispute, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dispute, ok := f.disputes[disputeID]
	if !ok {
		return nil, false, fmt.Errorf("%w: dispute %s", domain.ErrNotFound, disputeID)
	}
	if dispute.Status != domain.StatusAIVerdict {
		return nil, false, fmt.Errorf("%w: expected status %s, got %s",
			domain.ErrInvalidState, domain.StatusAIVerdict, dispute.Status)
	}

	already := false
	switch side {
	case domain.PartyPlaintiff:
		already = dispute.PlaintiffAccepted
		dispute.PlaintiffAccepted = true
	case domain.PartyDefendant:
		already = dispute.DefendantAccepted
		dispute.DefendantAccepted = true
	}

	resolvedNow := false
	if dispute.PlaintiffAccepted && dispute.DefendantAccepted {
		dispute.Status = domain.StatusResolved
		resolvedNow = true
	}
	if !already {
		f.messages[disputeID] = append(f.messages[disputeID], message)
	}

	clone := *dispute
	return &clone, resolvedNow, nil
}

func (f *fakeDisputeRepo) ListMessages(disputeID string) ([]*domain.DisputeMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.DisputeMessage(nil), f.messages[disputeID]...), nil
}

func (f *fakeDisputeRepo) get(t *testing.T, disputeID string) *domain.Dispute {
	t.Helper()
	dispute, err := f.GetDisputeByID(disputeID)
	if err != nil {
		t.Fatalf("dispute %s missing: %v", disputeID, err)
	}
	return dispute
}

func (f *fakeDisputeRepo) messagesOf(disputeID string) []*domain.DisputeMessage {
	messages, _ := f.ListMessages(disputeID)
	return messages
}

func (f *fakeDisputeRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeCaseRepo struct {
	orders   map[string]*domain.Order
	services map[string]*domain.Service
	profiles map[string]*domain.Profile
}

func (f *fakeCaseRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	if order, ok := f.orders[orderID]; ok {
		return order, nil
	}
	return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
}

func (f *fakeCaseRepo) GetServiceByID(serviceID string) (*domain.Service, error) {
	if service, ok := f.services[serviceID]; ok {
		return service, nil
	}
	return nil, fmt.Errorf("%w: service %s", domain.ErrNotFound, serviceID)
}

func (f *fakeCaseRepo) GetProfileByID(userID string) (*domain.Profile, error) {
	if profile, ok := f.profiles[userID]; ok {
		return profile, nil
	}
	return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, userID)
}

type fakeAdjudicator struct {
	result *verdict.Verdict
	err    error
}

func (f *fakeAdjudicator) Refine(_ context.Context, _ *domain.Dispute, _ verdict.DecisionContext, _ verdict.Verdict) (*verdict.Verdict, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return nil, nil
	}
	clone := *f.result
	return &clone, nil
}

type fakeSettlement struct {
	mu     sync.Mutex
	orders []*domain.SettlementOrder
	err    error
}

func (f *fakeSettlement) TriggerSettlement(_ context.Context, order *domain.SettlementOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
	return f.err
}

func (f *fakeSettlement) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeSettlement) last() *domain.SettlementOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[len(f.orders)-1]
}
