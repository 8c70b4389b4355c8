package adjudicator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/verdict"
)

func testCase() (*domain.Dispute, verdict.DecisionContext, verdict.Verdict) {
	dispute := &domain.Dispute{
		ID:            "d-1",
		CaseNumber:    "D-20250601-001",
		PlaintiffID:   "buyer-1",
		DefendantID:   "seller-1",
		PlaintiffRole: domain.RoleBuyer,
		DisputeAmount: 100000,
	}
	dctx := verdict.BuildContext(verdict.CaseFacts{
		ServiceCategory: "design",
		OrderStatus:     "in_progress",
		DisputeType:     verdict.DisputeQuality,
		DisputeAmount:   dispute.DisputeAmount,
		PlaintiffRole:   "buyer",
	})
	return dispute, dctx, verdict.Analyze(dctx)
}

func geminiReply(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	body, _ := json.Marshal(payload)
	return string(body)
}

func TestRefine_ValidRefinement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, geminiReply("Here is my ruling:\n{\"verdict\": \"partial_refund\", \"refundPercentage\": 30, \"reason\": \"most of the work was delivered\", \"recommendations\": [\"hand over the files\"]}\nDone."))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", time.Second)
	dispute, dctx, baseline := testCase()

	refined, err := client.Refine(context.Background(), dispute, dctx, baseline)
	if err != nil {
		t.Fatalf("expected refinement, got error %v", err)
	}
	if refined.Category != verdict.PartialRefund {
		t.Errorf("expected partial_refund, got %s", refined.Category)
	}
	if refined.RefundPercentage != 30 {
		t.Errorf("expected 30%%, got %d%%", refined.RefundPercentage)
	}
	if refined.RefundAmount != 0 {
		t.Errorf("amount must be left for the caller to recompute, got %d", refined.RefundAmount)
	}
	if refined.Confidence != "high" {
		t.Errorf("expected high confidence, got %q", refined.Confidence)
	}
}

func TestRefine_MalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"no json at all":     "I believe the buyer is right.",
		"unknown verdict":    `{"verdict": "maybe_refund", "refundPercentage": 30, "reason": "x"}`,
		"missing percentage": `{"verdict": "partial_refund", "reason": "x"}`,
		"percentage too big": `{"verdict": "partial_refund", "refundPercentage": 130, "reason": "x"}`,
		"negative":           `{"verdict": "partial_refund", "refundPercentage": -5, "reason": "x"}`,
		"empty reason":       `{"verdict": "partial_refund", "refundPercentage": 30, "reason": ""}`,
		"broken json":        `{"verdict": "partial_refund", "refundPercentage": 30,`,
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, geminiReply(text))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key", "test-model", time.Second)
			dispute, dctx, baseline := testCase()

			refined, err := client.Refine(context.Background(), dispute, dctx, baseline)
			if refined != nil {
				t.Fatalf("expected nil verdict, got %+v", refined)
			}
			if !errors.Is(err, domain.ErrAdjudicatorUnavailable) {
				t.Errorf("expected ErrAdjudicatorUnavailable, got %v", err)
			}
		})
	}
}

func TestRefine_HTTPFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", time.Second)
	dispute, dctx, baseline := testCase()

	if _, err := client.Refine(context.Background(), dispute, dctx, baseline); !errors.Is(err, domain.ErrAdjudicatorUnavailable) {
		t.Errorf("expected ErrAdjudicatorUnavailable, got %v", err)
	}
}

func TestRefine_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, geminiReply(`{"verdict": "no_refund", "refundPercentage": 0, "reason": "late"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", 50*time.Millisecond)
	dispute, dctx, baseline := testCase()

	if _, err := client.Refine(context.Background(), dispute, dctx, baseline); !errors.Is(err, domain.ErrAdjudicatorUnavailable) {
		t.Errorf("expected ErrAdjudicatorUnavailable, got %v", err)
	}
}
