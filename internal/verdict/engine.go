package verdict

import "math"

// Category is the ruling of a verdict.
type Category string

const (
	FullRefund    Category = "full_refund"
	PartialRefund Category = "partial_refund"
	NoRefund      Category = "no_refund"
	Negotiation   Category = "negotiation"
)

// KnownCategory reports whether c is a category this engine understands.
// Used to reject malformed external refinements.
func KnownCategory(c Category) bool {
	switch c {
	case FullRefund, PartialRefund, NoRefund, Negotiation:
		return true
	}
	return false
}

// Verdict is a complete ruling. Every branch of the engine sets both
// RefundPercentage and RefundAmount so a baseline never lacks a monetary
// outcome when external refinement is unavailable.
type Verdict struct {
	Category         Category `json:"verdict"`
	RefundAmount     int64    `json:"refundAmount"`
	RefundPercentage int      `json:"refundPercentage"`
	Reason           string   `json:"reason"`
	LegalBasis       string   `json:"legalBasis,omitempty"`
	Recommendations  []string `json:"recommendations"`
	Confidence       string   `json:"confidence,omitempty"`
}

// A mismatch claim is honored in full when filed within three months of the
// order date.
const mismatchWindowMonths = 3

// RefundFor computes the refund for a percentage of the dispute amount,
// clamped to [0, amount].
func RefundFor(amount int64, percentage int) int64 {
	refund := int64(math.Round(float64(amount) * float64(percentage) / 100))
	if refund < 0 {
		return 0
	}
	if refund > amount {
		return amount
	}
	return refund
}

// Analyze produces the baseline ruling for a case. It is deterministic and
// total: rules are evaluated in priority order, the first match wins, and the
// final rule catches everything else.
func Analyze(ctx DecisionContext) Verdict {
	amount := ctx.Contract.TotalAmount

	// Rule 1: nothing has been performed yet, the buyer walks away whole.
	if ctx.ServiceStage == StageBeforeStart {
		return Verdict{
			Category:         FullRefund,
			RefundAmount:     RefundFor(amount, 100),
			RefundPercentage: 100,
			Reason:           "The service had not been started, so a full refund is available.",
			LegalBasis:       "Article 17 of the Act on Consumer Protection in Electronic Commerce",
			Recommendations: []string{
				"The seller is advised to contract more carefully in the future.",
			},
		}
	}

	// Rule 2: advertised vs. actual mismatch, honored regardless of stage
	// while inside the statutory window.
	if ctx.DisputeType == DisputeMismatch && withinMismatchWindow(ctx) {
		return Verdict{
			Category:         FullRefund,
			RefundAmount:     RefundFor(amount, 100),
			RefundPercentage: 100,
			Reason:           "The service differs from what was advertised, so a full refund is available within three months of the order.",
			LegalBasis:       "Article 17(3) of the Act on Consumer Protection in Electronic Commerce",
			Recommendations: []string{
				"Compare the listing description against what was actually delivered.",
			},
		}
	}

	// Rule 3: divisible work in flight is refunded for the unexecuted part.
	if ctx.ServiceType.Divisible() &&
		(ctx.ServiceStage == StageInProgress || ctx.ServiceStage == StageRevision) {
		pct := 100 - ctx.Progress.Percentage
		return Verdict{
			Category:         PartialRefund,
			RefundAmount:     RefundFor(amount, pct),
			RefundPercentage: pct,
			Reason:           "The service is divisible; the portion not yet performed is refundable.",
			LegalBasis:       "Article 17(2) of the Act on Consumer Protection in Electronic Commerce",
			Recommendations: []string{
				"Settle based on the recorded progress.",
				"Hand over the completed part of the work.",
			},
		}
	}

	// Rule 4: an atomic service cannot be fractionally refunded by rule once
	// performance has begun.
	if !ctx.ServiceType.Divisible() && ctx.ServiceStage.rank() >= StageInProgress.rank() {
		return Verdict{
			Category:         Negotiation,
			RefundAmount:     0,
			RefundPercentage: 0,
			Reason:           "The service is indivisible and performance has begun; a rule-based refund is not available.",
			LegalBasis:       "Article 17(2) of the Act on Consumer Protection in Electronic Commerce",
			Recommendations: []string{
				"Negotiate directly with the other party.",
				"Seller fault can be raised with an administrator.",
			},
		}
	}

	// Rule 5: after purchase confirmation the parties must negotiate.
	if ctx.ServiceStage == StageCompleted {
		return Verdict{
			Category:         Negotiation,
			RefundAmount:     0,
			RefundPercentage: 0,
			Reason:           "The purchase has been confirmed; disputes after confirmation require direct negotiation.",
			LegalBasis:       "Article 544 of the Civil Act (rescission of contract)",
			Recommendations: []string{
				"Negotiation between the parties is the rule after confirmation.",
				"Request administrator mediation if no agreement is reached.",
			},
		}
	}

	// Rule 6: ambiguous case, split the difference and flag for review.
	return Verdict{
		Category:         PartialRefund,
		RefundAmount:     RefundFor(amount, 50),
		RefundPercentage: 50,
		Reason:           "The case is ambiguous under the standard rules; an even split is proposed.",
		Recommendations: []string{
			"Submit additional evidence.",
			"Request administrator mediation if either party objects.",
		},
	}
}

func withinMismatchWindow(ctx DecisionContext) bool {
	deadline := ctx.OrderCreatedAt.AddDate(0, mismatchWindowMonths, 0)
	return !ctx.FiledAt.After(deadline)
}
