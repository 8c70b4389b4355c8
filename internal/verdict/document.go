package verdict

import (
	"fmt"
	"strings"
	"time"
)

// PartyInfo is the display identity of one side of the case.
type PartyInfo struct {
	Name string
	Role string
}

var categoryHeadlines = map[Category]string{
	FullRefund:    "Full refund",
	PartialRefund: "Partial refund",
	NoRefund:      "No refund",
	Negotiation:   "Negotiated settlement recommended",
}

var confidenceLabels = map[string]string{
	"high":   "high ***",
	"medium": "medium **",
	"low":    "low *",
}

const documentRule = "───────────────────────────────────────────────────────────────"
const documentEdge = "═══════════════════════════════════════════════════════════════"

// RenderDocument renders the immutable adjudication record for a decided
// case. Rendering never fails: missing names degrade to role placeholders.
func RenderDocument(caseNumber string, plaintiff, defendant PartyInfo, ctx DecisionContext, v Verdict, issuedAt time.Time) string {
	if plaintiff.Name == "" {
		plaintiff.Name = "Plaintiff"
	}
	if defendant.Name == "" {
		defendant.Name = "Defendant"
	}

	headline, ok := categoryHeadlines[v.Category]
	if !ok {
		headline = string(v.Category)
	}

	var b strings.Builder
	b.WriteString(documentEdge + "\n")
	b.WriteString("                    AI Adjudicator Verdict\n")
	b.WriteString(documentEdge + "\n\n")
	fmt.Fprintf(&b, "Case number: %s\n", caseNumber)
	fmt.Fprintf(&b, "Decided on:  %s\n\n", issuedAt.Format("January 2, 2006"))

	b.WriteString(documentRule + "\n")
	b.WriteString("Parties\n")
	b.WriteString(documentRule + "\n")
	fmt.Fprintf(&b, "  Plaintiff (%s): %s\n", plaintiff.Role, plaintiff.Name)
	fmt.Fprintf(&b, "  Defendant (%s): %s\n\n", defendant.Role, defendant.Name)

	b.WriteString(documentRule + "\n")
	b.WriteString("Case summary\n")
	b.WriteString(documentRule + "\n")
	fmt.Fprintf(&b, "  Service type:   %s\n", ctx.ServiceType)
	fmt.Fprintf(&b, "  Dispute type:   %s\n", DisputeTypeName(ctx.DisputeType))
	fmt.Fprintf(&b, "  Disputed sum:   %d KRW\n", ctx.Contract.TotalAmount)
	fmt.Fprintf(&b, "  Service stage:  %s\n\n", ctx.ServiceStage)

	b.WriteString(documentRule + "\n")
	b.WriteString("Ruling\n")
	b.WriteString(documentRule + "\n")
	fmt.Fprintf(&b, "  %s\n", headline)
	if v.RefundAmount > 0 {
		fmt.Fprintf(&b, "  Refund: %d KRW (%d%%)\n", v.RefundAmount, v.RefundPercentage)
	}
	b.WriteString("\n")

	b.WriteString(documentRule + "\n")
	b.WriteString("Reasoning\n")
	b.WriteString(documentRule + "\n")
	fmt.Fprintf(&b, "  %s\n", v.Reason)
	if v.LegalBasis != "" {
		fmt.Fprintf(&b, "\n  Applicable rule: %s\n", v.LegalBasis)
	}
	b.WriteString("\n")

	if len(v.Recommendations) > 0 {
		b.WriteString(documentRule + "\n")
		b.WriteString("Recommendations\n")
		b.WriteString(documentRule + "\n")
		for i, rec := range v.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	if v.Confidence != "" {
		label, ok := confidenceLabels[v.Confidence]
		if !ok {
			label = v.Confidence
		}
		fmt.Fprintf(&b, "Verdict confidence: %s\n\n", label)
	}

	b.WriteString("Either party may appeal this verdict within 24 hours.\n")
	b.WriteString("Appeals are reviewed directly by an administrator.\n")
	b.WriteString(documentEdge + "\n")

	return b.String()
}
