package adjudicator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/verdict"
)

const defaultTimeout = 20 * time.Second

// Client calls a generative reasoning API to refine a baseline ruling. Every
// failure mode resolves to (nil, error); the caller falls back to the
// baseline and never blocks past the internal timeout.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// refinement is the structured payload the model is asked to answer with.
// RefundPercentage is a pointer so an absent field is distinguishable from 0.
type refinement struct {
	Verdict          string   `json:"verdict"`
	RefundPercentage *float64 `json:"refundPercentage"`
	Reason           string   `json:"reason"`
	Recommendations  []string `json:"recommendations"`
}

// Refine asks the external adjudicator to review the baseline ruling.
// The returned verdict carries a refund percentage only; the caller
// recomputes the refund amount from the dispute amount.
func (c *Client) Refine(ctx context.Context, dispute *domain.Dispute, dctx verdict.DecisionContext, baseline verdict.Verdict) (*verdict.Verdict, error) {
	prompt := buildPrompt(dispute, dctx, baseline)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrAdjudicatorUnavailable, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrAdjudicatorUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAdjudicatorUnavailable, err)
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrAdjudicatorUnavailable, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrAdjudicatorUnavailable, response.StatusCode)
	}

	var generated generateResponse
	if err := json.Unmarshal(responseBodyBytes, &generated); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrAdjudicatorUnavailable, err)
	}
	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrAdjudicatorUnavailable)
	}

	refined := parseRefinement(generated.Candidates[0].Content.Parts[0].Text)
	if refined == nil {
		return nil, fmt.Errorf("%w: malformed refinement payload", domain.ErrAdjudicatorUnavailable)
	}
	return refined, nil
}

// parseRefinement scans the model output for the first well-formed JSON
// payload. A field that is absent, mistyped, or out of range makes the whole
// payload invalid; nothing is partially trusted.
func parseRefinement(text string) *verdict.Verdict {
	firstBrace := strings.Index(text, "{")
	lastBrace := strings.LastIndex(text, "}")
	if firstBrace == -1 || lastBrace <= firstBrace {
		return nil
	}

	var parsed refinement
	if err := json.Unmarshal([]byte(text[firstBrace:lastBrace+1]), &parsed); err != nil {
		return nil
	}

	category := verdict.Category(parsed.Verdict)
	if !verdict.KnownCategory(category) {
		return nil
	}
	if parsed.RefundPercentage == nil {
		return nil
	}
	pct := int(*parsed.RefundPercentage)
	if pct < 0 || pct > 100 {
		return nil
	}
	if parsed.Reason == "" {
		return nil
	}

	recommendations := parsed.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return &verdict.Verdict{
		Category:         category,
		RefundPercentage: pct,
		Reason:           parsed.Reason,
		Recommendations:  recommendations,
		Confidence:       "high",
	}
}

func buildPrompt(dispute *domain.Dispute, dctx verdict.DecisionContext, baseline verdict.Verdict) string {
	defendantResponse := dctx.Claims.Defendant
	if defendantResponse == "" {
		defendantResponse = "(no response)"
	}

	var b strings.Builder
	b.WriteString("You are the AI dispute adjudicator of the Dolpagu marketplace. Review the case below and decide a verdict.\n\n")
	b.WriteString("## Case\n")
	fmt.Fprintf(&b, "- Case number: %s\n", dispute.CaseNumber)
	fmt.Fprintf(&b, "- Disputed amount: %d KRW\n", dispute.DisputeAmount)
	fmt.Fprintf(&b, "- Dispute type: %s\n", dctx.DisputeType)
	fmt.Fprintf(&b, "- Service type: %s\n", dctx.ServiceType)
	fmt.Fprintf(&b, "- Service stage: %s\n\n", dctx.ServiceStage)
	fmt.Fprintf(&b, "## Plaintiff's claim (%s)\n%s\n\n", dctx.PlaintiffRole, dctx.Claims.Plaintiff)
	fmt.Fprintf(&b, "## Defendant's response\n%s\n\n", defendantResponse)
	b.WriteString("## Baseline ruling (rule engine)\n")
	fmt.Fprintf(&b, "- Verdict: %s\n", baseline.Category)
	fmt.Fprintf(&b, "- Refund: %d%%\n", baseline.RefundPercentage)
	fmt.Fprintf(&b, "- Reason: %s\n\n", baseline.Reason)
	b.WriteString("## Legal baseline\n")
	b.WriteString("1. Before the service starts: full refund available\n")
	b.WriteString("2. Divisible service in progress: the unperformed portion is refundable\n")
	b.WriteString("3. Indivisible service in progress: no rule-based refund, negotiation required\n")
	b.WriteString("4. Advertised vs. actual mismatch: cancellable within 3 months\n")
	b.WriteString("5. After purchase confirmation: negotiation between the parties\n\n")
	b.WriteString("## Instructions\n")
	b.WriteString("Evaluate whether the baseline ruling is appropriate, weigh both claims, and answer in JSON only:\n")
	b.WriteString(`{"verdict": "full_refund|partial_refund|no_refund|negotiation", "refundPercentage": 0-100, "reason": "...", "recommendations": ["..."]}`)
	b.WriteString("\n")
	return b.String()
}
