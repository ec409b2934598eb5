// Package ai evaluates deal submissions with Gemini and parses the verdict
// the model returns.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dealhive/dealhive-backend/internal/models"
)

const (
	evaluationTemperature = 0.2
	maxOutputTokens       = 500

	// UnavailableSummary is the summary attached to fallback verdicts when
	// the model could not be reached or its reply could not be parsed.
	UnavailableSummary = "AI evaluation was unavailable; submission was routed for manual review."
)

const systemInstruction = "You are a strict content moderator for a consumer deals website. " +
	"You review user-submitted deals for legitimacy and spam. Respond with a single JSON object and nothing else."

// DealFields are the human-entered fields the evaluator judges, merged with
// the resolved store's name and domain.
type DealFields struct {
	Title         string
	Description   string
	StoreName     string
	StoreDomain   string
	Code          string
	SavingsAmount string
	SavingsType   string
	DealURL       string
	Conditions    string
}

type Client struct {
	client  *genai.Client
	modelID string
}

// NewClient builds a Gemini-backed evaluator. An empty API key returns a nil
// client; a nil client degrades gracefully by reporting every evaluation as
// unavailable, which the router turns into a manual-review verdict.
func NewClient(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{client: client, modelID: modelID}, nil
}

// Evaluate asks the model for a quality verdict on the submitted fields.
// It returns an error for any failure (unconfigured client, transport,
// empty reply, unparseable JSON); the caller decides the recovery policy.
func (c *Client) Evaluate(ctx context.Context, fields DealFields) (models.AIReview, error) {
	if c == nil || c.client == nil {
		return models.AIReview{}, fmt.Errorf("gemini client is not configured")
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelID,
		genai.Text(buildPrompt(fields)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](evaluationTemperature),
			MaxOutputTokens:   maxOutputTokens,
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		return models.AIReview{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return models.AIReview{}, fmt.Errorf("empty gemini response")
	}

	review, err := parseVerdict(text)
	if err != nil {
		return models.AIReview{}, fmt.Errorf("parsing gemini verdict: %w", err)
	}
	return review, nil
}

// FallbackVerdict is the fixed safe verdict substituted when evaluation
// fails for any reason. It always routes to manual review: an LLM outage
// must never auto-approve or hard-reject a submission.
func FallbackVerdict(summary string) models.AIReview {
	return models.AIReview{
		Verdict:         models.VerdictNeedsReview,
		Confidence:      50,
		LegitimacyScore: 50,
		SpamScore:       50,
		Reasons:         []string{"AI evaluation did not complete"},
		Summary:         summary,
	}
}

func buildPrompt(f DealFields) string {
	return fmt.Sprintf(`Evaluate this user-submitted deal for a consumer deals website.

Title: %s
Description: %s
Store: %s (%s)
Promo code: %s
Savings: %s %s
Deal URL: %s
Conditions: %s

Score the deal and return a JSON object with exactly these keys:
- "verdict": "approved", "needs_review" or "rejected". Use "approved" when confidence is 70 or above, "needs_review" between 40 and 70, "rejected" below 40.
- "confidence": 0-100, how confident you are this is a legitimate, publishable deal.
- "legitimacyScore": 0-100. Penalize vague descriptions, stores that do not appear real, and too-good-to-be-true offers.
- "spamScore": 0-100. Spam indicators include unrealistic discounts, suspicious URLs, and generic filler text.
- "reasons": an ordered list of short strings explaining the scores.
- "summary": one sentence summarizing your judgement.`,
		f.Title, f.Description, f.StoreName, f.StoreDomain,
		orNone(f.Code), f.SavingsAmount, f.SavingsType, f.DealURL, orNone(f.Conditions))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

// rawVerdict mirrors the model's JSON with optional fields so each one can
// be defaulted independently.
type rawVerdict struct {
	Verdict         *string  `json:"verdict"`
	Confidence      *float64 `json:"confidence"`
	LegitimacyScore *float64 `json:"legitimacyScore"`
	SpamScore       *float64 `json:"spamScore"`
	Reasons         []string `json:"reasons"`
	Summary         *string  `json:"summary"`
}

// parseVerdict cleans the raw model reply and parses it, defaulting any
// missing or malformed field. Only a reply with no parseable JSON object at
// all is an error.
func parseVerdict(text string) (models.AIReview, error) {
	cleaned := cleanResponse(text)

	var raw rawVerdict
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return models.AIReview{}, fmt.Errorf("unmarshaling verdict: %w", err)
	}

	review := models.AIReview{
		Verdict:         models.VerdictNeedsReview,
		Confidence:      50,
		LegitimacyScore: 50,
		SpamScore:       50,
		Reasons:         []string{"No reasons provided by the evaluator"},
		Summary:         "The evaluator returned no summary; defaulting to manual review.",
	}

	if raw.Verdict != nil {
		switch *raw.Verdict {
		case models.VerdictApproved, models.VerdictNeedsReview, models.VerdictRejected:
			review.Verdict = *raw.Verdict
		}
	}
	if raw.Confidence != nil {
		review.Confidence = clampScore(*raw.Confidence)
	}
	if raw.LegitimacyScore != nil {
		review.LegitimacyScore = clampScore(*raw.LegitimacyScore)
	}
	if raw.SpamScore != nil {
		review.SpamScore = clampScore(*raw.SpamScore)
	}
	if len(raw.Reasons) > 0 {
		review.Reasons = raw.Reasons
	}
	if raw.Summary != nil && strings.TrimSpace(*raw.Summary) != "" {
		review.Summary = *raw.Summary
	}
	return review, nil
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// cleanResponse strips a surrounding markdown code fence (optionally tagged
// "json") and any leading/trailing prose, keeping the substring between the
// first '{' and the last '}'.
func cleanResponse(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}
