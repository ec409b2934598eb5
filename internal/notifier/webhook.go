// Package notifier posts moderation alerts to a configured webhook when a
// deal lands in the review queue.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dealhive/dealhive-backend/internal/models"
	"github.com/dealhive/dealhive-backend/internal/util"
)

const (
	alertAttempts = 3
	alertBackoff  = 2 * time.Second
)

type Client struct {
	webhookURL string
	client     *http.Client
}

// New builds a webhook notifier. An empty URL disables alerts; every call
// becomes a no-op.
func New(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type reviewAlert struct {
	DealID     string `json:"dealId"`
	Title      string `json:"title"`
	StoreName  string `json:"storeName"`
	Verdict    string `json:"verdict"`
	Confidence int    `json:"confidence"`
	Summary    string `json:"summary"`
}

// NotifyPendingReview posts a review-queue alert for the deal. Callers are
// expected to run this off the request path; it retries with backoff on
// transport and 5xx failures.
func (c *Client) NotifyPendingReview(ctx context.Context, deal models.Deal) error {
	if c == nil || c.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(reviewAlert{
		DealID:     deal.ID,
		Title:      deal.Title,
		StoreName:  deal.Store.Name,
		Verdict:    deal.AIReview.Verdict,
		Confidence: deal.AIReview.Confidence,
		Summary:    deal.AIReview.Summary,
	})
	if err != nil {
		return fmt.Errorf("marshaling review alert: %w", err)
	}

	return util.Backoff(ctx, alertAttempts, alertBackoff, func() error {
		return c.post(ctx, payload)
	})
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting review alert: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("review alert webhook returned status %d", resp.StatusCode)
	}
	return nil
}
