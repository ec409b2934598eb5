// Package dedupe scans a store's existing deals for likely duplicates of a
// candidate submission.
package dedupe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealhive/dealhive-backend/internal/models"
	"github.com/dealhive/dealhive-backend/internal/util"
)

// MaxMatches caps both the scan work and the result size.
const MaxMatches = 5

// titleOverlapThreshold is the word-set overlap at which two titles are
// considered the same deal.
const titleOverlapThreshold = 0.70

// Match reasons, in precedence order. A record contributes at most one.
const (
	ReasonSameCode     = "Same promo code"
	ReasonSameURL      = "Same deal URL"
	ReasonSimilarTitle = "Very similar title"
)

// DealLister abstracts the storage read the finder needs.
type DealLister interface {
	DealsByStore(ctx context.Context, storeID string) ([]models.Deal, error)
}

// Candidate carries the comparable fields of a submission. All fields are
// optional; an empty field simply never matches.
type Candidate struct {
	Title string
	Code  string
	URL   string
}

type Finder struct {
	deals DealLister
	now   func() time.Time
}

func New(deals DealLister) *Finder {
	return &Finder{deals: deals, now: time.Now}
}

// Find returns up to MaxMatches duplicate matches among the store's
// non-expired deals. An empty storeID returns no matches without scanning;
// duplicate checking for a store that doesn't exist yet is skipped entirely.
func (f *Finder) Find(ctx context.Context, storeID string, cand Candidate) ([]models.DuplicateMatch, error) {
	if storeID == "" {
		return nil, nil
	}

	deals, err := f.deals.DealsByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("listing deals for store %s: %w", storeID, err)
	}

	now := f.now()
	var matches []models.DuplicateMatch
	for _, d := range deals {
		if len(matches) >= MaxMatches {
			break
		}
		if d.Status == models.StatusExpired || (!d.ExpiresAt.IsZero() && d.ExpiresAt.Before(now)) {
			continue
		}
		reason := matchReason(cand, d)
		if reason == "" {
			continue
		}
		matches = append(matches, models.DuplicateMatch{
			DealID: d.ID,
			Title:  d.Title,
			Reason: reason,
		})
	}
	return matches, nil
}

// matchReason evaluates the match rules in precedence order (code > URL >
// title) and returns the first that applies, or "" for no match.
func matchReason(cand Candidate, d models.Deal) string {
	if cand.Code != "" && d.Code != "" && strings.EqualFold(cand.Code, d.Code) {
		return ReasonSameCode
	}
	if cand.URL != "" && d.DealURL != "" &&
		util.NormalizeDealURL(cand.URL) == util.NormalizeDealURL(d.DealURL) {
		return ReasonSameURL
	}
	if titleOverlap(cand.Title, d.Title) >= titleOverlapThreshold {
		return ReasonSimilarTitle
	}
	return ""
}

// titleOverlap computes |intersection| / max(|A|, |B|) over the two titles'
// case-insensitive word sets. Either side tokenizing to nothing gives 0.
func titleOverlap(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(shared) / float64(larger)
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(strings.ToLower(s))
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
