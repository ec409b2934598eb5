package dedupe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dealhive/dealhive-backend/internal/models"
)

type fakeLister struct {
	deals []models.Deal
	err   error
}

func (f *fakeLister) DealsByStore(_ context.Context, _ string) ([]models.Deal, error) {
	return f.deals, f.err
}

func newTestFinder(deals []models.Deal) *Finder {
	f := New(&fakeLister{deals: deals})
	f.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestFind_EmptyStoreIDSkipsScan(t *testing.T) {
	f := New(&fakeLister{err: errors.New("should not be called")})
	matches, err := f.Find(context.Background(), "", Candidate{Code: "SAVE30"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestFind_CapsAtFiveMatches(t *testing.T) {
	var deals []models.Deal
	for i := 0; i < 8; i++ {
		deals = append(deals, models.Deal{
			ID:     fmt.Sprintf("deal-%d", i),
			Title:  fmt.Sprintf("Deal %d", i),
			Code:   "SAVE30",
			Status: models.StatusNewlyAdded,
		})
	}

	f := newTestFinder(deals)
	matches, err := f.Find(context.Background(), "store-1", Candidate{Code: "save30"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(matches) != MaxMatches {
		t.Errorf("expected exactly %d matches, got %d", MaxMatches, len(matches))
	}
}

func TestFind_ExcludesExpiredDeals(t *testing.T) {
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deals := []models.Deal{
		{ID: "expired-status", Title: "A", Code: "SAVE30", Status: models.StatusExpired},
		{ID: "expired-timestamp", Title: "B", Code: "SAVE30", Status: models.StatusNewlyAdded, ExpiresAt: past},
		{ID: "live", Title: "C", Code: "SAVE30", Status: models.StatusNewlyAdded},
	}

	f := newTestFinder(deals)
	matches, err := f.Find(context.Background(), "store-1", Candidate{Code: "SAVE30"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].DealID != "live" {
		t.Errorf("expected match on live deal, got %s", matches[0].DealID)
	}
}

func TestFind_CodeTakesPrecedenceOverTitle(t *testing.T) {
	deals := []models.Deal{
		{
			ID:      "deal-1",
			Title:   "50% Off Winter Boots",
			Code:    "WINTER50",
			DealURL: "https://store.com/winter",
			Status:  models.StatusNewlyAdded,
		},
	}

	f := newTestFinder(deals)
	cand := Candidate{
		Title: "50% Off Winter Boots",
		Code:  "winter50",
		URL:   "https://store.com/winter",
	}
	matches, err := f.Find(context.Background(), "store-1", cand)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Reason != ReasonSameCode {
		t.Errorf("reason = %q, want %q", matches[0].Reason, ReasonSameCode)
	}
}

func TestFind_URLTakesPrecedenceOverTitle(t *testing.T) {
	deals := []models.Deal{
		{
			ID:      "deal-1",
			Title:   "50% Off Winter Boots",
			DealURL: "https://store.com/deal",
			Status:  models.StatusNewlyAdded,
		},
	}

	f := newTestFinder(deals)
	cand := Candidate{
		Title: "50% Off Winter Boots",
		URL:   "https://store.com/deal/?x=1",
	}
	matches, err := f.Find(context.Background(), "store-1", cand)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Reason != ReasonSameURL {
		t.Errorf("reason = %q, want %q", matches[0].Reason, ReasonSameURL)
	}
}

func TestFind_PropagatesListError(t *testing.T) {
	boom := errors.New("firestore down")
	f := New(&fakeLister{err: boom})
	_, err := f.Find(context.Background(), "store-1", Candidate{Code: "SAVE30"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped list error, got %v", err)
	}
}

func TestTitleOverlap(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantMatch bool
	}{
		{
			name:      "75 percent overlap matches",
			a:         "50% Off Winter Boots",
			b:         "50% Off Winter Coats",
			wantMatch: true,
		},
		{
			name:      "Identical titles match",
			a:         "Free Shipping On Everything",
			b:         "free shipping on everything",
			wantMatch: true,
		},
		{
			name:      "No shared words",
			a:         "50% Off Boots",
			b:         "Buy One Get One Free",
			wantMatch: false,
		},
		{
			name:      "Half overlap does not match",
			a:         "50% Off Boots Today",
			b:         "50% Off Gloves Tomorrow",
			wantMatch: false,
		},
		{
			name:      "Empty candidate title",
			a:         "",
			b:         "50% Off Boots",
			wantMatch: false,
		},
		{
			name:      "Both titles empty",
			a:         "   ",
			b:         "",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titleOverlap(tt.a, tt.b) >= titleOverlapThreshold
			if got != tt.wantMatch {
				t.Errorf("titleOverlap(%q, %q) = %v, wantMatch %v (overlap %.2f)",
					tt.a, tt.b, got, tt.wantMatch, titleOverlap(tt.a, tt.b))
			}
		})
	}
}
