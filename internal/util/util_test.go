package util

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Simple name",
			input: "Example Shop",
			want:  "example-shop",
		},
		{
			name:  "Punctuation collapsed",
			input: "50% Off -- Winter Boots!",
			want:  "50-off-winter-boots",
		},
		{
			name:  "Leading and trailing junk",
			input: "  ***Deals*** ",
			want:  "deals",
		},
		{
			name:  "Already a slug",
			input: "example-shop",
			want:  "example-shop",
		},
		{
			name:  "Long input capped at 80",
			input: strings.Repeat("shop ", 30),
			want:  strings.TrimSuffix(strings.Repeat("shop-", 16), "-"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) > 80 {
				t.Errorf("Slugify(%q) produced %d chars, max is 80", tt.input, len(got))
			}
		})
	}
}

func TestDealSlug(t *testing.T) {
	got := DealSlug("30% Off Sitewide", "example-shop")
	want := "30-off-sitewide-example-shop"
	if got != want {
		t.Errorf("DealSlug() = %q, want %q", got, want)
	}
}

func TestNormalizeDealURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Query string dropped",
			input: "https://store.com/deal/?x=1",
			want:  "https://store.com/deal",
		},
		{
			name:  "Trailing slash stripped",
			input: "https://store.com/deal/",
			want:  "https://store.com/deal",
		},
		{
			name:  "Lowercased",
			input: "https://Store.com/Deal",
			want:  "https://store.com/deal",
		},
		{
			name:  "Fragment dropped",
			input: "https://store.com/deal#top",
			want:  "https://store.com/deal",
		},
		{
			name:  "No host falls back to lowercase trim",
			input: "  not a real url  ",
			want:  "not a real url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDealURL(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDealURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDealURL_MatchPair(t *testing.T) {
	a := NormalizeDealURL("https://store.com/deal/?x=1")
	b := NormalizeDealURL("https://store.com/deal")
	if a != b {
		t.Errorf("expected %q and %q to normalize identically, got %q vs %q",
			"https://store.com/deal/?x=1", "https://store.com/deal", a, b)
	}
}

func TestBackoff_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Backoff(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Backoff() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestBackoff_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := Backoff(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Backoff() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBackoff_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	err := Backoff(context.Background(), 2, time.Millisecond, func() error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom error, got %v", err)
	}
}

func TestBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Backoff(ctx, 3, time.Minute, func() error {
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
