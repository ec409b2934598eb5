package submission

import (
	"context"

	"github.com/dealhive/dealhive-backend/internal/ai"
	"github.com/dealhive/dealhive-backend/internal/dedupe"
	"github.com/dealhive/dealhive-backend/internal/models"
)

// StoreRepository abstracts store persistence.
type StoreRepository interface {
	GetStoreByID(ctx context.Context, id string) (*models.Store, error)
	GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error)
	CreateStore(ctx context.Context, store models.Store) (string, error)
	IncrementStoreActiveDeals(ctx context.Context, id string) error
}

// DealRepository abstracts deal persistence.
type DealRepository interface {
	CreateDeal(ctx context.Context, deal models.Deal) (string, error)
	GetDealByID(ctx context.Context, id string) (*models.Deal, error)
	UpdateDeal(ctx context.Context, deal models.Deal) error
}

// DuplicateFinder scans a store's existing deals for duplicates of a
// candidate.
type DuplicateFinder interface {
	Find(ctx context.Context, storeID string, cand dedupe.Candidate) ([]models.DuplicateMatch, error)
}

// QualityEvaluator produces an AI verdict for the submitted fields. The
// router applies FailToManualReview when it errors.
type QualityEvaluator interface {
	Evaluate(ctx context.Context, fields ai.DealFields) (models.AIReview, error)
}

// ReviewNotifier alerts moderators about deals routed to the review queue.
type ReviewNotifier interface {
	NotifyPendingReview(ctx context.Context, deal models.Deal) error
}

// PreviewFetcher resolves a page image for submissions that carry none.
type PreviewFetcher interface {
	FetchImageURL(ctx context.Context, pageURL string) (string, error)
}
