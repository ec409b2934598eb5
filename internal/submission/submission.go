// Package submission routes candidate deals through duplicate detection and
// AI quality evaluation into persisted deals.
package submission

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dealhive/dealhive-backend/internal/ai"
	"github.com/dealhive/dealhive-backend/internal/dedupe"
	"github.com/dealhive/dealhive-backend/internal/models"
	"github.com/dealhive/dealhive-backend/internal/util"
)

// FailurePolicy names the recovery direction taken when a collaborator call
// fails. The two directions are deliberately different and must never be
// swapped: a datastore hiccup lets submissions through, an LLM outage sends
// them to a human.
type FailurePolicy int

const (
	// FailOpen treats a failed duplicate scan as zero matches so the
	// pipeline never blocks submissions on a datastore error.
	FailOpen FailurePolicy = iota
	// FailToManualReview substitutes the fixed fallback verdict so a failed
	// evaluation can neither auto-approve nor hard-reject.
	FailToManualReview
)

// ApproveConfidence is the minimum verdict confidence for immediate
// publication.
const ApproveConfidence = 70

// Coarse response statuses returned to the caller.
const (
	StatusApproved    = "approved"
	StatusNeedsReview = "needs_review"
	StatusDuplicate   = "duplicate"
)

// Result is the outcome of a submission.
type Result struct {
	Status       string
	DealID       string
	Verdict      models.AIReview
	Matches      []models.DuplicateMatch
	StoreCreated bool
}

// EditRequest carries an edit-and-resubmit. Nil content fields are left
// untouched.
type EditRequest struct {
	DealID string
	UserID string

	Title         *string
	Description   *string
	Code          *string
	DealURL       *string
	SavingsAmount *string
	Conditions    *string
	ImageURL      *string
}

// EditResult is the outcome of an edit-and-resubmit.
type EditResult struct {
	Status string
	Review models.AIReview
}

// Options tune the service.
type Options struct {
	// AITimeout bounds each quality-evaluation call. Zero means no bound.
	AITimeout time.Duration
}

type Service struct {
	stores    StoreRepository
	deals     DealRepository
	finder    DuplicateFinder
	evaluator QualityEvaluator
	notifier  ReviewNotifier
	preview   PreviewFetcher
	opts      Options

	// storeCreate serializes same-slug store creation within this process;
	// Firestore offers no unique-slug constraint to lean on. Cross-instance
	// races remain possible and are accepted.
	storeCreate singleflight.Group

	dupScanPolicy FailurePolicy
	evalPolicy    FailurePolicy
}

func New(stores StoreRepository, deals DealRepository, finder DuplicateFinder, evaluator QualityEvaluator, notifier ReviewNotifier, preview PreviewFetcher, opts Options) *Service {
	return &Service{
		stores:        stores,
		deals:         deals,
		finder:        finder,
		evaluator:     evaluator,
		notifier:      notifier,
		preview:       preview,
		opts:          opts,
		dupScanPolicy: FailOpen,
		evalPolicy:    FailToManualReview,
	}
}

// Submit runs the full pipeline: resolve store, check duplicates, evaluate
// quality, persist. A duplicate result is a normal terminal outcome, not an
// error.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (*Result, error) {
	store, storeCreated, err := s.resolveStore(ctx, sub)
	if err != nil {
		return nil, err
	}

	matches, err := s.finder.Find(ctx, store.ID, dedupe.Candidate{
		Title: sub.Title,
		Code:  sub.Code,
		URL:   sub.DealURL,
	})
	if err != nil && s.dupScanPolicy == FailOpen {
		slog.Warn("Duplicate scan failed, continuing without matches", "store", store.ID, "error", err)
		matches = nil
	}
	if len(matches) > 0 {
		// Nothing is persisted for a duplicate; a store created above stays.
		return &Result{Status: StatusDuplicate, Matches: matches, StoreCreated: storeCreated}, nil
	}

	verdict := s.evaluate(ctx, ai.DealFields{
		Title:         sub.Title,
		Description:   sub.Description,
		StoreName:     store.Name,
		StoreDomain:   store.Domain,
		Code:          sub.Code,
		SavingsAmount: sub.SavingsAmount,
		SavingsType:   sub.SavingsType,
		DealURL:       sub.DealURL,
		Conditions:    sub.Conditions,
	})

	deal := buildDeal(sub, store, verdict)

	if deal.ImageURL == "" && s.preview != nil {
		if img, err := s.preview.FetchImageURL(ctx, deal.DealURL); err == nil && img != "" {
			deal.ImageURL = img
		}
	}

	id, err := s.deals.CreateDeal(ctx, deal)
	if err != nil {
		return nil, fmt.Errorf("creating deal: %w", err)
	}
	deal.ID = id

	if err := s.stores.IncrementStoreActiveDeals(ctx, store.ID); err != nil {
		return nil, fmt.Errorf("incrementing active deals for store %s: %w", store.ID, err)
	}

	status := StatusNeedsReview
	if deal.Status == models.StatusNewlyAdded {
		status = StatusApproved
	} else {
		s.alertModerators(deal)
	}

	slog.Info("Deal submitted", "deal", id, "store", store.ID, "status", deal.Status, "confidence", verdict.Confidence)
	return &Result{
		Status:       status,
		DealID:       id,
		Verdict:      verdict,
		StoreCreated: storeCreated,
	}, nil
}

// Resubmit re-runs only the quality evaluation against the edited fields
// merged with the stored deal, and overwrites its status and review in
// place. The duplicate scan is not repeated.
func (s *Service) Resubmit(ctx context.Context, req EditRequest) (*EditResult, error) {
	deal, err := s.deals.GetDealByID(ctx, req.DealID)
	if err != nil {
		return nil, fmt.Errorf("loading deal %s: %w", req.DealID, err)
	}
	if deal == nil {
		return nil, models.ErrDealNotFound
	}
	if deal.SubmittedBy.ID == "" || deal.SubmittedBy.ID != req.UserID {
		return nil, models.ErrForbidden
	}

	applyEdits(deal, req)

	verdict := s.evaluate(ctx, ai.DealFields{
		Title:         deal.Title,
		Description:   deal.Description,
		StoreName:     deal.Store.Name,
		StoreDomain:   deal.Store.Domain,
		Code:          deal.Code,
		SavingsAmount: deal.SavingsAmount,
		SavingsType:   deal.SavingsType,
		DealURL:       deal.DealURL,
		Conditions:    deal.Conditions,
	})

	deal.AIReview = verdict
	deal.Status = dealStatus(verdict)

	if err := s.deals.UpdateDeal(ctx, *deal); err != nil {
		return nil, fmt.Errorf("updating deal %s: %w", deal.ID, err)
	}

	status := StatusNeedsReview
	if deal.Status == models.StatusNewlyAdded {
		status = StatusApproved
	} else {
		s.alertModerators(*deal)
	}

	slog.Info("Deal resubmitted", "deal", deal.ID, "status", deal.Status, "confidence", verdict.Confidence)
	return &EditResult{Status: status, Review: verdict}, nil
}

func (s *Service) resolveStore(ctx context.Context, sub models.Submission) (*models.Store, bool, error) {
	if sub.StoreID != "" {
		store, err := s.stores.GetStoreByID(ctx, sub.StoreID)
		if err != nil {
			return nil, false, fmt.Errorf("looking up store %s: %w", sub.StoreID, err)
		}
		if store == nil {
			return nil, false, models.ErrStoreNotFound
		}
		return store, false, nil
	}

	if strings.TrimSpace(sub.StoreName) == "" || strings.TrimSpace(sub.StoreDomain) == "" {
		return nil, false, models.ErrMissingStoreInfo
	}

	slug := util.Slugify(sub.StoreName)

	type resolved struct {
		store   *models.Store
		created bool
	}
	v, err, _ := s.storeCreate.Do(slug, func() (any, error) {
		store, err := s.stores.GetStoreBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("looking up store slug %s: %w", slug, err)
		}
		if store != nil {
			return resolved{store: store}, nil
		}

		newStore := models.Store{
			Name:   strings.TrimSpace(sub.StoreName),
			Slug:   slug,
			Domain: strings.ToLower(strings.TrimSpace(sub.StoreDomain)),
		}
		id, err := s.stores.CreateStore(ctx, newStore)
		if err != nil {
			return nil, fmt.Errorf("creating store %s: %w", slug, err)
		}
		newStore.ID = id
		slog.Info("Created store", "store", id, "slug", slug)
		return resolved{store: &newStore, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	r := v.(resolved)
	return r.store, r.created, nil
}

// evaluate calls the quality evaluator under the configured timeout and
// applies FailToManualReview when it fails.
func (s *Service) evaluate(ctx context.Context, fields ai.DealFields) models.AIReview {
	if s.opts.AITimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.AITimeout)
		defer cancel()
	}

	verdict, err := s.evaluator.Evaluate(ctx, fields)
	if err != nil && s.evalPolicy == FailToManualReview {
		slog.Warn("Quality evaluation failed, routing to manual review", "error", err)
		return ai.FallbackVerdict(ai.UnavailableSummary)
	}
	return verdict
}

// dealStatus maps a verdict to the persisted status. Publication requires
// both an approved verdict and confidence at or above the threshold; every
// other combination, rejections included, goes to the human review queue.
func dealStatus(verdict models.AIReview) string {
	if verdict.Verdict == models.VerdictApproved && verdict.Confidence >= ApproveConfidence {
		return models.StatusNewlyAdded
	}
	return models.StatusPendingReview
}

func buildDeal(sub models.Submission, store *models.Store, verdict models.AIReview) models.Deal {
	discountType := models.DiscountTypeDeal
	if sub.Code != "" {
		discountType = models.DiscountTypeCode
	}

	return models.Deal{
		Title:       sub.Title,
		Description: sub.Description,
		Slug:        util.DealSlug(sub.Title, store.Slug),
		Code:        sub.Code,
		Store: models.StoreSnapshot{
			ID:     store.ID,
			Name:   store.Name,
			Slug:   store.Slug,
			Domain: store.Domain,
		},
		Category:      sub.Category,
		SavingsType:   sub.SavingsType,
		SavingsAmount: sub.SavingsAmount,
		SavingsValue:  sub.SavingsValue,
		DiscountType:  discountType,
		Conditions:    sub.Conditions,
		DealURL:       sub.DealURL,
		ImageURL:      sub.ImageURL,
		ExpiresAt:     sub.ExpiresAt,
		SubmittedBy:   sub.SubmittedBy,
		Tags:          sub.Tags,
		Status:        dealStatus(verdict),
		Source:        models.SourceUserSubmitted,
		AIReview:      verdict,
	}
}

func applyEdits(deal *models.Deal, req EditRequest) {
	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.Description != nil {
		deal.Description = *req.Description
	}
	if req.Code != nil {
		deal.Code = *req.Code
		deal.DiscountType = models.DiscountTypeDeal
		if deal.Code != "" {
			deal.DiscountType = models.DiscountTypeCode
		}
	}
	if req.DealURL != nil {
		deal.DealURL = *req.DealURL
	}
	if req.SavingsAmount != nil {
		deal.SavingsAmount = *req.SavingsAmount
	}
	if req.Conditions != nil {
		deal.Conditions = *req.Conditions
	}
	if req.ImageURL != nil {
		deal.ImageURL = *req.ImageURL
	}
}

// alertModerators fires the review-queue webhook outside the request path.
// The synchronous pipeline never retries; the notifier does its own backoff.
func (s *Service) alertModerators(deal models.Deal) {
	if s.notifier == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic in review notifier", "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.NotifyPendingReview(ctx, deal); err != nil {
			slog.Warn("Review alert failed", "deal", deal.ID, "error", err)
		}
	}()
}
