package models

import (
	"errors"
	"time"
)

// Sentinel errors surfaced by the submission pipeline.
var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrMissingStoreInfo = errors.New("a store id or a store name and domain is required")
	ErrDealNotFound     = errors.New("deal not found")
	ErrForbidden        = errors.New("only the original submitter can edit this deal")
)

// Deal lifecycle statuses. Expiration is a status flip performed elsewhere;
// this pipeline only ever writes the first two.
const (
	StatusNewlyAdded    = "newly_added"
	StatusPendingReview = "pending_review"
	StatusExpired       = "expired"
)

// AI review verdict tags.
const (
	VerdictApproved    = "approved"
	VerdictNeedsReview = "needs_review"
	VerdictRejected    = "rejected"
)

const (
	DiscountTypeCode = "code"
	DiscountTypeDeal = "deal"
)

const SourceUserSubmitted = "user_submitted"

// Category references a deal category. Categories are managed elsewhere;
// submissions carry them as an opaque reference.
type Category struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name,omitempty" json:"name,omitempty"`
	Slug string `firestore:"slug,omitempty" json:"slug,omitempty"`
}

// UserRef identifies the submitting user.
type UserRef struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name,omitempty" json:"name,omitempty"`
}

// StoreSnapshot is the store record as it looked when the deal was created,
// embedded in the deal rather than referenced live.
type StoreSnapshot struct {
	ID     string `firestore:"id" json:"id"`
	Name   string `firestore:"name" json:"name"`
	Slug   string `firestore:"slug" json:"slug"`
	Domain string `firestore:"domain" json:"domain"`
}

// AIReview is the quality verdict embedded in a deal. It is overwritten
// wholesale on edit-and-resubmit; no history is kept.
type AIReview struct {
	Verdict         string   `firestore:"verdict" json:"verdict"`
	Confidence      int      `firestore:"confidence" json:"confidence"`
	LegitimacyScore int      `firestore:"legitimacyScore" json:"legitimacyScore"`
	SpamScore       int      `firestore:"spamScore" json:"spamScore"`
	Reasons         []string `firestore:"reasons" json:"reasons"`
	Summary         string   `firestore:"summary" json:"summary"`
}

// Deal is a persisted deal record.
type Deal struct {
	ID            string        `firestore:"-" json:"id"`
	Title         string        `firestore:"title" json:"title"`
	Description   string        `firestore:"description" json:"description"`
	Slug          string        `firestore:"slug" json:"slug"`
	Code          string        `firestore:"code,omitempty" json:"code,omitempty"`
	Store         StoreSnapshot `firestore:"store" json:"store"`
	Category      Category      `firestore:"category" json:"category"`
	SavingsType   string        `firestore:"savingsType,omitempty" json:"savingsType,omitempty"`
	SavingsAmount string        `firestore:"savingsAmount,omitempty" json:"savingsAmount,omitempty"`
	SavingsValue  float64       `firestore:"savingsValue,omitempty" json:"savingsValue,omitempty"`
	DiscountType  string        `firestore:"discountType" json:"discountType"`
	Conditions    string        `firestore:"conditions,omitempty" json:"conditions,omitempty"`
	DealURL       string        `firestore:"dealUrl" json:"dealUrl"`
	ImageURL      string        `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ExpiresAt     time.Time     `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	SubmittedBy   UserRef       `firestore:"submittedBy" json:"submittedBy"`
	Tags          []string      `firestore:"tags,omitempty" json:"tags,omitempty"`

	Upvotes      int `firestore:"upvotes" json:"upvotes"`
	Downvotes    int `firestore:"downvotes" json:"downvotes"`
	CommentCount int `firestore:"commentCount" json:"commentCount"`
	ViewCount    int `firestore:"viewCount" json:"viewCount"`
	SavedCount   int `firestore:"savedCount" json:"savedCount"`

	Status     string    `firestore:"status" json:"status"`
	Source     string    `firestore:"source" json:"source"`
	Verified   bool      `firestore:"verified" json:"verified"`
	VerifiedAt time.Time `firestore:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`

	AIReview AIReview `firestore:"aiReview" json:"aiReview"`
}

// DuplicateMatch is a single duplicate-scan hit. Only the id, title and
// reason are surfaced, never the full deal body.
type DuplicateMatch struct {
	DealID string `json:"dealId"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}
