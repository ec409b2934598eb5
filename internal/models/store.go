package models

import "time"

// Store is a persisted merchant record. Stores are created lazily the first
// time a submission references a name+domain pair with no matching slug, and
// are never deleted by the submission pipeline.
type Store struct {
	ID          string    `firestore:"-" json:"id"`
	Name        string    `firestore:"name" json:"name"`
	Slug        string    `firestore:"slug" json:"slug"`
	Domain      string    `firestore:"domain" json:"domain"`
	ActiveDeals int       `firestore:"activeDeals" json:"activeDeals"`
	Featured    bool      `firestore:"featured" json:"featured"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}

// Submission is a candidate deal as entered by a user. It is never persisted
// directly; the submission router turns it into a Deal once it clears
// moderation.
type Submission struct {
	Title         string
	Description   string
	Code          string
	DealURL       string
	SavingsType   string
	SavingsAmount string
	SavingsValue  float64
	Conditions    string
	ImageURL      string
	ExpiresAt     time.Time
	SubmittedBy   UserRef
	Tags          []string
	Category      Category

	// Either an existing store id, or a name+domain pair for a store that
	// may not exist yet.
	StoreID     string
	StoreName   string
	StoreDomain string
}
