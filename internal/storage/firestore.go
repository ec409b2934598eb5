package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dealhive/dealhive-backend/internal/models"
)

const (
	dealsCollection  = "deals"
	storesCollection = "stores"
)

type Client struct {
	client *firestore.Client
}

func New(ctx context.Context, projectID string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GetStoreByID returns the store record, or nil if no such document exists.
func (c *Client) GetStoreByID(ctx context.Context, id string) (*models.Store, error) {
	doc, err := c.client.Collection(storesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("getting store %s: %w", id, err)
	}

	var store models.Store
	if err := doc.DataTo(&store); err != nil {
		return nil, fmt.Errorf("unmarshaling store %s: %w", id, err)
	}
	store.ID = doc.Ref.ID
	return &store, nil
}

// GetStoreBySlug returns the first store with the given slug, or nil if none
// exists. Slug uniqueness is enforced by look-up-before-create, not by the
// datastore.
func (c *Client) GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error) {
	iter := c.client.Collection(storesCollection).
		Where("slug", "==", slug).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying store slug %s: %w", slug, err)
	}

	var store models.Store
	if err := doc.DataTo(&store); err != nil {
		return nil, fmt.Errorf("unmarshaling store %s: %w", doc.Ref.ID, err)
	}
	store.ID = doc.Ref.ID
	return &store, nil
}

// CreateStore persists a new store and returns its server-assigned id.
func (c *Client) CreateStore(ctx context.Context, store models.Store) (string, error) {
	ref, _, err := c.client.Collection(storesCollection).Add(ctx, store)
	if err != nil {
		return "", fmt.Errorf("creating store %s: %w", store.Slug, err)
	}
	return ref.ID, nil
}

// IncrementStoreActiveDeals bumps the store's active-deal counter by one.
func (c *Client) IncrementStoreActiveDeals(ctx context.Context, id string) error {
	_, err := c.client.Collection(storesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "activeDeals", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("incrementing active deals for store %s: %w", id, err)
	}
	return nil
}

// DealsByStore returns every deal whose embedded store snapshot references
// the given store. The per-store deal volume is small enough that the scan
// is neither time-bounded nor paginated.
func (c *Client) DealsByStore(ctx context.Context, storeID string) ([]models.Deal, error) {
	iter := c.client.Collection(dealsCollection).
		Where("store.id", "==", storeID).
		Documents(ctx)
	defer iter.Stop()

	var deals []models.Deal
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating deals for store %s: %w", storeID, err)
		}

		var deal models.Deal
		if err := doc.DataTo(&deal); err != nil {
			return nil, fmt.Errorf("unmarshaling deal %s: %w", doc.Ref.ID, err)
		}
		deal.ID = doc.Ref.ID
		deals = append(deals, deal)
	}
	return deals, nil
}

// CreateDeal persists a new deal and returns its server-assigned id.
func (c *Client) CreateDeal(ctx context.Context, deal models.Deal) (string, error) {
	ref, _, err := c.client.Collection(dealsCollection).Add(ctx, deal)
	if err != nil {
		return "", fmt.Errorf("creating deal %s: %w", deal.Slug, err)
	}
	return ref.ID, nil
}

// GetDealByID returns the deal record, or nil if no such document exists.
func (c *Client) GetDealByID(ctx context.Context, id string) (*models.Deal, error) {
	doc, err := c.client.Collection(dealsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("getting deal %s: %w", id, err)
	}

	var deal models.Deal
	if err := doc.DataTo(&deal); err != nil {
		return nil, fmt.Errorf("unmarshaling deal %s: %w", id, err)
	}
	deal.ID = doc.Ref.ID
	return &deal, nil
}

// UpdateDeal overwrites the editable fields, status and AI review of an
// existing deal in place.
func (c *Client) UpdateDeal(ctx context.Context, deal models.Deal) error {
	_, err := c.client.Collection(dealsCollection).Doc(deal.ID).Update(ctx, dealUpdates(deal))
	if err != nil {
		return fmt.Errorf("updating deal %s: %w", deal.ID, err)
	}
	return nil
}

// dealUpdates lists the fields the edit-and-resubmit path may change.
// Engagement counters and creation metadata are deliberately absent so
// concurrent votes and comments are never clobbered by an edit.
func dealUpdates(deal models.Deal) []firestore.Update {
	return []firestore.Update{
		{Path: "title", Value: deal.Title},
		{Path: "description", Value: deal.Description},
		{Path: "code", Value: deal.Code},
		{Path: "dealUrl", Value: deal.DealURL},
		{Path: "imageUrl", Value: deal.ImageURL},
		{Path: "savingsAmount", Value: deal.SavingsAmount},
		{Path: "conditions", Value: deal.Conditions},
		{Path: "discountType", Value: deal.DiscountType},
		{Path: "status", Value: deal.Status},
		{Path: "aiReview", Value: deal.AIReview},
	}
}
