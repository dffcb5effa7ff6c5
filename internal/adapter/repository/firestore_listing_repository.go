package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	"campusx/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		doc := r.client.Collection("listings").NewDoc()
		listing.ID = doc.ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now
	if listing.Status == "" {
		listing.Status = entity.ListingStatusActive
	}

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter, sortBy string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").Query

	if filter.Status == "" {
		filter.Status = entity.ListingStatusActive
	}
	query = query.Where("status", "==", filter.Status)
	if filter.CampusID != "" {
		query = query.Where("campusId", "==", filter.CampusID)
	}
	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Condition != "" {
		query = query.Where("condition", "==", filter.Condition)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to query listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue // Skip malformed documents
		}
		listings = append(listings, &listing)
	}

	// Price range and text search are applied in-memory: an inequality filter
	// on price would force a composite index per equality combination.
	filtered := listings[:0]
	needle := strings.ToLower(filter.Query)
	for _, l := range listings {
		if filter.MinPrice > 0 && l.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && l.Price > filter.MaxPrice {
			continue
		}
		if needle != "" && !matchesQuery(l, needle) {
			continue
		}
		filtered = append(filtered, l)
	}
	listings = filtered

	switch sortBy {
	case "price_asc":
		sort.Slice(listings, func(i, j int) bool { return listings[i].Price < listings[j].Price })
	case "price_desc":
		sort.Slice(listings, func(i, j int) bool { return listings[i].Price > listings[j].Price })
	default: // newest
		sort.Slice(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
	}

	total := int64(len(listings))

	start := offset
	if start > len(listings) {
		start = len(listings)
	}
	end := len(listings)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return listings[start:end], total, nil
}

func matchesQuery(l *entity.Listing, needle string) bool {
	if strings.Contains(strings.ToLower(l.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Description), needle) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) SetStatus(ctx context.Context, id string, status string) error {
	_, err := r.client.Collection("listings").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to update listing status", err)
	}

	return nil
}

func (r *firestoreListingRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("listings").Doc(id).Update(ctx, []firestore.Update{
		{Path: "viewsCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment listing views", err)
	}

	return nil
}
