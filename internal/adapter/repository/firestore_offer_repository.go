package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	"campusx/pkg/errors"
)

type firestoreOfferRepository struct {
	client *firestore.Client
}

func NewFirestoreOfferRepository(client *firestore.Client) repository.OfferRepository {
	return &firestoreOfferRepository{
		client: client,
	}
}

func (r *firestoreOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if offer.Status == "" {
		offer.Status = entity.OfferStatusPending
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("offers").Doc(offer.ID).Set(ctx, offer)
	if err != nil {
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	doc, err := r.client.Collection("offers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	var offer entity.Offer
	if err := doc.DataTo(&offer); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}

	return &offer, nil
}

func (r *firestoreOfferRepository) ListByChat(ctx context.Context, chatID string) ([]*entity.Offer, error) {
	query := r.client.Collection("offers").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var offers []*entity.Offer
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while listing offers for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to list offers", err)
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			continue // Skip malformed documents
		}
		offers = append(offers, &offer)
	}

	return offers, nil
}

// Transition runs the offer state change inside a Firestore transaction. The
// status check and the write happen against the same snapshot, so two
// concurrent calls on the same offer produce exactly one winner; the loser
// gets a CONFLICT. When markListingSold is set the listing flips to "sold" in
// the same transaction as the offer write.
func (r *firestoreOfferRepository) Transition(ctx context.Context, offerID string, action entity.OfferAction, respondedAt time.Time, markListingSold bool) (*entity.Offer, error) {
	offerRef := r.client.Collection("offers").Doc(offerID)

	var result entity.Offer
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(offerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Offer", err)
			}
			return err
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return err
		}

		next, ok := offer.Status.Transition(action)
		if !ok {
			return errors.Conflict("Offer is no longer pending", nil)
		}

		offer.Status = next
		offer.RespondedAt = &respondedAt
		if err := tx.Set(offerRef, &offer); err != nil {
			return err
		}

		if markListingSold {
			listingRef := r.client.Collection("listings").Doc(offer.ListingID)
			if err := tx.Update(listingRef, []firestore.Update{
				{Path: "status", Value: entity.ListingStatusSold},
				{Path: "updatedAt", Value: respondedAt},
			}); err != nil {
				return err
			}
		}

		result = offer
		return nil
	})
	if err != nil {
		if errors.Is(err, "CONFLICT") || errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		return nil, errors.Internal("Failed to apply offer transition", err)
	}

	return &result, nil
}
