package repository

import (
	"context"
	"time"

	"campusx/internal/domain/entity"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	ListByChat(ctx context.Context, chatID string) ([]*entity.Offer, error)

	// Transition atomically applies action to the offer. The offer must still
	// be in a state the transition table permits, otherwise a CONFLICT error
	// is returned and nothing changes. With markListingSold the referenced
	// listing flips to "sold" in the same atomic unit as the offer itself:
	// either both commit or neither does. Exactly one of two concurrent
	// transitions on the same offer wins.
	Transition(ctx context.Context, offerID string, action entity.OfferAction, respondedAt time.Time, markListingSold bool) (*entity.Offer, error)
}
