package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	"campusx/pkg/errors"
)

type OfferUseCase struct {
	offerRepo   repository.OfferRepository
	chatRepo    repository.ChatRepository
	listingRepo repository.ListingRepository
	chatUseCase *ChatUseCase
	rateLimiter RateLimiter

	// acceptOwnerOnly restricts accepting to the listing's seller.
	acceptOwnerOnly bool
}

func NewOfferUseCase(
	offerRepo repository.OfferRepository,
	chatRepo repository.ChatRepository,
	listingRepo repository.ListingRepository,
	chatUseCase *ChatUseCase,
	rateLimiter RateLimiter,
	acceptOwnerOnly bool,
) *OfferUseCase {
	return &OfferUseCase{
		offerRepo:       offerRepo,
		chatRepo:        chatRepo,
		listingRepo:     listingRepo,
		chatUseCase:     chatUseCase,
		rateLimiter:     rateLimiter,
		acceptOwnerOnly: acceptOwnerOnly,
	}
}

type CreateOfferInput struct {
	ChatID   string
	Amount   float64
	Currency string
}

// CreateOffer inserts a pending offer in the chat's negotiation thread. The
// listing is derived from the chat, never taken from the caller.
func (uc *OfferUseCase) CreateOffer(ctx context.Context, userID string, input CreateOfferInput) (*entity.Offer, error) {
	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(userID, "create_offer"); !allowed {
			log.Printf("CreateOffer rate limited: user %s must wait %v", userID, wait)
			return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before making another offer")
		}
	}

	if input.Amount <= 0 {
		return nil, errors.BadRequest("Offer amount must be positive", nil)
	}
	if input.Currency == "" {
		input.Currency = "INR"
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}
	if chat.ListingID == "" {
		return nil, errors.BadRequest("Chat is not attached to a listing", nil)
	}

	offer := &entity.Offer{
		ListingID:  chat.ListingID,
		ChatID:     chat.ID,
		ProposerID: userID,
		Amount:     input.Amount,
		Currency:   input.Currency,
		Status:     entity.OfferStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		log.Printf("CreateOffer: failed to persist offer for chat %s: %v", chat.ID, err)
		return nil, err
	}

	return offer, nil
}

// Act applies accept, decline or cancel to a pending offer. The status check
// and the write are atomic in the store: under concurrent calls exactly one
// wins, the rest get a CONFLICT and no side effect is double-applied.
func (uc *OfferUseCase) Act(ctx context.Context, userID, chatID, offerID string, action entity.OfferAction) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if chatID != "" && offer.ChatID != chatID {
		return nil, errors.BadRequest("Offer does not belong to this chat", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, offer.ChatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	markSold := false
	switch action {
	case entity.OfferActionAccept:
		if userID == offer.ProposerID {
			return nil, errors.Forbidden("You cannot accept your own offer", nil)
		}
		if uc.acceptOwnerOnly {
			listing, err := uc.listingRepo.GetByID(ctx, offer.ListingID)
			if err != nil {
				return nil, err
			}
			if listing.SellerID != userID {
				return nil, errors.Forbidden("Only the seller may accept this offer", nil)
			}
		}
		markSold = true

	case entity.OfferActionDecline:
		// Any participant may decline.

	case entity.OfferActionCancel:
		if userID != offer.ProposerID {
			return nil, errors.Forbidden("Only the proposer may cancel an offer", nil)
		}

	default:
		return nil, errors.BadRequest("Unknown offer action", nil)
	}

	updated, err := uc.offerRepo.Transition(ctx, offer.ID, action, time.Now(), markSold)
	if err != nil {
		return nil, err
	}

	uc.announce(ctx, userID, updated)

	return updated, nil
}

// announce drops a system message into the chat so the outcome is part of
// the persisted thread. Best effort: the transition already committed.
func (uc *OfferUseCase) announce(ctx context.Context, userID string, offer *entity.Offer) {
	if uc.chatUseCase == nil {
		return
	}

	body := fmt.Sprintf("Offer of %.2f %s %s", offer.Amount, offer.Currency, offer.Status)
	_, err := uc.chatUseCase.SendMessage(ctx, userID, SendMessageInput{
		ChatID:  offer.ChatID,
		Body:    body,
		Type:    entity.MessageTypeSystem,
		OfferID: offer.ID,
	})
	if err != nil {
		log.Printf("Failed to announce offer %s outcome in chat %s: %v", offer.ID, offer.ChatID, err)
	}
}

// ListByChat returns the chat's offers, newest first, for participants.
func (uc *OfferUseCase) ListByChat(ctx context.Context, userID, chatID string) ([]*entity.Offer, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	return uc.offerRepo.ListByChat(ctx, chatID)
}
