package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusx/internal/domain/entity"
	"campusx/pkg/errors"
)

type offerFixture struct {
	offers   *OfferUseCase
	chats    *ChatUseCase
	chatRepo *memChatRepo
	listings *memListingRepo
	chatID   string
}

func newOfferFixture(t *testing.T, acceptOwnerOnly bool) *offerFixture {
	t.Helper()

	userRepo := newMemUserRepo(
		&entity.User{ID: "buyer", Email: "buyer@campus.edu", DisplayName: "Asha"},
		&entity.User{ID: "seller", Email: "seller@campus.edu", DisplayName: "Ben"},
		&entity.User{ID: "stranger", Email: "other@campus.edu", DisplayName: "Cam"},
	)
	listingRepo := newMemListingRepo(&entity.Listing{
		ID:       "bike-1",
		Title:    "Used bicycle",
		Price:    500,
		SellerID: "seller",
		Status:   entity.ListingStatusActive,
	})
	chatRepo := newMemChatRepo()
	offerRepo := newMemOfferRepo(listingRepo)

	chatUC := NewChatUseCase(chatRepo, userRepo, listingRepo, nil, nil)
	offerUC := NewOfferUseCase(offerRepo, chatRepo, listingRepo, chatUC, nil, acceptOwnerOnly)

	chat, err := chatUC.CreateChat(context.Background(), "buyer", CreateChatInput{
		RecipientID: "seller",
		ListingID:   "bike-1",
	})
	require.NoError(t, err)

	return &offerFixture{
		offers:   offerUC,
		chats:    chatUC,
		chatRepo: chatRepo,
		listings: listingRepo,
		chatID:   chat.ID,
	}
}

func TestNegotiationFlow(t *testing.T) {
	f := newOfferFixture(t, false)
	ctx := context.Background()

	// Buyer opens at 400, seller declines.
	first, err := f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: f.chatID, Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusPending, first.Status)
	assert.Equal(t, "bike-1", first.ListingID)
	assert.Equal(t, "INR", first.Currency)

	declined, err := f.offers.Act(ctx, "seller", f.chatID, first.ID, entity.OfferActionDecline)
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusDeclined, declined.Status)
	assert.NotNil(t, declined.RespondedAt)
	assert.Equal(t, entity.ListingStatusActive, f.listings.status("bike-1"))

	// Buyer comes back at 450, seller accepts, listing flips to sold.
	second, err := f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: f.chatID, Amount: 450})
	require.NoError(t, err)

	accepted, err := f.offers.Act(ctx, "seller", f.chatID, second.ID, entity.OfferActionAccept)
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusAccepted, accepted.Status)
	assert.Equal(t, entity.ListingStatusSold, f.listings.status("bike-1"))

	// Both outcomes were announced in the thread as system messages.
	messages, _, err := f.chats.GetChatMessages(ctx, "buyer", f.chatID, 1, 20)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.MessageTypeSystem, messages[0].Type)
	assert.Equal(t, first.ID, messages[0].OfferID)
	assert.Contains(t, messages[0].Body, "declined")
	assert.Equal(t, second.ID, messages[1].OfferID)
	assert.Contains(t, messages[1].Body, "accepted")

	offers, err := f.offers.ListByChat(ctx, "buyer", f.chatID)
	require.NoError(t, err)
	assert.Len(t, offers, 2)
}

func TestOfferPermissions(t *testing.T) {
	f := newOfferFixture(t, false)
	ctx := context.Background()

	offer, err := f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: f.chatID, Amount: 400})
	require.NoError(t, err)

	// The proposer can never accept their own offer.
	_, err = f.offers.Act(ctx, "buyer", f.chatID, offer.ID, entity.OfferActionAccept)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// Only the proposer may cancel.
	_, err = f.offers.Act(ctx, "seller", f.chatID, offer.ID, entity.OfferActionCancel)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// Non-participants are shut out entirely.
	_, err = f.offers.Act(ctx, "stranger", f.chatID, offer.ID, entity.OfferActionDecline)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	cancelled, err := f.offers.Act(ctx, "buyer", f.chatID, offer.ID, entity.OfferActionCancel)
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusCancelled, cancelled.Status)
}

func TestAcceptRestrictedToSellerWhenConfigured(t *testing.T) {
	f := newOfferFixture(t, true)
	ctx := context.Background()

	// Seller proposes; with owner-only acceptance the buyer cannot accept.
	offer, err := f.offers.CreateOffer(ctx, "seller", CreateOfferInput{ChatID: f.chatID, Amount: 480})
	require.NoError(t, err)

	_, err = f.offers.Act(ctx, "buyer", f.chatID, offer.ID, entity.OfferActionAccept)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// Declining stays open to any participant.
	declined, err := f.offers.Act(ctx, "buyer", f.chatID, offer.ID, entity.OfferActionDecline)
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusDeclined, declined.Status)
}

func TestTerminalOffersRejectFurtherActions(t *testing.T) {
	f := newOfferFixture(t, false)
	ctx := context.Background()

	offer, err := f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: f.chatID, Amount: 400})
	require.NoError(t, err)

	_, err = f.offers.Act(ctx, "seller", f.chatID, offer.ID, entity.OfferActionAccept)
	require.NoError(t, err)

	_, err = f.offers.Act(ctx, "seller", f.chatID, offer.ID, entity.OfferActionDecline)
	assert.True(t, errors.Is(err, "CONFLICT"))

	_, err = f.offers.Act(ctx, "buyer", f.chatID, offer.ID, entity.OfferActionCancel)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestConcurrentResponsesHaveOneWinner(t *testing.T) {
	f := newOfferFixture(t, false)
	ctx := context.Background()

	offer, err := f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: f.chatID, Amount: 400})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = f.offers.Act(ctx, "seller", f.chatID, offer.ID, entity.OfferActionAccept)
	}()
	go func() {
		defer wg.Done()
		_, results[1] = f.offers.Act(ctx, "buyer", f.chatID, offer.ID, entity.OfferActionCancel)
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, "CONFLICT"))
		}
	}
	assert.Equal(t, 1, succeeded)

	// The listing is sold only if the accept won.
	if results[0] == nil {
		assert.Equal(t, entity.ListingStatusSold, f.listings.status("bike-1"))
	} else {
		assert.Equal(t, entity.ListingStatusActive, f.listings.status("bike-1"))
	}
}

func TestCreateOfferValidation(t *testing.T) {
	f := newOfferFixture(t, false)
	ctx := context.Background()

	_, err := f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: f.chatID, Amount: 0})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.offers.CreateOffer(ctx, "stranger", CreateOfferInput{ChatID: f.chatID, Amount: 100})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.offers.CreateOffer(ctx, "buyer", CreateOfferInput{ChatID: "no-such-chat", Amount: 100})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
