package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	"campusx/pkg/errors"
)

// In-memory stands-ins for the Firestore repositories. They mirror the real
// adapters' contracts closely enough for usecase behavior: deterministic
// get-or-create keyed on (listing, participant pair), newest-first message
// reads, and atomic offer transitions.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) SetStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.Status = status
	return nil
}

type memListingRepo struct {
	mu       sync.Mutex
	listings map[string]*entity.Listing
}

func newMemListingRepo(listings ...*entity.Listing) *memListingRepo {
	r := &memListingRepo{listings: make(map[string]*entity.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *memListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	r.listings[listing.ID] = listing
	return nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	copied := *listing
	return &copied, nil
}

func (r *memListingRepo) List(ctx context.Context, filter repository.ListingFilter, sortBy string, limit, offset int) ([]*entity.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Listing
	for _, l := range r.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		matched = append(matched, l)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	r.listings[listing.ID] = listing
	return nil
}

func (r *memListingRepo) SetStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.Status = status
	listing.UpdatedAt = time.Now()
	return nil
}

func (r *memListingRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.ViewsCount++
	return nil
}

func (r *memListingRepo) status(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.listings[id]; ok {
		return l.Status
	}
	return ""
}

type memChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

func chatPairKey(listingID string, participants []string) string {
	sorted := append([]string(nil), participants...)
	sort.Strings(sorted)
	if listingID == "" {
		return "direct_" + strings.Join(sorted, "_")
	}
	return "listing_" + listingID + "_" + strings.Join(sorted, "_")
}

func (r *memChatRepo) GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := chatPairKey(chat.ListingID, chat.Participants)
	if existing, ok := r.chats[key]; ok {
		return existing, nil
	}

	now := time.Now()
	chat.ID = key
	chat.UnreadCount = make(map[string]int)
	chat.CreatedAt = now
	chat.UpdatedAt = now
	r.chats[key] = chat
	return chat, nil
}

func (r *memChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *memChatRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, chat)
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
	if limit > 0 && len(chats) > limit {
		chats = chats[:limit]
	}
	return chats, nil
}

func (r *memChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	r.messages[message.ChatID] = append(r.messages[message.ChatID], message)
	return nil
}

// GetMessagesByChat returns pages newest-first, matching the Firestore
// adapter's createdAt-descending query.
func (r *memChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.messages[chatID]
	total := int64(len(all))

	newest := make([]*entity.Message, len(all))
	for i, msg := range all {
		newest[len(all)-1-i] = msg
	}

	if offset >= len(newest) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(newest) {
		end = len(newest)
	}
	return newest[offset:end], total, nil
}

func (r *memChatRepo) TouchLastMessage(ctx context.Context, chatID, senderID, preview string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.LastMessage = preview
	chat.LastMessageAt = at
	chat.UpdatedAt = at
	for _, p := range chat.Participants {
		if p != senderID {
			chat.UnreadCount[p]++
		}
	}
	return nil
}

type memOfferRepo struct {
	mu          sync.Mutex
	offers      map[string]*entity.Offer
	listingRepo *memListingRepo
}

func newMemOfferRepo(listingRepo *memListingRepo) *memOfferRepo {
	return &memOfferRepo{
		offers:      make(map[string]*entity.Offer),
		listingRepo: listingRepo,
	}
}

func (r *memOfferRepo) Create(ctx context.Context, offer *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *memOfferRepo) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	copied := *offer
	return &copied, nil
}

func (r *memOfferRepo) ListByChat(ctx context.Context, chatID string) ([]*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var offers []*entity.Offer
	for _, o := range r.offers {
		if o.ChatID == chatID {
			copied := *o
			offers = append(offers, &copied)
		}
	}
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

// Transition is the check-and-set the Firestore adapter does in a
// transaction: under concurrent calls on the same offer exactly one wins.
func (r *memOfferRepo) Transition(ctx context.Context, offerID string, action entity.OfferAction, respondedAt time.Time, markListingSold bool) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	offer, ok := r.offers[offerID]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}

	next, ok := offer.Status.Transition(action)
	if !ok {
		return nil, errors.Conflict("Offer is no longer pending", nil)
	}

	offer.Status = next
	offer.RespondedAt = &respondedAt

	if markListingSold {
		if err := r.listingRepo.SetStatus(ctx, offer.ListingID, entity.ListingStatusSold); err != nil {
			return nil, err
		}
	}

	copied := *offer
	return &copied, nil
}
