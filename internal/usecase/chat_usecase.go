package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	ws "campusx/internal/infrastructure/websocket"
	"campusx/pkg/errors"
)

// maxChatList bounds the chat overview query.
const maxChatList = 50

// RateLimiter is the per-user action limiter wired into the write paths.
type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	wsManager   *ws.Manager
	rateLimiter RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	wsManager *ws.Manager,
	rateLimiter RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CreateChatInput struct {
	RecipientID string
	ListingID   string
}

type SendMessageInput struct {
	ChatID      string
	Body        string
	Attachments []entity.Attachment
	Type        string
	OfferID     string
}

// CreateChat looks up or creates the chat between the caller and the
// recipient for a listing. Calling it twice, or concurrently from both
// participants, yields the same chat.
func (uc *ChatUseCase) CreateChat(ctx context.Context, userID string, input CreateChatInput) (*entity.Chat, error) {
	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(userID, "create_chat"); !allowed {
			log.Printf("CreateChat rate limited: user %s must wait %v", userID, wait)
			return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another chat")
		}
	}

	if input.RecipientID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if userID == input.RecipientID {
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.RecipientID); err != nil {
		log.Printf("CreateChat: recipient %s not found: %v", input.RecipientID, err)
		return nil, errors.NotFound("Recipient", err)
	}

	if input.ListingID != "" {
		if _, err := uc.listingRepo.GetByID(ctx, input.ListingID); err != nil {
			log.Printf("CreateChat: listing %s not found: %v", input.ListingID, err)
			return nil, errors.NotFound("Listing", err)
		}
	}

	chat, err := uc.chatRepo.GetOrCreate(ctx, &entity.Chat{
		ListingID:    input.ListingID,
		Participants: []string{userID, input.RecipientID},
	})
	if err != nil {
		log.Printf("CreateChat: failed to get or create chat: %v", err)
		return nil, err
	}

	return chat, nil
}

// GetUserChats returns the caller's chats, most recently active first.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*entity.Chat, error) {
	return uc.chatRepo.ListByUserID(ctx, userID, maxChatList)
}

func (uc *ChatUseCase) GetChatByID(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}
	return chat, nil
}

// GetChatMessages pages through history. Page 1 holds the newest pageSize
// messages; within every page messages are returned oldest-to-newest so
// clients can render scrollback directly.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, page, pageSize int) ([]*entity.Message, int64, error) {
	if _, err := uc.GetChatByID(ctx, userID, chatID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	messages, total, err := uc.chatRepo.GetMessagesByChat(ctx, chatID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	// The store returns newest-first; reverse for chronological delivery.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}

// SendMessage is the canonical send operation for every transport. It
// persists the message, bumps the chat's lastMessageAt, and only then
// broadcasts to the chat room.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(userID, "send_message"); !allowed {
			log.Printf("SendMessage rate limited: user %s must wait %v", userID, wait)
			return nil, errors.TooManyRequests("Rate limit exceeded. Please slow down")
		}
	}

	if input.Type == "" {
		input.Type = entity.MessageTypeText
	}
	if input.Type == entity.MessageTypeText && input.Body == "" {
		return nil, errors.BadRequest("Message body is required", nil)
	}

	chat, err := uc.GetChatByID(ctx, userID, input.ChatID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ChatID:      chat.ID,
		SenderID:    userID,
		Body:        input.Body,
		Attachments: input.Attachments,
		Type:        input.Type,
		OfferID:     input.OfferID,
		CreatedAt:   time.Now(),
	}
	if message.Attachments == nil {
		message.Attachments = []entity.Attachment{}
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage: failed to persist message for chat %s: %v", chat.ID, err)
		return nil, err
	}

	if err := uc.chatRepo.TouchLastMessage(ctx, chat.ID, userID, input.Body, message.CreatedAt); err != nil {
		// The message itself is durable; the overview just lags.
		log.Printf("SendMessage: failed to touch chat %s: %v", chat.ID, err)
	}

	uc.broadcastMessage(ctx, message, nil)

	return message, nil
}

// SendChatMessage implements the realtime dispatcher's persistence path for
// plain chat messages.
func (uc *ChatUseCase) SendChatMessage(ctx context.Context, senderID, chatID, text string) error {
	_, err := uc.SendMessage(ctx, senderID, SendMessageInput{
		ChatID: chatID,
		Body:   text,
		Type:   entity.MessageTypeText,
	})
	return err
}

// SendNegotiationMessage persists an offer-kind message and broadcasts it
// with the offer snapshot attached.
func (uc *ChatUseCase) SendNegotiationMessage(ctx context.Context, senderID, chatID, text string, offer json.RawMessage) error {
	var snapshot struct {
		ID string `json:"id"`
	}
	if len(offer) > 0 {
		if err := json.Unmarshal(offer, &snapshot); err != nil {
			return errors.BadRequest("Invalid offer payload", err)
		}
	}

	chat, err := uc.GetChatByID(ctx, senderID, chatID)
	if err != nil {
		return err
	}

	message := &entity.Message{
		ChatID:      chat.ID,
		SenderID:    senderID,
		Body:        text,
		Attachments: []entity.Attachment{},
		Type:        entity.MessageTypeOffer,
		OfferID:     snapshot.ID,
		CreatedAt:   time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendNegotiationMessage: failed to persist message for chat %s: %v", chat.ID, err)
		return err
	}

	if err := uc.chatRepo.TouchLastMessage(ctx, chat.ID, senderID, text, message.CreatedAt); err != nil {
		log.Printf("SendNegotiationMessage: failed to touch chat %s: %v", chat.ID, err)
	}

	uc.broadcastMessage(ctx, message, offer)

	return nil
}

// broadcastMessage fans a persisted message out to the chat room. Offer
// messages go out as negotiationMessage, everything else as chatMessage.
func (uc *ChatUseCase) broadcastMessage(ctx context.Context, message *entity.Message, offer json.RawMessage) {
	if uc.wsManager == nil {
		return
	}

	senderName := ""
	if sender, err := uc.userRepo.GetByID(ctx, message.SenderID); err == nil {
		senderName = sender.DisplayName
	}

	envelope := ws.MessageEnvelope{
		ID:         message.ID,
		SenderID:   message.SenderID,
		SenderName: senderName,
		Text:       message.Body,
		Timestamp:  message.CreatedAt.UTC().Format(time.RFC3339),
		ChatID:     message.ChatID,
	}

	event := ws.EventChatMessage
	if message.Type == entity.MessageTypeOffer {
		event = ws.EventNegotiationMessage
		envelope.Type = "negotiation"
		envelope.Offer = offer
	}

	uc.wsManager.BroadcastToRoom(ws.ChatRoom(message.ChatID), ws.Encode(event, envelope))
}
