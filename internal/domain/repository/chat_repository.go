package repository

import (
	"context"
	"time"

	"campusx/internal/domain/entity"
)

type ChatRepository interface {
	// GetOrCreate returns the existing chat for (listingID, participant pair)
	// or creates one. Deterministic under concurrent calls from both
	// participants: the same chat is returned, never duplicated.
	GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error)

	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Chat, error)

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)

	// TouchLastMessage bumps the chat's lastMessageAt/lastMessage and the
	// unread counters of every participant except the sender.
	TouchLastMessage(ctx context.Context, chatID, senderID, preview string, at time.Time) error
}
