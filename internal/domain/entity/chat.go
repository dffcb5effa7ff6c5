package entity

import "time"

// Chat is the durable conversation record. Participants are fixed at creation;
// a chat for the same (listing, participant pair) is never duplicated.
type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	ListingID     string         `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	Participants  []string       `json:"participants" firestore:"participants"`
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"`
	CreatedAt     time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// HasParticipant reports whether userID may read/write this chat.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
