package entity

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeImage  = "image"
	MessageTypeOffer  = "offer"
	MessageTypeSystem = "system"
)

type Attachment struct {
	URL  string `json:"url" firestore:"url"`
	Type string `json:"type" firestore:"type"`
}

// Message is immutable once created. History ordering is by CreatedAt,
// ties broken by ID.
type Message struct {
	ID          string       `json:"id" firestore:"id"`
	ChatID      string       `json:"chat_id" firestore:"chatId"`
	SenderID    string       `json:"sender_id" firestore:"senderId"`
	Body        string       `json:"body,omitempty" firestore:"body,omitempty"`
	Attachments []Attachment `json:"attachments" firestore:"attachments"`
	Type        string       `json:"type" firestore:"type"`
	OfferID     string       `json:"offer_id,omitempty" firestore:"offerId,omitempty"`
	CreatedAt   time.Time    `json:"created_at" firestore:"createdAt"`
}
