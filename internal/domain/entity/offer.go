package entity

import "time"

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusDeclined  OfferStatus = "declined"
	OfferStatusCancelled OfferStatus = "cancelled"
)

type OfferAction string

const (
	OfferActionCreate  OfferAction = "create"
	OfferActionAccept  OfferAction = "accept"
	OfferActionDecline OfferAction = "decline"
	OfferActionCancel  OfferAction = "cancel"
)

// offerTransitions is the full transition table keyed by (current status,
// action). Accepted, declined and cancelled are absorbing: there is no entry
// out of them.
var offerTransitions = map[OfferStatus]map[OfferAction]OfferStatus{
	OfferStatusPending: {
		OfferActionAccept:  OfferStatusAccepted,
		OfferActionDecline: OfferStatusDeclined,
		OfferActionCancel:  OfferStatusCancelled,
	},
}

// Transition returns the status reached by applying action, and whether the
// transition is legal.
func (s OfferStatus) Transition(action OfferAction) (OfferStatus, bool) {
	next, ok := offerTransitions[s][action]
	return next, ok
}

// IsTerminal reports whether no further transition is permitted.
func (s OfferStatus) IsTerminal() bool {
	return len(offerTransitions[s]) == 0
}

func ParseOfferAction(s string) (OfferAction, bool) {
	switch OfferAction(s) {
	case OfferActionCreate, OfferActionAccept, OfferActionDecline, OfferActionCancel:
		return OfferAction(s), true
	}
	return "", false
}

type Offer struct {
	ID          string      `json:"id" firestore:"id"`
	ListingID   string      `json:"listing_id" firestore:"listingId"`
	ChatID      string      `json:"chat_id" firestore:"chatId"`
	ProposerID  string      `json:"proposer_id" firestore:"proposerId"`
	Amount      float64     `json:"amount" firestore:"amount"`
	Currency    string      `json:"currency" firestore:"currency"`
	Status      OfferStatus `json:"status" firestore:"status"`
	CreatedAt   time.Time   `json:"created_at" firestore:"createdAt"`
	RespondedAt *time.Time  `json:"responded_at,omitempty" firestore:"respondedAt,omitempty"`
}
