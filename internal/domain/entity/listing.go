package entity

import "time"

type ListingImage struct {
	URL      string `json:"url" firestore:"url"`
	Path     string `json:"path,omitempty" firestore:"path,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty" firestore:"thumbUrl,omitempty"`
}

const (
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusHidden  = "hidden"
	ListingStatusRemoved = "removed"
)

type Listing struct {
	ID          string         `json:"id" firestore:"id"`
	Title       string         `json:"title" firestore:"title"`
	Description string         `json:"description,omitempty" firestore:"description,omitempty"`
	Category    string         `json:"category,omitempty" firestore:"category,omitempty"`
	Condition   string         `json:"condition" firestore:"condition"` // "new", "like_new", "used", "for_parts"
	Price       float64        `json:"price" firestore:"price"`
	Currency    string         `json:"currency" firestore:"currency"`
	Images      []ListingImage `json:"images" firestore:"images"`
	CampusID    string         `json:"campus_id,omitempty" firestore:"campusId,omitempty"`
	SellerID    string         `json:"seller_id" firestore:"sellerId"`
	Status      string         `json:"status" firestore:"status"`
	Tags        []string       `json:"tags,omitempty" firestore:"tags,omitempty"`

	ViewsCount    int `json:"views_count" firestore:"viewsCount"`
	ContactClicks int `json:"contact_clicks" firestore:"contactClicks"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
