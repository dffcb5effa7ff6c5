package entity

import "time"

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	CampusID    string `json:"campus_id,omitempty" firestore:"campusId,omitempty"`
	Role        string `json:"role" firestore:"role"`     // "user", "admin"
	Status      string `json:"status" firestore:"status"` // "active", "suspended"
	Verified    bool   `json:"verified" firestore:"verified"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
