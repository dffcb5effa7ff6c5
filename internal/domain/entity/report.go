package entity

import "time"

const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Report struct {
	ID         string    `json:"id" firestore:"id"`
	ReporterID string    `json:"reporter_id" firestore:"reporterId"`
	TargetType string    `json:"target_type" firestore:"targetType"` // "listing", "user"
	TargetID   string    `json:"target_id" firestore:"targetId"`
	Reason     string    `json:"reason,omitempty" firestore:"reason,omitempty"`
	Status     string    `json:"status" firestore:"status"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}
