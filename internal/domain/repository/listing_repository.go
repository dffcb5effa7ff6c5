package repository

import (
	"context"

	"campusx/internal/domain/entity"
)

// ListingFilter narrows List results. Zero values mean "no constraint".
type ListingFilter struct {
	CampusID  string
	Category  string
	Condition string
	MinPrice  float64
	MaxPrice  float64
	Query     string
	Status    string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter, sort string, limit, offset int) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, listing *entity.Listing) error
	SetStatus(ctx context.Context, id string, status string) error
	IncrementViews(ctx context.Context, id string) error
}
