package repository

import (
	"context"

	"campusx/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	List(ctx context.Context, limit int) ([]*entity.Report, error)
	Update(ctx context.Context, report *entity.Report) error
}
