package resource

import (
	"context"

	"filevault/internal/domain"
)

type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) error
	List(ctx context.Context, page, limit int) ([]domain.Resource, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) error
	Delete(ctx context.Context, id int64) error
}
