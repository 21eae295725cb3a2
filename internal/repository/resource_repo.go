package repository

import (
	"context"

	"filevault/internal/domain"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

// List returns one page ordered by creation time descending, each row joined
// with its parent resource and owner, plus the total row count.
func (r *ResourceRepository) List(ctx context.Context, page, limit int) ([]domain.Resource, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Resource{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	var items []domain.Resource
	tx := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	return items, total, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	var res domain.Resource
	tx := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Owner").
		First(&res, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &res, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Resource{}, id).Error
}
