package repository

import (
	"context"
	"errors"

	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	// FindByName matches case-insensitively within the business.
	FindByName(ctx context.Context, businessCode, name string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context, businessCode string) ([]model.Category, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) FindByName(ctx context.Context, businessCode, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("business_code = ? AND LOWER(name) = LOWER(?) AND active = true", businessCode, name).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) List(ctx context.Context, businessCode string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("business_code = ? AND active = true", businessCode).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}
