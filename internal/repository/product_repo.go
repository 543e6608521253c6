package repository

import (
	"context"
	"errors"

	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"gorm.io/gorm"
)

// ProductRepository is the data access contract for the catalog. Services
// depend on this interface, not the GORM implementation, so unit tests run
// against in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	CreateTx(tx *gorm.DB, p *model.Product) error
	// FindByCode returns only active products; inactive ones behave as absent.
	FindByCode(ctx context.Context, productCode, businessCode string) (*model.Product, error)
	FindByCodeTx(tx *gorm.DB, productCode, businessCode string) (*model.Product, error)
	List(ctx context.Context, businessCode string, filter dto.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, productCode, businessCode string) error

	// ListExpiring returns every active product (any business) with an expiry
	// date and a positive alert window; consumed by the daily expiry scan.
	ListExpiring(ctx context.Context) ([]model.Product, error)

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByCode(ctx context.Context, productCode, businessCode string) (*model.Product, error) {
	return r.FindByCodeTx(r.db.WithContext(ctx), productCode, businessCode)
}

func (r *productRepo) FindByCodeTx(tx *gorm.DB, productCode, businessCode string) (*model.Product, error) {
	var p model.Product
	err := tx.
		Where("product_code = ? AND business_code = ? AND active = true", productCode, businessCode).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, businessCode string, filter dto.ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).
		Where("business_code = ? AND active = true", businessCode)
	if filter.CategoryCode != "" {
		q = q.Where("category_code = ?", filter.CategoryCode)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR barcode ILIKE ?", pattern, pattern)
	}
	var products []model.Product
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Deactivate(ctx context.Context, productCode, businessCode string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_code = ? AND business_code = ?", productCode, businessCode).
		Update("active", false).Error
}

func (r *productRepo) ListExpiring(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND expiry_date IS NOT NULL AND expiry_alert_days > 0").
		Find(&products).Error
	return products, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }
