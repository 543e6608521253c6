package repository

import (
	"context"
	"errors"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type CustomerRepository interface {
	FindByCode(ctx context.Context, customerCode, businessCode string) (*model.Customer, error)
	FindByPhone(ctx context.Context, businessCode, phone string) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	ListMinimal(ctx context.Context, businessCode string) ([]dto.CustomerListItem, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) FindByCode(ctx context.Context, customerCode, businessCode string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("customer_code = ? AND business_code = ? AND active = true", customerCode, businessCode).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) FindByPhone(ctx context.Context, businessCode, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("business_code = ? AND phone = ? AND active = true", businessCode, phone).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	// Two concurrent creates for the same phone race past the service-level
	// upsert check; the loser hits idx_customers_business_phone and should
	// surface as a conflict, not an internal error.
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if uniqueViolation(err) {
			return apperror.Conflict("customer with phone %s already exists", c.Phone)
		}
		return err
	}
	return nil
}

func (r *customerRepo) ListMinimal(ctx context.Context, businessCode string) ([]dto.CustomerListItem, error) {
	var items []dto.CustomerListItem
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Select("customer_code, name, phone").
		Where("business_code = ? AND active = true", businessCode).
		Order("name ASC").
		Scan(&items).Error
	return items, err
}
