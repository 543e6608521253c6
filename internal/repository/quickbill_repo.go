package repository

import (
	"context"
	"errors"

	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"gorm.io/gorm"
)

// QuickBillRepository persists the whole quick bill (items, charges, payments
// populated on the struct) in a single Create; there is no stock validation
// to interleave, so no piecewise API is needed.
type QuickBillRepository interface {
	CreateTx(tx *gorm.DB, qb *model.QuickBill) error
	List(ctx context.Context, businessCode string) ([]BillListRow, error)
	FindDetail(ctx context.Context, quickBillCode, businessCode string) (*model.QuickBill, error)
	DB() *gorm.DB
}

type quickBillRepo struct{ db *gorm.DB }

func NewQuickBillRepository(db *gorm.DB) QuickBillRepository { return &quickBillRepo{db: db} }

func (r *quickBillRepo) CreateTx(tx *gorm.DB, qb *model.QuickBill) error {
	return tx.Create(qb).Error
}

func (r *quickBillRepo) List(ctx context.Context, businessCode string) ([]BillListRow, error) {
	var rows []BillListRow
	err := r.db.WithContext(ctx).Table("quick_bills qb").
		Select(`qb.quick_bill_code AS bill_code, qb.invoice_name AS invoice_number,
			qb.customer_name, qb.grand_total,
			COALESCE(SUM(p.amount), 0) AS total_paid,
			qb.created_by, qb.created_at`).
		Joins("LEFT JOIN quick_bill_payments p ON p.quick_bill_code = qb.quick_bill_code").
		Where("qb.business_code = ?", businessCode).
		Group("qb.quick_bill_code, qb.invoice_name, qb.customer_name, qb.grand_total, qb.created_by, qb.created_at").
		Order("qb.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *quickBillRepo) FindDetail(ctx context.Context, quickBillCode, businessCode string) (*model.QuickBill, error) {
	var qb model.QuickBill
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Charges").
		Where("quick_bill_code = ? AND business_code = ?", quickBillCode, businessCode).
		First(&qb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qb, nil
}

func (r *quickBillRepo) DB() *gorm.DB { return r.db }
