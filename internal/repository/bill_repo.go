package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillListRow is one row of the bill listing with the payment sum joined in.
type BillListRow struct {
	BillCode      string
	InvoiceNumber string
	CustomerName  *string
	GrandTotal    decimal.Decimal
	TotalPaid     decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}

// BillRepository persists bills piecewise: the header first, then items
// interleaved with stock checks, then charges, discounts and payments; all
// through *Tx methods so the bill engine controls the transaction boundary.
type BillRepository interface {
	CreateTx(tx *gorm.DB, b *model.Bill) error
	AddItemTx(tx *gorm.DB, item *model.BillItem) error
	AddChargeTx(tx *gorm.DB, charge *model.BillCharge) error
	AddDiscountTx(tx *gorm.DB, discount *model.BillDiscount) error
	AddPaymentTx(tx *gorm.DB, payment *model.BillPayment) error

	List(ctx context.Context, businessCode string) ([]BillListRow, error)
	// FindDetail returns nil when no bill matches both keys; tenant isolation
	// is enforced by always filtering on bill and business together.
	FindDetail(ctx context.Context, billCode, businessCode string) (*model.Bill, error)

	DB() *gorm.DB
}

type billRepo struct{ db *gorm.DB }

func NewBillRepository(db *gorm.DB) BillRepository { return &billRepo{db: db} }

func (r *billRepo) CreateTx(tx *gorm.DB, b *model.Bill) error {
	return tx.Create(b).Error
}

func (r *billRepo) AddItemTx(tx *gorm.DB, item *model.BillItem) error {
	return tx.Create(item).Error
}

func (r *billRepo) AddChargeTx(tx *gorm.DB, charge *model.BillCharge) error {
	return tx.Create(charge).Error
}

func (r *billRepo) AddDiscountTx(tx *gorm.DB, discount *model.BillDiscount) error {
	return tx.Create(discount).Error
}

func (r *billRepo) AddPaymentTx(tx *gorm.DB, payment *model.BillPayment) error {
	return tx.Create(payment).Error
}

func (r *billRepo) List(ctx context.Context, businessCode string) ([]BillListRow, error) {
	var rows []BillListRow
	err := r.db.WithContext(ctx).Table("bills b").
		Select(`b.bill_code, b.invoice_number, c.name AS customer_name,
			b.grand_total, COALESCE(SUM(p.amount_paid), 0) AS total_paid,
			b.created_by, b.created_at`).
		Joins("LEFT JOIN customers c ON c.customer_code = b.customer_code").
		Joins("LEFT JOIN bill_payments p ON p.bill_code = b.bill_code").
		Where("b.business_code = ?", businessCode).
		Group("b.bill_code, b.invoice_number, c.name, b.grand_total, b.created_by, b.created_at").
		Order("b.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *billRepo) FindDetail(ctx context.Context, billCode, businessCode string) (*model.Bill, error) {
	var b model.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Charges").
		Where("bill_code = ? AND business_code = ?", billCode, businessCode).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *billRepo) DB() *gorm.DB { return r.db }
