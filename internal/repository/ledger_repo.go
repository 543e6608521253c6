package repository

import (
	"context"
	"errors"

	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository is the append-only customer debt ledger. Appends always
// happen inside the caller's transaction so that the balance read by
// LastBalanceTx cannot go stale before the chained entry is written.
type LedgerRepository interface {
	// LastBalanceTx returns balance_after of the newest entry for the pair,
	// ordered by entry time, or zero when no entry exists; zero is the
	// implicit initial balance, not a stored row.
	LastBalanceTx(tx *gorm.DB, businessCode, customerCode string) (decimal.Decimal, error)
	AppendTx(tx *gorm.DB, e *model.LedgerEntry) error

	ListByCustomer(ctx context.Context, businessCode, customerCode string) ([]model.LedgerEntry, error)
	// Sums returns the all-time YOU_GAVE and YOU_GOT totals for the pair.
	Sums(ctx context.Context, businessCode, customerCode string) (gave, got decimal.Decimal, err error)

	DB() *gorm.DB
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) LastBalanceTx(tx *gorm.DB, businessCode, customerCode string) (decimal.Decimal, error) {
	var entry model.LedgerEntry
	err := tx.
		Where("business_code = ? AND customer_code = ?", businessCode, customerCode).
		Order("entry_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return entry.BalanceAfter, nil
}

func (r *ledgerRepo) AppendTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) ListByCustomer(ctx context.Context, businessCode, customerCode string) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("business_code = ? AND customer_code = ?", businessCode, customerCode).
		Order("entry_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) Sums(ctx context.Context, businessCode, customerCode string) (decimal.Decimal, decimal.Decimal, error) {
	var agg struct {
		YouGave decimal.Decimal
		YouGot  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select(`COALESCE(SUM(CASE WHEN type = 'YOU_GAVE' THEN amount ELSE 0 END), 0) AS you_gave,
			COALESCE(SUM(CASE WHEN type = 'YOU_GOT' THEN amount ELSE 0 END), 0) AS you_got`).
		Where("business_code = ? AND customer_code = ?", businessCode, customerCode).
		Scan(&agg).Error
	return agg.YouGave, agg.YouGot, err
}

func (r *ledgerRepo) DB() *gorm.DB { return r.db }
