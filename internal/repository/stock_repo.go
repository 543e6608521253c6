package repository

import (
	"context"

	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stockSumExpr derives current stock by signed summation over the movement
// history. There is deliberately no materialized counter to drift.
const stockSumExpr = `COALESCE(SUM(CASE
	WHEN type IN ('OPENING','IN') THEN quantity
	WHEN type = 'OUT' THEN -quantity
	ELSE 0 END), 0)`

// StockRepository is the append-only stock ledger. OUT appends must be
// preceded by LockHistoryTx + CurrentStockTx inside the same transaction:
// lock → read → compare → write is what serializes concurrent sales of the
// same product.
type StockRepository interface {
	// LockHistoryTx takes FOR UPDATE row locks on every movement of the
	// (product, business) pair, blocking concurrent writers until the
	// enclosing transaction commits or rolls back.
	LockHistoryTx(tx *gorm.DB, productCode, businessCode string) error
	CurrentStockTx(tx *gorm.DB, productCode, businessCode string) (int, error)
	CurrentStock(ctx context.Context, productCode, businessCode string) (int, error)
	AppendTx(tx *gorm.DB, m *model.StockMovement) error

	History(ctx context.Context, productCode, businessCode string, filter dto.StockHistoryFilter) ([]model.StockMovement, error)
	Balance(ctx context.Context, productCode, businessCode string) (*model.StockBalance, error)

	// DB exposes the underlying handle so services can open transactions.
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) LockHistoryTx(tx *gorm.DB, productCode, businessCode string) error {
	var ids []uint
	return tx.Model(&model.StockMovement{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_code = ? AND business_code = ?", productCode, businessCode).
		Pluck("id", &ids).Error
}

func (r *stockRepo) CurrentStockTx(tx *gorm.DB, productCode, businessCode string) (int, error) {
	var stock int
	err := tx.Model(&model.StockMovement{}).
		Select(stockSumExpr).
		Where("product_code = ? AND business_code = ?", productCode, businessCode).
		Scan(&stock).Error
	return stock, err
}

func (r *stockRepo) CurrentStock(ctx context.Context, productCode, businessCode string) (int, error) {
	return r.CurrentStockTx(r.db.WithContext(ctx), productCode, businessCode)
}

func (r *stockRepo) AppendTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockRepo) History(ctx context.Context, productCode, businessCode string, filter dto.StockHistoryFilter) ([]model.StockMovement, error) {
	q := r.db.WithContext(ctx).
		Where("product_code = ? AND business_code = ?", productCode, businessCode)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		q = q.Where("entry_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("entry_at <= ?", *filter.EndDate)
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var movements []model.StockMovement
	err := q.Order("entry_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *stockRepo) Balance(ctx context.Context, productCode, businessCode string) (*model.StockBalance, error) {
	var agg struct {
		CurrentStock  int
		TotalStockIn  int
		TotalStockOut int
	}
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(stockSumExpr+` AS current_stock,
			COALESCE(SUM(CASE WHEN type IN ('OPENING','IN') THEN quantity ELSE 0 END), 0) AS total_stock_in,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) AS total_stock_out`).
		Where("product_code = ? AND business_code = ?", productCode, businessCode).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &model.StockBalance{
		ProductCode:   productCode,
		BusinessCode:  businessCode,
		CurrentStock:  agg.CurrentStock,
		TotalStockIn:  agg.TotalStockIn,
		TotalStockOut: agg.TotalStockOut,
	}, nil
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
