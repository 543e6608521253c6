package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types. OPENING is inserted exactly once, at product creation, and
// counts the same as IN for balance purposes.
const (
	MovementOpening = "OPENING"
	MovementIn      = "IN"
	MovementOut     = "OUT"
)

// Movement sources.
const (
	SourceBill       = "BILL"
	SourceManual     = "MANUAL"
	SourceAdjustment = "ADJUSTMENT"
)

// StockMovement is one immutable row of the append-only stock ledger.
// Current stock for a (product, business) pair is the signed sum over all its
// movements; no materialized counter exists anywhere.
type StockMovement struct {
	ID                uint   `gorm:"primaryKey"`
	Code              string `gorm:"column:movement_code;uniqueIndex;not null"`
	ProductCode       string `gorm:"not null;index:idx_stock_product_business"`
	BusinessCode      string `gorm:"not null;index:idx_stock_product_business"`
	Type              string `gorm:"not null"` // OPENING | IN | OUT
	Source            string `gorm:"not null"` // BILL | MANUAL | ADJUSTMENT
	Quantity          int    `gorm:"not null"` // always positive; sign comes from Type
	Unit              string `gorm:"not null;default:PCS"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ReferenceBillCode *string
	Note              *string
	EntryAt           time.Time `gorm:"not null"`
	CreatedBy         string    `gorm:"not null"`
	CreatedAt         time.Time
}

func (StockMovement) TableName() string { return "stock_movements" }

// StockBalance is the aggregate view returned by the balance endpoint.
type StockBalance struct {
	ProductCode   string `json:"product_code"`
	BusinessCode  string `json:"business_code"`
	CurrentStock  int    `json:"current_stock"`
	TotalStockIn  int    `json:"total_stock_in"`
	TotalStockOut int    `json:"total_stock_out"`
}
