package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types shared by bills and quick bills.
const (
	DiscountFlat    = "FLAT"
	DiscountPercent = "PERCENT"
)

// QuickBill is the ad-hoc invoice variant: no product or customer foreign
// keys and no stock mutation. Customer identity is embedded as free text and
// only becomes mandatory when a CREDIT payment leg is present.
type QuickBill struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"column:quick_bill_code;uniqueIndex;not null"`
	BusinessCode string `gorm:"not null;index"`

	InvoiceName         string `gorm:"not null"`
	CustomerName        *string
	CustomerPhone       *string
	CustomerCountryCode *string
	CustomerGSTIN       *string
	CustomerAddress     *string
	Notes               *string
	InvoiceDate         *time.Time
	DueDate             *time.Time

	Subtotal decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	HasDiscount    bool    `gorm:"not null;default:false"`
	DiscountType   *string // FLAT | PERCENT, nil when HasDiscount is false
	DiscountValue  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	HasGST         bool    `gorm:"not null;default:false"`
	GSTType        *string // CGST_SGST | IGST, nil when HasGST is false
	GSTPercentage  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	GSTInclusive   bool            `gorm:"not null;default:false"`
	CGSTAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SGSTAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	IGSTAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalGSTAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	GrandTotal decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedBy  string          `gorm:"not null"`
	CreatedAt  time.Time

	Items    []QuickBillItem    `gorm:"foreignKey:QuickBillCode;references:Code"`
	Charges  []QuickBillCharge  `gorm:"foreignKey:QuickBillCode;references:Code"`
	Payments []QuickBillPayment `gorm:"foreignKey:QuickBillCode;references:Code"`
}

func (QuickBill) TableName() string { return "quick_bills" }

type QuickBillItem struct {
	ID            uint            `gorm:"primaryKey"`
	Code          string          `gorm:"column:item_code;uniqueIndex;not null"`
	QuickBillCode string          `gorm:"not null;index"`
	ItemName      string          `gorm:"not null"`
	Quantity      int             `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LineTotal     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt     time.Time
}

func (QuickBillItem) TableName() string { return "quick_bill_items" }

type QuickBillCharge struct {
	ID            uint            `gorm:"primaryKey"`
	Code          string          `gorm:"column:charge_code;uniqueIndex;not null"`
	QuickBillCode string          `gorm:"not null;index"`
	Name          string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt     time.Time
}

func (QuickBillCharge) TableName() string { return "quick_bill_charges" }

// QuickBillPayment stores RemainingDue as a point-in-time snapshot taken while
// reducing the grand total left to right across the payment list. It is a
// denormalized record of what was due at that moment, never recomputed later.
type QuickBillPayment struct {
	ID            uint            `gorm:"primaryKey"`
	Code          string          `gorm:"column:payment_code;uniqueIndex;not null"`
	QuickBillCode string          `gorm:"not null;index"`
	Mode          string          `gorm:"not null"` // CASH | UPI | CARD | CREDIT
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RemainingDue  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedBy     string          `gorm:"not null"`
	CreatedAt     time.Time
}

func (QuickBillPayment) TableName() string { return "quick_bill_payments" }
