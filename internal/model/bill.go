package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values, derived on read from summed payments vs grand total.
// Never stored, so they cannot drift from the payment rows.
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusUnpaid  = "UNPAID"
)

// Bill is an inventory-linked invoice. It is created once inside a single
// transaction together with its items, charges, discounts, payments, stock
// movements and ledger entries, and is immutable thereafter.
type Bill struct {
	ID           uint    `gorm:"primaryKey"`
	Code         string  `gorm:"column:bill_code;uniqueIndex;not null"`
	BusinessCode string  `gorm:"not null;index"`
	CustomerCode *string `gorm:"index"`

	InvoiceNumber string `gorm:"not null"`
	InvoiceDate   *time.Time
	DueDate       *time.Time

	Subtotal      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	DiscountTotal decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	Notes     *string
	CreatedBy string `gorm:"not null"`
	CreatedAt time.Time

	Items     []BillItem     `gorm:"foreignKey:BillCode;references:Code"`
	Charges   []BillCharge   `gorm:"foreignKey:BillCode;references:Code"`
	Discounts []BillDiscount `gorm:"foreignKey:BillCode;references:Code"`
	Payments  []BillPayment  `gorm:"foreignKey:BillCode;references:Code"`
}

func (Bill) TableName() string { return "bills" }

// BillItem snapshots the product at sale time (name, price, tax breakdown) so
// later catalog edits never retroactively alter historical bills.
type BillItem struct {
	ID          uint    `gorm:"primaryKey"`
	Code        string  `gorm:"column:item_code;uniqueIndex;not null"`
	BillCode    string  `gorm:"not null;index"`
	ProductCode *string `gorm:"index"`
	ProductName string  `gorm:"not null"`
	Quantity    int     `gorm:"not null"`
	Unit        string  `gorm:"not null;default:PCS"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxApplicable bool           `gorm:"not null;default:false"`
	GSTRate      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	GSTAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CGST         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SGST         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	IGST         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LineTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt    time.Time
}

func (BillItem) TableName() string { return "bill_items" }

type BillCharge struct {
	ID        uint            `gorm:"primaryKey"`
	Code      string          `gorm:"column:charge_code;uniqueIndex;not null"`
	BillCode  string          `gorm:"not null;index"`
	Name      string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time
}

func (BillCharge) TableName() string { return "bill_charges" }

type BillDiscount struct {
	ID        uint            `gorm:"primaryKey"`
	Code      string          `gorm:"column:discount_code;uniqueIndex;not null"`
	BillCode  string          `gorm:"not null;index"`
	Type      string          `gorm:"not null"` // FLAT | PERCENT
	Value     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time
}

func (BillDiscount) TableName() string { return "bill_discounts" }

// BillPayment records an already-settled payment leg. Payments always require
// an attached customer because each one posts a YOU_GOT ledger entry.
type BillPayment struct {
	ID           uint            `gorm:"primaryKey"`
	Code         string          `gorm:"column:payment_code;uniqueIndex;not null"`
	BillCode     string          `gorm:"not null;index"`
	CustomerCode string          `gorm:"not null"`
	Mode         string          `gorm:"not null"` // CASH | UPI | CARD | OTHER
	AmountPaid   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedBy    string          `gorm:"not null"`
	CreatedAt    time.Time
}

func (BillPayment) TableName() string { return "bill_payments" }
