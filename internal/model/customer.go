package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the minimal directory entry the billing core needs: a stable
// code to attach payments and ledger entries to. Phone is unique per business.
type Customer struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"column:customer_code;uniqueIndex;not null"`
	BusinessCode string `gorm:"not null;uniqueIndex:idx_customers_business_phone"`
	Name         string `gorm:"not null"`
	Phone        string `gorm:"not null;uniqueIndex:idx_customers_business_phone"`
	CountryCode  string `gorm:"not null;default:+91"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedBy    string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Customer) TableName() string { return "customers" }

// Ledger transaction types. Sign convention: YOU_GAVE increases the running
// balance (the customer owes more), YOU_GOT decreases it. A positive balance
// therefore means the business is owed money ("GET").
const (
	LedgerYouGave = "YOU_GAVE"
	LedgerYouGot  = "YOU_GOT"
)

// LedgerEntry is one immutable row of the append-only customer debt ledger.
// Entries chain: balance_before of each entry equals balance_after of the
// previous entry for the same (business, customer), ordered by EntryAt.
// Zero is the implicit initial balance; there is no stored opening row.
type LedgerEntry struct {
	ID                uint   `gorm:"primaryKey"`
	Code              string `gorm:"column:ledger_code;uniqueIndex;not null"`
	BusinessCode      string `gorm:"not null;index:idx_ledger_business_customer"`
	CustomerCode      string `gorm:"not null;index:idx_ledger_business_customer"`
	Type              string `gorm:"not null"` // YOU_GAVE | YOU_GOT
	Source            string `gorm:"not null"` // MANUAL | BILL | ADJUSTMENT
	PaymentMode       string `gorm:"not null;default:OTHER"`
	Amount            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BalanceBefore     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BalanceAfter      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ReferenceBillCode *string
	Note              *string
	EntryAt           time.Time `gorm:"not null"`
	CreatedBy         string    `gorm:"not null"`
	CreatedAt         time.Time
}

func (LedgerEntry) TableName() string { return "customer_ledger" }
