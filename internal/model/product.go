package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a business-scoped catalog entry. Stock is never stored here,
// it is always derived from stock_movements. Products are never deleted,
// only deactivated, because historical bills reference them.
type Product struct {
	ID           uint    `gorm:"primaryKey"`
	Code         string  `gorm:"column:product_code;uniqueIndex;not null"`
	BusinessCode string  `gorm:"not null;index:idx_products_business"`
	CategoryCode *string `gorm:"index"`
	Name         string  `gorm:"not null"`
	Barcode      *string

	PrimaryUnit      string `gorm:"not null;default:PCS"`
	HasSecondaryUnit bool   `gorm:"not null;default:false"`
	SecondaryUnit    *string
	ConversionFactor *decimal.Decimal `gorm:"type:numeric(12,4)"`

	SellingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	GSTRate      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	GSTInclusive bool            `gorm:"not null;default:false"`

	ExpiryDate      *time.Time
	ExpiryAlertDays int  `gorm:"not null;default:0"`
	LowStockAlert   *int // nil = alerting disabled

	Active    bool   `gorm:"not null;default:true"`
	CreatedBy string `gorm:"not null"`
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string { return "products" }

// Category is provisioned lazily: a free-text category name on product
// creation is matched case-insensitively per business, created if absent.
type Category struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"column:category_code;uniqueIndex;not null"`
	BusinessCode string `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedBy    string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Category) TableName() string { return "categories" }
