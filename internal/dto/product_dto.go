package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Product CRUD ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string  `json:"product_name" validate:"required"`
	CategoryCode *string `json:"category_code"`
	// CategoryName triggers get-or-create when no CategoryCode is given.
	CategoryName *string `json:"category_name"`
	Barcode      *string `json:"barcode"`

	SellingPrice decimal.Decimal `json:"selling_price" validate:"required"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	GSTRate      decimal.Decimal `json:"gst_percentage"`
	GSTInclusive bool            `json:"is_gst_inclusive"`

	PrimaryUnit      string           `json:"unit_type"`
	HasSecondaryUnit bool             `json:"has_secondary_unit"`
	SecondaryUnit    *string          `json:"secondary_unit"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`

	OpeningStock    *int       `json:"opening_stock"    validate:"omitempty,min=0"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	ExpiryAlertDays *int       `json:"expiry_alert_days" validate:"omitempty,min=0"`
	LowStockAlert   *int       `json:"low_stock_alert"   validate:"omitempty,min=0"`
}

// UpdateProductRequest deliberately has no opening-stock field: stock only
// ever moves through stock movements.
type UpdateProductRequest struct {
	Name         *string `json:"product_name"`
	CategoryCode *string `json:"category_code"`
	CategoryName *string `json:"category_name"`
	Barcode      *string `json:"barcode"`

	SellingPrice *decimal.Decimal `json:"selling_price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	GSTRate      *decimal.Decimal `json:"gst_percentage"`
	GSTInclusive *bool            `json:"is_gst_inclusive"`

	PrimaryUnit      *string          `json:"unit_type"`
	HasSecondaryUnit *bool            `json:"has_secondary_unit"`
	SecondaryUnit    *string          `json:"secondary_unit"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`

	ExpiryDate      *time.Time `json:"expiry_date"`
	ExpiryAlertDays *int       `json:"expiry_alert_days" validate:"omitempty,min=0"`
	LowStockAlert   *int       `json:"low_stock_alert"   validate:"omitempty,min=0"`
}

type ProductFilter struct {
	CategoryCode string `form:"category_code"`
	Search       string `form:"search"`
	Status       string `form:"status"` // "" | low_stock
}

// ProductListItem is one row of the catalog listing; stock fields are derived
// from the movement history at read time.
type ProductListItem struct {
	ProductCode  string          `json:"product_code"`
	Name         string          `json:"product_name"`
	CategoryName *string         `json:"category_name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	GSTRate      decimal.Decimal `json:"gst_percentage"`
	CurrentStock int             `json:"current_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsExpired    bool            `json:"is_expired"`
}

type ProductListSummary struct {
	TotalProducts   int             `json:"total_products"`
	TotalCategories int             `json:"total_categories"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

type ProductListResponse struct {
	Summary  ProductListSummary `json:"summary"`
	Products []ProductListItem  `json:"products"`
}

type ProductView struct {
	ProductCode      string           `json:"product_code"`
	Name             string           `json:"product_name"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	GSTRate          decimal.Decimal  `json:"gst_percentage"`
	GSTInclusive     bool             `json:"is_gst_inclusive"`
	PrimaryUnit      string           `json:"unit_type"`
	HasSecondaryUnit bool             `json:"has_secondary_unit"`
	SecondaryUnit    *string          `json:"secondary_unit"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
	LowStockAlert    *int             `json:"low_stock_alert"`
	ExpiryDate       *time.Time       `json:"expiry_date"`
	ExpiryAlertDays  int              `json:"expiry_alert_days"`
	CurrentStock     int              `json:"current_stock"`
	StockValue       decimal.Decimal  `json:"stock_value"`
}

type StockHistoryView struct {
	Type       string          `json:"transaction_type"`
	Source     string          `json:"transaction_source"`
	Quantity   int             `json:"quantity"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	StockValue decimal.Decimal `json:"stock_value"`
	Note       *string         `json:"note"`
	EntryAt    time.Time       `json:"entry_datetime"`
}

type ProductDetailResponse struct {
	Product      ProductView        `json:"product"`
	StockHistory []StockHistoryView `json:"stock_history"`
}

// ─── Stock operations ────────────────────────────────────────────────────────

type StockMoveRequest struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    int             `json:"quantity"     validate:"required,min=1"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Note        *string         `json:"notes"`
	EntryDate   *time.Time      `json:"entry_date"`
}

type StockHistoryFilter struct {
	Type      string     `form:"transaction_type"` // OPENING | IN | OUT
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date"   time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=100" validate:"min=1,max=500"`
}
