package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuickBillHeaderInput struct {
	InvoiceName         string     `json:"invoice_name" validate:"required"`
	CustomerName        *string    `json:"customer_name"`
	CustomerPhone       *string    `json:"customer_phone"`
	CustomerCountryCode *string    `json:"customer_country_code"`
	CustomerGSTIN       *string    `json:"customer_gstin"`
	CustomerAddress     *string    `json:"customer_address"`
	Notes               *string    `json:"notes"`
	InvoiceDate         *time.Time `json:"invoice_date"`
	DueDate             *time.Time `json:"due_date"`

	Subtotal decimal.Decimal `json:"subtotal"`

	HasDiscount    bool            `json:"has_discount"`
	DiscountType   *string         `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`

	HasGST         bool            `json:"has_gst"`
	GSTType        *string         `json:"gst_type"`
	GSTPercentage  decimal.Decimal `json:"gst_percentage"`
	GSTInclusive   bool            `json:"is_gst_inclusive"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount"`
	IGSTAmount     decimal.Decimal `json:"igst_amount"`
	TotalGSTAmount decimal.Decimal `json:"total_gst_amount"`

	GrandTotal decimal.Decimal `json:"grand_total" validate:"required"`
}

type QuickBillItemInput struct {
	ItemName  string          `json:"item_name" validate:"required"`
	Quantity  int             `json:"quantity"  validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"      validate:"required"`
	LineTotal decimal.Decimal `json:"line_total" validate:"required"`
}

type QuickBillChargeInput struct {
	Name   string          `json:"charge_name" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type QuickBillPaymentInput struct {
	Mode   string          `json:"payment_mode" validate:"required,oneof=CASH UPI CARD CREDIT"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type CreateQuickBillRequest struct {
	Bill     QuickBillHeaderInput    `json:"bill" validate:"required"`
	Items    []QuickBillItemInput    `json:"items"    validate:"omitempty,dive"`
	Charges  []QuickBillChargeInput  `json:"charges"  validate:"omitempty,dive"`
	Payments []QuickBillPaymentInput `json:"payments" validate:"omitempty,dive"`
}

type CreateQuickBillResponse struct {
	QuickBillCode string `json:"quick_bill_unique_code"`
}

type QuickBillSummary struct {
	QuickBillCode string          `json:"quick_bill_code"`
	InvoiceName   string          `json:"invoice_name"`
	CustomerName  *string         `json:"customer_name"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	PaymentStatus string          `json:"payment_status"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type QuickBillPaymentView struct {
	PaymentCode  string          `json:"payment_code"`
	Mode         string          `json:"payment_mode"`
	Amount       decimal.Decimal `json:"amount"`
	RemainingDue decimal.Decimal `json:"remaining_due"`
	CreatedAt    time.Time       `json:"created_at"`
}

type QuickBillItemView struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type QuickBillDetailResponse struct {
	QuickBillCode string                 `json:"quick_bill_code"`
	InvoiceName   string                 `json:"invoice_name"`
	CustomerName  *string                `json:"customer_name"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	GrandTotal    decimal.Decimal        `json:"grand_total"`
	CreatedAt     time.Time              `json:"created_at"`
	Items         []QuickBillItemView    `json:"items"`
	Payments      []QuickBillPaymentView `json:"payments"`
	Charges       []BillChargeView       `json:"charges"`
}
