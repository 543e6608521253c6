package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Requests ────────────────────────────────────────────────────────────────

// BillHeaderInput carries the caller-computed totals. GrandTotal is mandatory;
// the service recomputes subtotal + tax + charges − discounts and rejects
// mismatches beyond a rounding epsilon.
type BillHeaderInput struct {
	CustomerCode  *string         `json:"customer_code"`
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	InvoiceDate   *time.Time      `json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	GrandTotal    decimal.Decimal `json:"grand_total" validate:"required"`
	Notes         *string         `json:"notes"`
}

type BillItemInput struct {
	ProductCode   string          `json:"product_code" validate:"required"`
	Quantity      int             `json:"quantity"     validate:"required,min=1"`
	Unit          string          `json:"unit"`
	SellingPrice  decimal.Decimal `json:"selling_price" validate:"required"`
	TaxApplicable bool            `json:"tax_applicable"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	LineTotal     decimal.Decimal `json:"line_total" validate:"required"`
}

type BillChargeInput struct {
	Name   string          `json:"charge_name" validate:"required"`
	Amount decimal.Decimal `json:"charge_amount"`
}

type BillDiscountInput struct {
	Type   string          `json:"discount_type" validate:"required,oneof=FLAT PERCENT"`
	Value  decimal.Decimal `json:"discount_value"`
	Amount decimal.Decimal `json:"discount_amount"`
}

type BillPaymentInput struct {
	Mode   string          `json:"payment_mode" validate:"required,oneof=CASH UPI CARD OTHER"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type CreateBillRequest struct {
	Bill      BillHeaderInput     `json:"bill" validate:"required"`
	Items     []BillItemInput     `json:"items"     validate:"omitempty,dive"`
	Charges   []BillChargeInput   `json:"charges"   validate:"omitempty,dive"`
	Discounts []BillDiscountInput `json:"discounts" validate:"omitempty,dive"`
	Payments  []BillPaymentInput  `json:"payments"  validate:"omitempty,dive"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type CreateBillResponse struct {
	BillCode      string          `json:"bill_code"`
	InvoiceNumber string          `json:"invoice_number"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	RemainingDue  decimal.Decimal `json:"remaining_due"`
	PaymentStatus string          `json:"payment_status"`
}

// BillSummary is one row of GET /v1/bills. TotalPaid and PaymentStatus are
// recomputed from the payment rows on every read.
type BillSummary struct {
	BillCode      string          `json:"bill_code"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  *string         `json:"customer_name"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	PaymentStatus string          `json:"payment_status"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type BillItemView struct {
	ItemCode     string          `json:"item_code"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type BillPaymentView struct {
	PaymentCode string          `json:"payment_code"`
	Mode        string          `json:"payment_mode"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	CreatedAt   time.Time       `json:"created_at"`
}

type BillChargeView struct {
	ChargeCode string          `json:"charge_code"`
	Name       string          `json:"charge_name"`
	Amount     decimal.Decimal `json:"charge_amount"`
}

type BillDetailResponse struct {
	BillCode      string            `json:"bill_code"`
	BusinessCode  string            `json:"business_code"`
	CustomerCode  *string           `json:"customer_code"`
	InvoiceNumber string            `json:"invoice_number"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxTotal      decimal.Decimal   `json:"tax_total"`
	DiscountTotal decimal.Decimal   `json:"discount_total"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []BillItemView    `json:"items"`
	Payments      []BillPaymentView `json:"payments"`
	Charges       []BillChargeView  `json:"charges"`
}
