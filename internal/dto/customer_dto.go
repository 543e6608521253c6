package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name        string `json:"customer_name" validate:"required"`
	Phone       string `json:"phone"         validate:"required"`
	CountryCode string `json:"country_code"`
}

type CreateCustomerResponse struct {
	CustomerCode string `json:"customer_code"`
	Name         string `json:"customer_name"`
	Phone        string `json:"phone"`
	// Exists flags an upsert hit: the phone already belonged to a customer of
	// this business and that customer was returned instead of a new one.
	Exists bool `json:"exists"`
}

type CustomerListItem struct {
	CustomerCode string `json:"customer_code"`
	Name         string `json:"customer_name"`
	Phone        string `json:"phone"`
}

// AddLedgerEntryRequest is the manual adjustment path into the customer
// ledger; bill-sourced entries are only ever written by the bill engine.
type AddLedgerEntryRequest struct {
	CustomerCode string          `json:"customer_code"    validate:"required"`
	Type         string          `json:"transaction_type" validate:"required,oneof=YOU_GAVE YOU_GOT"`
	PaymentMode  string          `json:"payment_mode"     validate:"omitempty,oneof=CASH UPI CARD OTHER"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	Note         *string         `json:"note"`
}

type LedgerEntryView struct {
	LedgerCode string          `json:"ledger_code"`
	EntryAt    time.Time       `json:"datetime"`
	Balance    decimal.Decimal `json:"balance"`
	YouGave    *decimal.Decimal `json:"you_gave"`
	YouGot     *decimal.Decimal `json:"you_got"`
	Tag        string          `json:"tag"` // transaction source
}

// CustomerFinal is the read-side reduction of the whole ledger: GET when the
// business is owed money, GIVE when it owes, CLEAR at zero.
type CustomerFinal struct {
	Status string          `json:"status"` // GET | GIVE | CLEAR
	Amount decimal.Decimal `json:"amount"`
}

type CustomerDetailResponse struct {
	Customer CustomerListItem  `json:"customer"`
	Final    CustomerFinal     `json:"final"`
	Entries  []LedgerEntryView `json:"entries"`
}
