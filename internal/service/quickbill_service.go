package service

import (
	"context"
	"strings"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/codegen"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// QuickBillService creates free-form invoices with no catalog or stock
// coupling. All customer data is embedded text; the only hard rule is that a
// CREDIT payment leg needs a customer name and phone to chase the debt.
type QuickBillService interface {
	CreateQuickBill(ctx context.Context, businessCode, userCode string, req dto.CreateQuickBillRequest) (*dto.CreateQuickBillResponse, error)
	ListQuickBills(ctx context.Context, businessCode string) ([]dto.QuickBillSummary, error)
	GetQuickBillDetails(ctx context.Context, quickBillCode, businessCode string) (*dto.QuickBillDetailResponse, error)
}

type quickBillService struct {
	repo repository.QuickBillRepository
}

func NewQuickBillService(repo repository.QuickBillRepository) QuickBillService {
	return &quickBillService{repo: repo}
}

func (s *quickBillService) validate(req dto.CreateQuickBillRequest) error {
	if len(req.Items) == 0 {
		return apperror.Validation("quick bill must contain at least one item")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return apperror.Validation("item quantity must be greater than 0")
		}
		if !it.Price.IsPositive() {
			return apperror.Validation("item price must be greater than 0")
		}
	}
	if !req.Bill.GrandTotal.IsPositive() {
		return apperror.Validation("grand total must be greater than 0")
	}

	if req.Bill.HasDiscount {
		if req.Bill.DiscountType == nil {
			return apperror.Validation("discount type is required when discount is enabled")
		}
		if req.Bill.DiscountValue.IsNegative() {
			return apperror.Validation("discount value cannot be negative")
		}
		switch *req.Bill.DiscountType {
		case model.DiscountFlat:
		case model.DiscountPercent:
			if req.Bill.DiscountValue.GreaterThan(hundred) {
				return apperror.Validation("percent discount cannot exceed 100")
			}
		default:
			return apperror.Validation("discount type must be FLAT or PERCENT")
		}
	}

	for _, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return apperror.Validation("payment amount must be greater than 0")
		}
		if p.Mode == "CREDIT" {
			name := req.Bill.CustomerName
			phone := req.Bill.CustomerPhone
			if name == nil || strings.TrimSpace(*name) == "" || phone == nil || strings.TrimSpace(*phone) == "" {
				return apperror.CustomerRequired("customer name and phone are required for credit payment")
			}
		}
	}
	return nil
}

func (s *quickBillService) CreateQuickBill(ctx context.Context, businessCode, userCode string, req dto.CreateQuickBillRequest) (*dto.CreateQuickBillResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	qb := &model.QuickBill{
		Code:                codegen.New("QBILL"),
		BusinessCode:        businessCode,
		InvoiceName:         req.Bill.InvoiceName,
		CustomerName:        req.Bill.CustomerName,
		CustomerPhone:       req.Bill.CustomerPhone,
		CustomerCountryCode: req.Bill.CustomerCountryCode,
		CustomerGSTIN:       req.Bill.CustomerGSTIN,
		CustomerAddress:     req.Bill.CustomerAddress,
		Notes:               req.Bill.Notes,
		InvoiceDate:         req.Bill.InvoiceDate,
		DueDate:             req.Bill.DueDate,
		Subtotal:            req.Bill.Subtotal,
		GrandTotal:          req.Bill.GrandTotal,
		CreatedBy:           userCode,
	}

	// Disabled flags force their dependent fields to zero so a half-filled
	// request can never store contradictory data.
	if req.Bill.HasDiscount {
		qb.HasDiscount = true
		qb.DiscountType = req.Bill.DiscountType
		qb.DiscountValue = req.Bill.DiscountValue
		qb.DiscountAmount = req.Bill.DiscountAmount
	} else {
		qb.DiscountValue = decimal.Zero
		qb.DiscountAmount = decimal.Zero
	}
	if req.Bill.HasGST {
		qb.HasGST = true
		qb.GSTType = req.Bill.GSTType
		qb.GSTPercentage = req.Bill.GSTPercentage
		qb.GSTInclusive = req.Bill.GSTInclusive
		qb.CGSTAmount = req.Bill.CGSTAmount
		qb.SGSTAmount = req.Bill.SGSTAmount
		qb.IGSTAmount = req.Bill.IGSTAmount
		qb.TotalGSTAmount = req.Bill.TotalGSTAmount
	} else {
		qb.GSTPercentage = decimal.Zero
		qb.CGSTAmount = decimal.Zero
		qb.SGSTAmount = decimal.Zero
		qb.IGSTAmount = decimal.Zero
		qb.TotalGSTAmount = decimal.Zero
	}

	for _, it := range req.Items {
		qb.Items = append(qb.Items, model.QuickBillItem{
			Code:      codegen.New("QBITEM"),
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: it.LineTotal,
		})
	}
	for _, c := range req.Charges {
		if !c.Amount.IsPositive() {
			continue
		}
		qb.Charges = append(qb.Charges, model.QuickBillCharge{
			Code:   codegen.New("QBCHARGE"),
			Name:   c.Name,
			Amount: c.Amount,
		})
	}

	// RemainingDue reduces left to right across the payment list and is
	// clamped at zero, a snapshot of what was still owed after each leg.
	remaining := req.Bill.GrandTotal
	for _, p := range req.Payments {
		remaining = remaining.Sub(p.Amount)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		qb.Payments = append(qb.Payments, model.QuickBillPayment{
			Code:         codegen.New("QBPAY"),
			Mode:         p.Mode,
			Amount:       p.Amount,
			RemainingDue: remaining,
			CreatedBy:    userCode,
		})
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, qb)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreateQuickBillResponse{QuickBillCode: qb.Code}, nil
}

func (s *quickBillService) ListQuickBills(ctx context.Context, businessCode string) ([]dto.QuickBillSummary, error) {
	rows, err := s.repo.List(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.QuickBillSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, dto.QuickBillSummary{
			QuickBillCode: r.BillCode,
			InvoiceName:   r.InvoiceNumber,
			CustomerName:  r.CustomerName,
			GrandTotal:    r.GrandTotal,
			TotalPaid:     r.TotalPaid,
			PaymentStatus: paymentStatus(r.TotalPaid, r.GrandTotal),
			CreatedBy:     r.CreatedBy,
			CreatedAt:     r.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *quickBillService) GetQuickBillDetails(ctx context.Context, quickBillCode, businessCode string) (*dto.QuickBillDetailResponse, error) {
	qb, err := s.repo.FindDetail(ctx, quickBillCode, businessCode)
	if err != nil {
		return nil, err
	}
	if qb == nil {
		return nil, apperror.NotFound("quick bill %s not found", quickBillCode)
	}

	resp := &dto.QuickBillDetailResponse{
		QuickBillCode: qb.Code,
		InvoiceName:   qb.InvoiceName,
		CustomerName:  qb.CustomerName,
		Subtotal:      qb.Subtotal,
		GrandTotal:    qb.GrandTotal,
		CreatedAt:     qb.CreatedAt,
		Items:         make([]dto.QuickBillItemView, 0, len(qb.Items)),
		Payments:      make([]dto.QuickBillPaymentView, 0, len(qb.Payments)),
		Charges:       make([]dto.BillChargeView, 0, len(qb.Charges)),
	}
	for _, it := range qb.Items {
		resp.Items = append(resp.Items, dto.QuickBillItemView{
			ItemCode:  it.Code,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: it.LineTotal,
		})
	}
	for _, p := range qb.Payments {
		resp.Payments = append(resp.Payments, dto.QuickBillPaymentView{
			PaymentCode:  p.Code,
			Mode:         p.Mode,
			Amount:       p.Amount,
			RemainingDue: p.RemainingDue,
			CreatedAt:    p.CreatedAt,
		})
	}
	for _, c := range qb.Charges {
		resp.Charges = append(resp.Charges, dto.BillChargeView{
			ChargeCode: c.Code,
			Name:       c.Name,
			Amount:     c.Amount,
		})
	}
	return resp, nil
}
