package service

import (
	"context"
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/codegen"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"
	"github.com/ayushsinghal5500/ekbill-backend/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// totalEpsilon absorbs client-side rounding when comparing the caller's grand
// total against the server recomputation.
var totalEpsilon = decimal.NewFromFloat(0.01)

// BillService is the atomic bill engine. CreateBill writes the bill header,
// item snapshots, OUT stock movements, charges, discounts, payments and the
// customer ledger entries in one transaction: either the whole sale lands or
// none of it does.
type BillService interface {
	CreateBill(ctx context.Context, businessCode, userCode string, req dto.CreateBillRequest) (*dto.CreateBillResponse, error)
	ListBills(ctx context.Context, businessCode string) ([]dto.BillSummary, error)
	GetBillDetails(ctx context.Context, billCode, businessCode string) (*dto.BillDetailResponse, error)
}

type billService struct {
	billRepo     repository.BillRepository
	productRepo  repository.ProductRepository
	stockRepo    repository.StockRepository
	ledgerRepo   repository.LedgerRepository
	customerRepo repository.CustomerRepository
	notif        NotificationService
	dispatcher   *worker.Dispatcher
}

func NewBillService(
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
	notif NotificationService,
	dispatcher *worker.Dispatcher,
) BillService {
	return &billService{
		billRepo:     billRepo,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
		notif:        notif,
		dispatcher:   dispatcher,
	}
}

// paymentStatus derives the status from totals; it is never stored.
func paymentStatus(totalPaid, grandTotal decimal.Decimal) string {
	switch {
	case totalPaid.GreaterThanOrEqual(grandTotal):
		return model.PaymentStatusPaid
	case totalPaid.IsPositive():
		return model.PaymentStatusPartial
	default:
		return model.PaymentStatusUnpaid
	}
}

func (s *billService) validate(req dto.CreateBillRequest) error {
	if len(req.Items) == 0 {
		return apperror.Validation("bill must contain at least one item")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return apperror.Validation("item quantity must be greater than 0")
		}
	}
	if !req.Bill.GrandTotal.IsPositive() {
		return apperror.Validation("grand total must be greater than 0")
	}
	if len(req.Payments) > 0 && req.Bill.CustomerCode == nil {
		return apperror.CustomerRequired("customer is required when payments are recorded")
	}
	for _, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return apperror.Validation("payment amount must be greater than 0")
		}
	}

	// The caller's grand total must agree with what the components add up to.
	computed := req.Bill.Subtotal.Add(req.Bill.TaxTotal).Sub(req.Bill.DiscountTotal)
	for _, c := range req.Charges {
		if c.Amount.IsPositive() {
			computed = computed.Add(c.Amount)
		}
	}
	if computed.Sub(req.Bill.GrandTotal).Abs().GreaterThan(totalEpsilon) {
		return apperror.Validation("grand total %s does not match computed total %s",
			req.Bill.GrandTotal.StringFixed(2), computed.StringFixed(2))
	}
	return nil
}

func (s *billService) CreateBill(ctx context.Context, businessCode, userCode string, req dto.CreateBillRequest) (*dto.CreateBillResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if req.Bill.CustomerCode != nil {
		customer, err := s.customerRepo.FindByCode(ctx, *req.Bill.CustomerCode, businessCode)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NotFound("customer %s not found", *req.Bill.CustomerCode)
		}
	}

	now := time.Now()
	bill := &model.Bill{
		Code:          codegen.New("BILL"),
		BusinessCode:  businessCode,
		CustomerCode:  req.Bill.CustomerCode,
		InvoiceNumber: req.Bill.InvoiceNumber,
		InvoiceDate:   req.Bill.InvoiceDate,
		DueDate:       req.Bill.DueDate,
		Subtotal:      req.Bill.Subtotal,
		TaxTotal:      req.Bill.TaxTotal,
		DiscountTotal: req.Bill.DiscountTotal,
		GrandTotal:    req.Bill.GrandTotal,
		Notes:         req.Bill.Notes,
		CreatedBy:     userCode,
	}

	totalPaid := decimal.Zero
	err := runTx(ctx, s.billRepo.DB(), func(tx *gorm.DB) error {
		if err := s.billRepo.CreateTx(tx, bill); err != nil {
			return err
		}

		// Items: lock, verify, snapshot, deduct. Each product's history is
		// row-locked before the availability check so two concurrent bills
		// cannot both pass the check on the last units.
		touched := make(map[string]bool, len(req.Items))
		for _, it := range req.Items {
			product, err := s.productRepo.FindByCodeTx(tx, it.ProductCode, businessCode)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NotFound("product %s not found", it.ProductCode)
			}

			if err := s.stockRepo.LockHistoryTx(tx, it.ProductCode, businessCode); err != nil {
				return err
			}
			current, err := s.stockRepo.CurrentStockTx(tx, it.ProductCode, businessCode)
			if err != nil {
				return err
			}
			if current < it.Quantity {
				return &apperror.InsufficientStockError{
					ProductCode: it.ProductCode,
					Available:   current,
					Requested:   it.Quantity,
				}
			}

			unit := it.Unit
			if unit == "" {
				unit = product.PrimaryUnit
			}
			productCode := it.ProductCode
			if err := s.billRepo.AddItemTx(tx, &model.BillItem{
				Code:          codegen.New("BILLITEM"),
				BillCode:      bill.Code,
				ProductCode:   &productCode,
				ProductName:   product.Name,
				Quantity:      it.Quantity,
				Unit:          unit,
				SellingPrice:  it.SellingPrice,
				TaxApplicable: it.TaxApplicable,
				GSTRate:       it.GSTRate,
				GSTAmount:     it.GSTAmount,
				CGST:          it.CGST,
				SGST:          it.SGST,
				IGST:          it.IGST,
				LineTotal:     it.LineTotal,
			}); err != nil {
				return err
			}

			note := "Sold via bill " + bill.InvoiceNumber
			if err := s.stockRepo.AppendTx(tx, &model.StockMovement{
				Code:              codegen.New("STOCKHIST"),
				ProductCode:       it.ProductCode,
				BusinessCode:      businessCode,
				Type:              model.MovementOut,
				Source:            model.SourceBill,
				Quantity:          it.Quantity,
				Unit:              unit,
				Price:             it.SellingPrice,
				ReferenceBillCode: &bill.Code,
				Note:              &note,
				EntryAt:           now,
				CreatedBy:         userCode,
			}); err != nil {
				return err
			}
			touched[it.ProductCode] = true
		}

		// One low-stock check per distinct product, after all its deductions.
		for productCode := range touched {
			if err := s.notif.CheckLowStockTx(tx, productCode, businessCode); err != nil {
				return err
			}
		}

		for _, c := range req.Charges {
			if !c.Amount.IsPositive() {
				continue
			}
			if err := s.billRepo.AddChargeTx(tx, &model.BillCharge{
				Code:     codegen.New("BILLCHARGE"),
				BillCode: bill.Code,
				Name:     c.Name,
				Amount:   c.Amount,
			}); err != nil {
				return err
			}
		}

		for _, d := range req.Discounts {
			if !d.Amount.IsPositive() {
				continue
			}
			if err := s.billRepo.AddDiscountTx(tx, &model.BillDiscount{
				Code:     codegen.New("BILLDISC"),
				BillCode: bill.Code,
				Type:     d.Type,
				Value:    d.Value,
				Amount:   d.Amount,
			}); err != nil {
				return err
			}
		}

		// Payments post YOU_GOT ledger entries; any shortfall posts the due
		// as a single YOU_GAVE entry. All chained off the customer's last
		// balance inside this same transaction.
		for _, p := range req.Payments {
			if err := s.billRepo.AddPaymentTx(tx, &model.BillPayment{
				Code:         codegen.New("BILLPAY"),
				BillCode:     bill.Code,
				CustomerCode: *req.Bill.CustomerCode,
				Mode:         p.Mode,
				AmountPaid:   p.Amount,
				CreatedBy:    userCode,
			}); err != nil {
				return err
			}
			if err := s.appendLedgerTx(tx, businessCode, *req.Bill.CustomerCode, userCode,
				model.LedgerYouGot, p.Mode, p.Amount, bill.Code, "Payment for bill "+bill.InvoiceNumber); err != nil {
				return err
			}
			totalPaid = totalPaid.Add(p.Amount)
		}

		if req.Bill.CustomerCode != nil && bill.GrandTotal.GreaterThan(totalPaid) {
			due := bill.GrandTotal.Sub(totalPaid)
			if err := s.appendLedgerTx(tx, businessCode, *req.Bill.CustomerCode, userCode,
				model.LedgerYouGave, "OTHER", due, bill.Code, "Due for bill "+bill.InvoiceNumber); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.dispatcher.EnqueueAlertRefresh(ctx, businessCode); err != nil {
		log.Warn().Err(err).Str("business_code", businessCode).Msg("alert refresh enqueue failed")
	}

	remaining := bill.GrandTotal.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return &dto.CreateBillResponse{
		BillCode:      bill.Code,
		InvoiceNumber: bill.InvoiceNumber,
		GrandTotal:    bill.GrandTotal,
		PaidAmount:    totalPaid,
		RemainingDue:  remaining,
		PaymentStatus: paymentStatus(totalPaid, bill.GrandTotal),
	}, nil
}

// appendLedgerTx chains one entry off the customer's latest balance.
func (s *billService) appendLedgerTx(tx *gorm.DB, businessCode, customerCode, userCode, entryType, mode string, amount decimal.Decimal, billCode, note string) error {
	before, err := s.ledgerRepo.LastBalanceTx(tx, businessCode, customerCode)
	if err != nil {
		return err
	}
	after := before.Add(amount)
	if entryType == model.LedgerYouGot {
		after = before.Sub(amount)
	}
	return s.ledgerRepo.AppendTx(tx, &model.LedgerEntry{
		Code:              codegen.New("LEDGER"),
		BusinessCode:      businessCode,
		CustomerCode:      customerCode,
		Type:              entryType,
		Source:            model.SourceBill,
		PaymentMode:       mode,
		Amount:            amount,
		BalanceBefore:     before,
		BalanceAfter:      after,
		ReferenceBillCode: &billCode,
		Note:              &note,
		EntryAt:           time.Now(),
		CreatedBy:         userCode,
	})
}

func (s *billService) ListBills(ctx context.Context, businessCode string) ([]dto.BillSummary, error) {
	rows, err := s.billRepo.List(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.BillSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, dto.BillSummary{
			BillCode:      r.BillCode,
			InvoiceNumber: r.InvoiceNumber,
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

func (s *billService) GetBillDetails(ctx context.Context, billCode, businessCode string) (*dto.BillDetailResponse, error) {
	bill, err := s.billRepo.FindDetail(ctx, billCode, businessCode)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NotFound("bill %s not found", billCode)
	}

	resp := &dto.BillDetailResponse{
		BillCode:      bill.Code,
		BusinessCode:  bill.BusinessCode,
		CustomerCode:  bill.CustomerCode,
		InvoiceNumber: bill.InvoiceNumber,
		Subtotal:      bill.Subtotal,
		TaxTotal:      bill.TaxTotal,
		DiscountTotal: bill.DiscountTotal,
		GrandTotal:    bill.GrandTotal,
		CreatedAt:     bill.CreatedAt,
		Items:         make([]dto.BillItemView, 0, len(bill.Items)),
		Payments:      make([]dto.BillPaymentView, 0, len(bill.Payments)),
		Charges:       make([]dto.BillChargeView, 0, len(bill.Charges)),
	}
	for _, it := range bill.Items {
		resp.Items = append(resp.Items, dto.BillItemView{
			ItemCode:     it.Code,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			SellingPrice: it.SellingPrice,
			LineTotal:    it.LineTotal,
		})
	}
	for _, p := range bill.Payments {
		resp.Payments = append(resp.Payments, dto.BillPaymentView{
			PaymentCode: p.Code,
			Mode:        p.Mode,
			AmountPaid:  p.AmountPaid,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, c := range bill.Charges {
		resp.Charges = append(resp.Charges, dto.BillChargeView{
			ChargeCode: c.Code,
			Name:       c.Name,
			Amount:     c.Amount,
		})
	}
	return resp, nil
}
