package service

import (
	"context"
	"testing"
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/codegen"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBillSvc() (BillService, *stubBillRepo, *stubProductRepo, *stubStockRepo, *stubLedgerRepo, *stubCustomerRepo, *stubNotificationRepo) {
	billRepo := newStubBillRepo()
	productRepo := newStubProductRepo()
	stockRepo := &stubStockRepo{}
	ledgerRepo := &stubLedgerRepo{}
	customerRepo := newStubCustomerRepo()
	notifRepo := &stubNotificationRepo{}
	notifSvc := NewNotificationService(notifRepo, productRepo, stockRepo)

	svc := NewBillService(billRepo, productRepo, stockRepo, ledgerRepo, customerRepo, notifSvc, nil)
	return svc, billRepo, productRepo, stockRepo, ledgerRepo, customerRepo, notifRepo
}

func seedCustomer(repo *stubCustomerRepo, name, phone string) *model.Customer {
	c := &model.Customer{
		Code:         codegen.New("CUST"),
		BusinessCode: testBusiness,
		Name:         name,
		Phone:        phone,
		Active:       true,
		CreatedBy:    testUser,
	}
	repo.customers[c.Code] = c
	return c
}

func billRequest(productCode string, customerCode *string, qty int, price, grand decimal.Decimal) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		Bill: dto.BillHeaderInput{
			CustomerCode:  customerCode,
			InvoiceNumber: "INV-001",
			Subtotal:      grand,
			GrandTotal:    grand,
		},
		Items: []dto.BillItemInput{{
			ProductCode:  productCode,
			Quantity:     qty,
			SellingPrice: price,
			LineTotal:    price.Mul(decimal.NewFromInt(int64(qty))),
		}},
	}
}

func TestCreateBill_FullPaymentPaid(t *testing.T) {
	svc, billRepo, productRepo, stockRepo, ledgerRepo, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Soap", 20, nil)
	c := seedCustomer(customerRepo, "Ravi", "9876543210")

	req := billRequest(p.Code, &c.Code, 2, decimal.NewFromInt(50), decimal.NewFromInt(100))
	req.Payments = []dto.BillPaymentInput{{Mode: "CASH", Amount: decimal.NewFromInt(100)}}

	resp, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, resp.PaymentStatus)
	assert.True(t, resp.RemainingDue.IsZero())
	assert.Equal(t, "100", resp.PaidAmount.String())

	// Stock deducted via an OUT movement sourced from the bill.
	stock, _ := stockRepo.CurrentStock(context.Background(), p.Code, testBusiness)
	assert.Equal(t, 18, stock)
	out := stockRepo.movements[len(stockRepo.movements)-1]
	assert.Equal(t, model.MovementOut, out.Type)
	assert.Equal(t, model.SourceBill, out.Source)
	require.NotNil(t, out.ReferenceBillCode)
	assert.Equal(t, resp.BillCode, *out.ReferenceBillCode)

	// One YOU_GOT entry, no due entry.
	require.Len(t, ledgerRepo.entries, 1)
	entry := ledgerRepo.entries[0]
	assert.Equal(t, model.LedgerYouGot, entry.Type)
	assert.Equal(t, "-100", entry.BalanceAfter.String())

	// Item snapshot carries the product name.
	require.Len(t, billRepo.items, 1)
	assert.Equal(t, "Soap", billRepo.items[0].ProductName)
}

func TestCreateBill_PartialPaymentPostsDue(t *testing.T) {
	svc, _, productRepo, stockRepo, ledgerRepo, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Rice 5kg", 10, nil)
	c := seedCustomer(customerRepo, "Meena", "9000000001")

	req := billRequest(p.Code, &c.Code, 1, decimal.NewFromInt(400), decimal.NewFromInt(400))
	req.Payments = []dto.BillPaymentInput{{Mode: "UPI", Amount: decimal.NewFromInt(150)}}

	resp, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, resp.PaymentStatus)
	assert.Equal(t, "250", resp.RemainingDue.String())

	// YOU_GOT for the payment, then YOU_GAVE for the shortfall; chained.
	require.Len(t, ledgerRepo.entries, 2)
	got, gave := ledgerRepo.entries[0], ledgerRepo.entries[1]
	assert.Equal(t, model.LedgerYouGot, got.Type)
	assert.Equal(t, "-150", got.BalanceAfter.String())
	assert.Equal(t, model.LedgerYouGave, gave.Type)
	assert.Equal(t, got.BalanceAfter.String(), gave.BalanceBefore.String())
	assert.Equal(t, "100", gave.BalanceAfter.String()) // -150 + 250
}

func TestCreateBill_NoPaymentUnpaid(t *testing.T) {
	svc, _, productRepo, stockRepo, ledgerRepo, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Atta 10kg", 5, nil)
	c := seedCustomer(customerRepo, "Sunil", "9000000002")

	resp, err := svc.CreateBill(context.Background(), testBusiness, testUser,
		billRequest(p.Code, &c.Code, 1, decimal.NewFromInt(500), decimal.NewFromInt(500)))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusUnpaid, resp.PaymentStatus)

	// Whole amount lands as one YOU_GAVE due entry.
	require.Len(t, ledgerRepo.entries, 1)
	assert.Equal(t, model.LedgerYouGave, ledgerRepo.entries[0].Type)
	assert.Equal(t, "500", ledgerRepo.entries[0].BalanceAfter.String())
}

func TestCreateBill_PaymentWithoutCustomer(t *testing.T) {
	svc, _, productRepo, stockRepo, _, _, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Tea", 10, nil)

	req := billRequest(p.Code, nil, 1, decimal.NewFromInt(60), decimal.NewFromInt(60))
	req.Payments = []dto.BillPaymentInput{{Mode: "CASH", Amount: decimal.NewFromInt(60)}}

	_, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	assert.Equal(t, apperror.KindCustomerRequired, apperror.KindOf(err))
}

func TestCreateBill_InsufficientStock(t *testing.T) {
	svc, _, productRepo, stockRepo, _, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Butter", 2, nil)
	c := seedCustomer(customerRepo, "Asha", "9000000003")

	_, err := svc.CreateBill(context.Background(), testBusiness, testUser,
		billRequest(p.Code, &c.Code, 5, decimal.NewFromInt(55), decimal.NewFromInt(275)))
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
}

func TestCreateBill_GrandTotalMismatch(t *testing.T) {
	svc, _, productRepo, stockRepo, _, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Salt", 10, nil)
	c := seedCustomer(customerRepo, "Vikram", "9000000004")

	req := billRequest(p.Code, &c.Code, 1, decimal.NewFromInt(20), decimal.NewFromInt(20))
	req.Bill.GrandTotal = decimal.NewFromInt(25) // subtotal says 20

	_, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.ErrorContains(t, err, "does not match")
}

func TestCreateBill_RoundingWithinEpsilon(t *testing.T) {
	svc, _, productRepo, stockRepo, _, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Curd", 10, nil)
	c := seedCustomer(customerRepo, "Rekha", "9000000005")

	req := billRequest(p.Code, &c.Code, 1, decimal.NewFromFloat(33.33), decimal.NewFromFloat(33.33))
	req.Bill.GrandTotal = decimal.NewFromFloat(33.34) // off by one paisa

	_, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	assert.NoError(t, err)
}

func TestCreateBill_ChargesAndDiscounts(t *testing.T) {
	svc, billRepo, productRepo, stockRepo, _, customerRepo, _ := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Paneer", 10, nil)
	c := seedCustomer(customerRepo, "Dev", "9000000006")

	// 200 subtotal + 30 delivery − 20 discount = 210
	req := dto.CreateBillRequest{
		Bill: dto.BillHeaderInput{
			CustomerCode:  &c.Code,
			InvoiceNumber: "INV-002",
			Subtotal:      decimal.NewFromInt(200),
			DiscountTotal: decimal.NewFromInt(20),
			GrandTotal:    decimal.NewFromInt(210),
		},
		Items: []dto.BillItemInput{{
			ProductCode:  p.Code,
			Quantity:     1,
			SellingPrice: decimal.NewFromInt(200),
			LineTotal:    decimal.NewFromInt(200),
		}},
		Charges: []dto.BillChargeInput{
			{Name: "Delivery", Amount: decimal.NewFromInt(30)},
			{Name: "Skipped", Amount: decimal.Zero}, // non-positive, dropped
		},
		Discounts: []dto.BillDiscountInput{
			{Type: model.DiscountFlat, Value: decimal.NewFromInt(20), Amount: decimal.NewFromInt(20)},
		},
	}

	_, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	require.NoError(t, err)
	assert.Len(t, billRepo.charges, 1)
	assert.Len(t, billRepo.discounts, 1)
}

func TestCreateBill_LowStockCheckedOncePerProduct(t *testing.T) {
	svc, _, productRepo, stockRepo, _, customerRepo, notifRepo := buildBillSvc()
	p := seedProduct(productRepo, stockRepo, "Eggs", 12, intPtr(6))
	c := seedCustomer(customerRepo, "Nita", "9000000007")

	// Two lines of the same product: 12 − 4 − 4 = 4 ≤ threshold 6.
	price := decimal.NewFromInt(6)
	req := dto.CreateBillRequest{
		Bill: dto.BillHeaderInput{
			CustomerCode:  &c.Code,
			InvoiceNumber: "INV-003",
			Subtotal:      decimal.NewFromInt(48),
			GrandTotal:    decimal.NewFromInt(48),
		},
		Items: []dto.BillItemInput{
			{ProductCode: p.Code, Quantity: 4, SellingPrice: price, LineTotal: decimal.NewFromInt(24)},
			{ProductCode: p.Code, Quantity: 4, SellingPrice: price, LineTotal: decimal.NewFromInt(24)},
		},
	}

	_, err := svc.CreateBill(context.Background(), testBusiness, testUser, req)
	require.NoError(t, err)
	assert.Len(t, notifRepo.notifications, 1)
}

func TestListBills_DerivedPaymentStatus(t *testing.T) {
	svc, billRepo, _, _, _, _, _ := buildBillSvc()
	now := time.Now()
	billRepo.listRows = []repository.BillListRow{
		{BillCode: "B1", GrandTotal: decimal.NewFromInt(100), TotalPaid: decimal.NewFromInt(100), CreatedAt: now},
		{BillCode: "B2", GrandTotal: decimal.NewFromInt(100), TotalPaid: decimal.NewFromInt(40), CreatedAt: now},
		{BillCode: "B3", GrandTotal: decimal.NewFromInt(100), TotalPaid: decimal.Zero, CreatedAt: now},
	}

	summaries, err := svc.ListBills(context.Background(), testBusiness)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, model.PaymentStatusPaid, summaries[0].PaymentStatus)
	assert.Equal(t, model.PaymentStatusPartial, summaries[1].PaymentStatus)
	assert.Equal(t, model.PaymentStatusUnpaid, summaries[2].PaymentStatus)
}

func TestGetBillDetails_NotFound(t *testing.T) {
	svc, _, _, _, _, _, _ := buildBillSvc()
	_, err := svc.GetBillDetails(context.Background(), "BILL-MISSING", testBusiness)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
