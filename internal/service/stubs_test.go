package service

import (
	"context"
	"strings"

	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations. DB() returns nil so runTx calls the
// body directly without a real transaction.

type stubProductRepo struct {
	products map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.products[p.Code] = p
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.products[p.Code] = p
	return nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, productCode, businessCode string) (*model.Product, error) {
	return r.find(productCode, businessCode), nil
}

func (r *stubProductRepo) FindByCodeTx(_ *gorm.DB, productCode, businessCode string) (*model.Product, error) {
	return r.find(productCode, businessCode), nil
}

func (r *stubProductRepo) find(productCode, businessCode string) *model.Product {
	p, ok := r.products[productCode]
	if !ok || p.BusinessCode != businessCode || !p.Active {
		return nil
	}
	return p
}

func (r *stubProductRepo) List(_ context.Context, businessCode string, filter dto.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.BusinessCode != businessCode || !p.Active {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.Code] = p
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, productCode, businessCode string) error {
	if p, ok := r.products[productCode]; ok && p.BusinessCode == businessCode {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) ListExpiring(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.ExpiryDate != nil && p.ExpiryAlertDays > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubCategoryRepo struct {
	categories []*model.Category
}

func (r *stubCategoryRepo) FindByName(_ context.Context, businessCode, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.BusinessCode == businessCode && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.categories = append(r.categories, c)
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context, businessCode string) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		if c.BusinessCode == businessCode {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type stubStockRepo struct {
	movements []model.StockMovement
}

func (r *stubStockRepo) LockHistoryTx(_ *gorm.DB, _, _ string) error { return nil }

func (r *stubStockRepo) CurrentStockTx(_ *gorm.DB, productCode, businessCode string) (int, error) {
	return r.sum(productCode, businessCode), nil
}

func (r *stubStockRepo) CurrentStock(_ context.Context, productCode, businessCode string) (int, error) {
	return r.sum(productCode, businessCode), nil
}

func (r *stubStockRepo) sum(productCode, businessCode string) int {
	stock := 0
	for _, m := range r.movements {
		if m.ProductCode != productCode || m.BusinessCode != businessCode {
			continue
		}
		if m.Type == model.MovementOut {
			stock -= m.Quantity
		} else {
			stock += m.Quantity
		}
	}
	return stock
}

func (r *stubStockRepo) AppendTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) History(_ context.Context, productCode, businessCode string, filter dto.StockHistoryFilter) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.ProductCode == productCode && m.BusinessCode == businessCode {
			out = append(out, m)
		}
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubStockRepo) Balance(_ context.Context, productCode, businessCode string) (*model.StockBalance, error) {
	b := &model.StockBalance{ProductCode: productCode, BusinessCode: businessCode}
	for _, m := range r.movements {
		if m.ProductCode != productCode || m.BusinessCode != businessCode {
			continue
		}
		if m.Type == model.MovementOut {
			b.TotalStockOut += m.Quantity
		} else {
			b.TotalStockIn += m.Quantity
		}
	}
	b.CurrentStock = b.TotalStockIn - b.TotalStockOut
	return b, nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

type stubLedgerRepo struct {
	entries []model.LedgerEntry
}

func (r *stubLedgerRepo) LastBalanceTx(_ *gorm.DB, businessCode, customerCode string) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, e := range r.entries {
		if e.BusinessCode == businessCode && e.CustomerCode == customerCode {
			balance = e.BalanceAfter
		}
	}
	return balance, nil
}

func (r *stubLedgerRepo) AppendTx(_ *gorm.DB, e *model.LedgerEntry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLedgerRepo) ListByCustomer(_ context.Context, businessCode, customerCode string) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.BusinessCode == businessCode && e.CustomerCode == customerCode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) Sums(_ context.Context, businessCode, customerCode string) (decimal.Decimal, decimal.Decimal, error) {
	gave, got := decimal.Zero, decimal.Zero
	for _, e := range r.entries {
		if e.BusinessCode != businessCode || e.CustomerCode != customerCode {
			continue
		}
		if e.Type == model.LedgerYouGave {
			gave = gave.Add(e.Amount)
		} else {
			got = got.Add(e.Amount)
		}
	}
	return gave, got, nil
}

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

type stubCustomerRepo struct {
	customers map[string]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (r *stubCustomerRepo) FindByCode(_ context.Context, customerCode, businessCode string) (*model.Customer, error) {
	c, ok := r.customers[customerCode]
	if !ok || c.BusinessCode != businessCode || !c.Active {
		return nil, nil
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByPhone(_ context.Context, businessCode, phone string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.BusinessCode == businessCode && c.Phone == phone && c.Active {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.customers[c.Code] = c
	return nil
}

func (r *stubCustomerRepo) ListMinimal(_ context.Context, businessCode string) ([]dto.CustomerListItem, error) {
	var out []dto.CustomerListItem
	for _, c := range r.customers {
		if c.BusinessCode == businessCode && c.Active {
			out = append(out, dto.CustomerListItem{CustomerCode: c.Code, Name: c.Name, Phone: c.Phone})
		}
	}
	return out, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

type stubBillRepo struct {
	bills     map[string]*model.Bill
	items     []model.BillItem
	charges   []model.BillCharge
	discounts []model.BillDiscount
	payments  []model.BillPayment
	listRows  []repository.BillListRow
}

func newStubBillRepo() *stubBillRepo {
	return &stubBillRepo{bills: make(map[string]*model.Bill)}
}

func (r *stubBillRepo) CreateTx(_ *gorm.DB, b *model.Bill) error {
	r.bills[b.Code] = b
	return nil
}

func (r *stubBillRepo) AddItemTx(_ *gorm.DB, item *model.BillItem) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *stubBillRepo) AddChargeTx(_ *gorm.DB, charge *model.BillCharge) error {
	r.charges = append(r.charges, *charge)
	return nil
}

func (r *stubBillRepo) AddDiscountTx(_ *gorm.DB, discount *model.BillDiscount) error {
	r.discounts = append(r.discounts, *discount)
	return nil
}

func (r *stubBillRepo) AddPaymentTx(_ *gorm.DB, payment *model.BillPayment) error {
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *stubBillRepo) List(_ context.Context, _ string) ([]repository.BillListRow, error) {
	return r.listRows, nil
}

func (r *stubBillRepo) FindDetail(_ context.Context, billCode, businessCode string) (*model.Bill, error) {
	b, ok := r.bills[billCode]
	if !ok || b.BusinessCode != businessCode {
		return nil, nil
	}
	detail := *b
	for _, it := range r.items {
		if it.BillCode == billCode {
			detail.Items = append(detail.Items, it)
		}
	}
	for _, p := range r.payments {
		if p.BillCode == billCode {
			detail.Payments = append(detail.Payments, p)
		}
	}
	for _, c := range r.charges {
		if c.BillCode == billCode {
			detail.Charges = append(detail.Charges, c)
		}
	}
	return &detail, nil
}

func (r *stubBillRepo) DB() *gorm.DB { return nil }

var _ repository.BillRepository = (*stubBillRepo)(nil)

type stubQuickBillRepo struct {
	bills    map[string]*model.QuickBill
	listRows []repository.BillListRow
}

func newStubQuickBillRepo() *stubQuickBillRepo {
	return &stubQuickBillRepo{bills: make(map[string]*model.QuickBill)}
}

func (r *stubQuickBillRepo) CreateTx(_ *gorm.DB, qb *model.QuickBill) error {
	r.bills[qb.Code] = qb
	return nil
}

func (r *stubQuickBillRepo) List(_ context.Context, _ string) ([]repository.BillListRow, error) {
	return r.listRows, nil
}

func (r *stubQuickBillRepo) FindDetail(_ context.Context, quickBillCode, businessCode string) (*model.QuickBill, error) {
	qb, ok := r.bills[quickBillCode]
	if !ok || qb.BusinessCode != businessCode {
		return nil, nil
	}
	return qb, nil
}

func (r *stubQuickBillRepo) DB() *gorm.DB { return nil }

var _ repository.QuickBillRepository = (*stubQuickBillRepo)(nil)

type stubNotificationRepo struct {
	notifications []*model.Notification
	nextID        uint
}

func (r *stubNotificationRepo) FindActiveTx(_ *gorm.DB, businessCode, module, referenceCode, action string) (*model.Notification, error) {
	for _, n := range r.notifications {
		if n.BusinessCode == businessCode && n.Module == module &&
			n.ReferenceCode == referenceCode && n.Action == action &&
			n.Status == model.NotificationActive {
			return n, nil
		}
	}
	return nil, nil
}

func (r *stubNotificationRepo) CreateTx(_ *gorm.DB, n *model.Notification) error {
	r.nextID++
	n.ID = r.nextID
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *stubNotificationRepo) ResolveTx(_ *gorm.DB, id uint) error {
	for _, n := range r.notifications {
		if n.ID == id {
			n.Status = model.NotificationResolved
		}
	}
	return nil
}

func (r *stubNotificationRepo) List(_ context.Context, businessCode string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notifications {
		if n.BusinessCode == businessCode && n.Status != model.NotificationHidden {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) CountActive(_ context.Context, businessCode string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.BusinessCode == businessCode && n.Status == model.NotificationActive {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) Hide(_ context.Context, notificationCode, businessCode string) error {
	for _, n := range r.notifications {
		if n.Code == notificationCode && n.BusinessCode == businessCode {
			n.Status = model.NotificationHidden
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) DB() *gorm.DB { return nil }

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)
