package service

import (
	"context"
	"testing"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCustomerSvc() (CustomerService, *stubCustomerRepo, *stubLedgerRepo) {
	customerRepo := newStubCustomerRepo()
	ledgerRepo := &stubLedgerRepo{}
	return NewCustomerService(customerRepo, ledgerRepo), customerRepo, ledgerRepo
}

func TestCreateCustomer_UpsertByPhone(t *testing.T) {
	svc, _, _ := buildCustomerSvc()
	ctx := context.Background()

	first, err := svc.CreateCustomer(ctx, testBusiness, testUser, dto.CreateCustomerRequest{
		Name: "Ramesh", Phone: "9876543210",
	})
	require.NoError(t, err)
	assert.False(t, first.Exists)

	// Same phone, different name: the existing customer wins.
	second, err := svc.CreateCustomer(ctx, testBusiness, testUser, dto.CreateCustomerRequest{
		Name: "R. Kumar", Phone: "9876543210",
	})
	require.NoError(t, err)
	assert.True(t, second.Exists)
	assert.Equal(t, first.CustomerCode, second.CustomerCode)
	assert.Equal(t, "Ramesh", second.Name)
}

func TestCreateCustomer_SamePhoneDifferentBusiness(t *testing.T) {
	svc, _, _ := buildCustomerSvc()
	ctx := context.Background()

	a, err := svc.CreateCustomer(ctx, "BUSINESS-AAAAAA-0001-AAAAAA", testUser, dto.CreateCustomerRequest{
		Name: "Shared", Phone: "9000000000",
	})
	require.NoError(t, err)
	b, err := svc.CreateCustomer(ctx, "BUSINESS-BBBBBB-0002-BBBBBB", testUser, dto.CreateCustomerRequest{
		Name: "Shared", Phone: "9000000000",
	})
	require.NoError(t, err)
	assert.NotEqual(t, a.CustomerCode, b.CustomerCode)
}

func TestAddLedgerEntry_Chaining(t *testing.T) {
	svc, customerRepo, ledgerRepo := buildCustomerSvc()
	c := seedCustomer(customerRepo, "Gita", "9111111111")
	ctx := context.Background()

	e1, err := svc.AddLedgerEntry(ctx, testBusiness, testUser, dto.AddLedgerEntryRequest{
		CustomerCode: c.Code, Type: model.LedgerYouGave, Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, e1.BalanceBefore.IsZero())
	assert.Equal(t, "500", e1.BalanceAfter.String())

	e2, err := svc.AddLedgerEntry(ctx, testBusiness, testUser, dto.AddLedgerEntryRequest{
		CustomerCode: c.Code, Type: model.LedgerYouGot, Amount: decimal.NewFromInt(200), PaymentMode: "UPI",
	})
	require.NoError(t, err)
	assert.Equal(t, "500", e2.BalanceBefore.String())
	assert.Equal(t, "300", e2.BalanceAfter.String())
	assert.Equal(t, model.SourceManual, e2.Source)

	require.Len(t, ledgerRepo.entries, 2)
}

func TestAddLedgerEntry_UnknownCustomer(t *testing.T) {
	svc, _, _ := buildCustomerSvc()
	_, err := svc.AddLedgerEntry(context.Background(), testBusiness, testUser, dto.AddLedgerEntryRequest{
		CustomerCode: "CUST-MISSING", Type: model.LedgerYouGave, Amount: decimal.NewFromInt(10),
	})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetCustomerDetails_FinalStatus(t *testing.T) {
	svc, customerRepo, _ := buildCustomerSvc()
	c := seedCustomer(customerRepo, "Mohan", "9222222222")
	ctx := context.Background()

	// No entries: CLEAR at zero.
	detail, err := svc.GetCustomerDetails(ctx, c.Code, testBusiness)
	require.NoError(t, err)
	assert.Equal(t, "CLEAR", detail.Final.Status)
	assert.True(t, detail.Final.Amount.IsZero())

	// Customer owes 300: GET.
	_, err = svc.AddLedgerEntry(ctx, testBusiness, testUser, dto.AddLedgerEntryRequest{
		CustomerCode: c.Code, Type: model.LedgerYouGave, Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	detail, err = svc.GetCustomerDetails(ctx, c.Code, testBusiness)
	require.NoError(t, err)
	assert.Equal(t, "GET", detail.Final.Status)
	assert.Equal(t, "300", detail.Final.Amount.String())

	// Customer overpays by 200: GIVE.
	_, err = svc.AddLedgerEntry(ctx, testBusiness, testUser, dto.AddLedgerEntryRequest{
		CustomerCode: c.Code, Type: model.LedgerYouGot, Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	detail, err = svc.GetCustomerDetails(ctx, c.Code, testBusiness)
	require.NoError(t, err)
	assert.Equal(t, "GIVE", detail.Final.Status)
	assert.Equal(t, "200", detail.Final.Amount.String())
}

func TestGetCustomerDetails_EntryViews(t *testing.T) {
	svc, customerRepo, _ := buildCustomerSvc()
	c := seedCustomer(customerRepo, "Lata", "9333333333")
	ctx := context.Background()

	_, err := svc.AddLedgerEntry(ctx, testBusiness, testUser, dto.AddLedgerEntryRequest{
		CustomerCode: c.Code, Type: model.LedgerYouGave, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	detail, err := svc.GetCustomerDetails(ctx, c.Code, testBusiness)
	require.NoError(t, err)
	require.Len(t, detail.Entries, 1)
	v := detail.Entries[0]
	require.NotNil(t, v.YouGave)
	assert.Nil(t, v.YouGot)
	assert.Equal(t, "100", v.YouGave.String())
	assert.Equal(t, model.SourceManual, v.Tag)
}
