//go:build integration

package service

// Postgres-backed tests using testcontainers. Run with:
//   go test -tags integration ./internal/service/... -v
//
// The in-memory stubs cannot exercise transaction rollback, so the bill
// atomicity guarantee (a rejected bill leaves zero rows behind) is verified
// here against a real database.

import (
	"context"
	"testing"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/infra"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type pgEnv struct {
	db         *gorm.DB
	productSvc ProductService
	billSvc    BillService
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("ekbill_test"),
		tcPostgres.WithUsername("ekbill"),
		tcPostgres.WithPassword("ekbill"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	billRepo := repository.NewBillRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifSvc := NewNotificationService(notifRepo, productRepo, stockRepo)
	productSvc := NewProductService(productRepo, categoryRepo, stockRepo, notifSvc, nil)
	billSvc := NewBillService(billRepo, productRepo, stockRepo, ledgerRepo, customerRepo, notifSvc, nil)

	return &pgEnv{db: db, productSvc: productSvc, billSvc: billSvc}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateBill_RejectedBillLeavesNoRows(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	// Two products: the first line can be fulfilled, the second cannot. The
	// failure must roll back the first line's rows too.
	inStock, err := env.productSvc.CreateProduct(ctx, testBusiness, testUser, dto.CreateProductRequest{
		Name:         "Amul butter 500g",
		SellingPrice: decimal.NewFromInt(50),
		OpeningStock: intPtr(10),
	})
	require.NoError(t, err)
	scarce, err := env.productSvc.CreateProduct(ctx, testBusiness, testUser, dto.CreateProductRequest{
		Name:         "Tata salt 1kg",
		SellingPrice: decimal.NewFromInt(30),
		OpeningStock: intPtr(2),
	})
	require.NoError(t, err)

	movementsBefore := countRows(t, env.db, &model.StockMovement{})

	_, err = env.billSvc.CreateBill(ctx, testBusiness, testUser, dto.CreateBillRequest{
		Bill: dto.BillHeaderInput{
			InvoiceNumber: "INV-ROLLBACK-1",
			Subtotal:      decimal.NewFromInt(250),
			GrandTotal:    decimal.NewFromInt(250),
		},
		Items: []dto.BillItemInput{
			{
				ProductCode:  inStock.Code,
				Quantity:     2,
				SellingPrice: decimal.NewFromInt(50),
				LineTotal:    decimal.NewFromInt(100),
			},
			{
				ProductCode:  scarce.Code,
				Quantity:     5,
				SellingPrice: decimal.NewFromInt(30),
				LineTotal:    decimal.NewFromInt(150),
			},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))

	assert.EqualValues(t, 0, countRows(t, env.db, &model.Bill{}))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.BillItem{}))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.BillPayment{}))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.LedgerEntry{}))
	assert.Equal(t, movementsBefore, countRows(t, env.db, &model.StockMovement{}))

	stock, err := env.productSvc.GetStockBalance(ctx, inStock.Code, testBusiness)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.CurrentStock)
}

func TestCreateBill_CommittedBillPersistsAllRows(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	product, err := env.productSvc.CreateProduct(ctx, testBusiness, testUser, dto.CreateProductRequest{
		Name:         "Parle-G 100g",
		SellingPrice: decimal.NewFromInt(10),
		OpeningStock: intPtr(20),
	})
	require.NoError(t, err)

	resp, err := env.billSvc.CreateBill(ctx, testBusiness, testUser, dto.CreateBillRequest{
		Bill: dto.BillHeaderInput{
			InvoiceNumber: "INV-COMMIT-1",
			Subtotal:      decimal.NewFromInt(30),
			GrandTotal:    decimal.NewFromInt(30),
		},
		Items: []dto.BillItemInput{{
			ProductCode:  product.Code,
			Quantity:     3,
			SellingPrice: decimal.NewFromInt(10),
			LineTotal:    decimal.NewFromInt(30),
		}},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, countRows(t, env.db, &model.Bill{}))
	assert.EqualValues(t, 1, countRows(t, env.db, &model.BillItem{}))

	detail, err := env.billSvc.GetBillDetails(ctx, resp.BillCode, testBusiness)
	require.NoError(t, err)
	assert.Equal(t, "INV-COMMIT-1", detail.InvoiceNumber)
	assert.Len(t, detail.Items, 1)

	stock, err := env.productSvc.GetStockBalance(ctx, product.Code, testBusiness)
	require.NoError(t, err)
	assert.Equal(t, 17, stock.CurrentStock)
}
