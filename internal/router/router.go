package router

import (
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/config"
	"github.com/ayushsinghal5500/ekbill-backend/internal/handler"
	"github.com/ayushsinghal5500/ekbill-backend/internal/middleware"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"
	"github.com/ayushsinghal5500/ekbill-backend/internal/service"
	"github.com/ayushsinghal5500/ekbill-backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	billRepo := repository.NewBillRepository(db)
	quickBillRepo := repository.NewQuickBillRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)

	notificationSvc := service.NewNotificationService(notificationRepo, productRepo, stockRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, stockRepo, notificationSvc, dispatcher)
	billSvc := service.NewBillService(billRepo, productRepo, stockRepo, ledgerRepo, customerRepo, notificationSvc, dispatcher)
	quickBillSvc := service.NewQuickBillService(quickBillRepo)
	customerSvc := service.NewCustomerService(customerRepo, ledgerRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	billsH := handler.NewBillsHandler(billSvc)
	quickBillsH := handler.NewQuickBillsHandler(quickBillSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	notificationsH := handler.NewNotificationsHandler(notificationSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes; everything is scoped by the business in the JWT
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		bills := v1.Group("/bills")
		{
			bills.POST("", billsH.CreateBill)
			bills.GET("", billsH.ListBills)
			bills.GET("/:code", billsH.GetBillDetails)
		}

		quickBills := v1.Group("/quick-bills")
		{
			quickBills.POST("", quickBillsH.CreateQuickBill)
			quickBills.GET("", quickBillsH.ListQuickBills)
			quickBills.GET("/:code", quickBillsH.GetQuickBillDetails)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.CreateProduct)
			products.GET("", productsH.ListProducts)
			products.GET("/:code", productsH.GetProduct)
			products.PUT("/:code", productsH.UpdateProduct)
			products.DELETE("/:code", productsH.DeleteProduct)
			products.GET("/:code/stock-history", productsH.GetStockHistory)
			products.GET("/:code/stock-balance", productsH.GetStockBalance)
		}

		stock := v1.Group("/stock")
		{
			stock.POST("/in", productsH.StockIn)
			stock.POST("/out", productsH.StockOut)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", customersH.CreateCustomer)
			customers.GET("", customersH.ListCustomers)
			customers.GET("/:code", customersH.GetCustomerDetails)
			customers.POST("/ledger", customersH.AddLedgerEntry)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationsH.List)
			notifications.GET("/badge", notificationsH.Badge)
			notifications.PATCH("/:code/hide", notificationsH.Hide)
		}
	}

	return r
}
