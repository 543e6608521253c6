package infra

import (
	"fmt"

	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for all domain tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema; also used by integration tests against a
// throwaway database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.StockMovement{},
		&model.Customer{},
		&model.LedgerEntry{},
		&model.Bill{},
		&model.BillItem{},
		&model.BillCharge{},
		&model.BillDiscount{},
		&model.BillPayment{},
		&model.QuickBill{},
		&model.QuickBillItem{},
		&model.QuickBillCharge{},
		&model.QuickBillPayment{},
		&model.Notification{},
	)
}
