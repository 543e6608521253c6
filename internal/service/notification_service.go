package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/codegen"
	"github.com/ayushsinghal5500/ekbill-backend/internal/model"
	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const moduleProduct = "PRODUCT"

// NotificationService is the alert sink: an idempotent upsert keyed by
// (business, module, reference, action) guaranteeing at most one ACTIVE alert
// per key, with automatic resolution when the condition clears.
type NotificationService interface {
	// CheckLowStockTx must run inside the same transaction as the stock
	// mutation that triggered it, so the alert state never observably
	// diverges from the stock that caused it.
	CheckLowStockTx(tx *gorm.DB, productCode, businessCode string) error
	RunExpiryScan(ctx context.Context) error
	List(ctx context.Context, businessCode string) ([]model.Notification, error)
	Hide(ctx context.Context, notificationCode, businessCode string) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
}

func NewNotificationService(
	repo repository.NotificationRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
) NotificationService {
	return &notificationService{repo: repo, productRepo: productRepo, stockRepo: stockRepo}
}

func (s *notificationService) CheckLowStockTx(tx *gorm.DB, productCode, businessCode string) error {
	product, err := s.productRepo.FindByCodeTx(tx, productCode, businessCode)
	if err != nil {
		return err
	}
	if product == nil || product.LowStockAlert == nil {
		return nil // inactive product or alerting disabled
	}
	threshold := *product.LowStockAlert

	stock, err := s.stockRepo.CurrentStockTx(tx, productCode, businessCode)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindActiveTx(tx, businessCode, moduleProduct, productCode, model.ActionLowStock)
	if err != nil {
		return err
	}

	if stock <= threshold && existing == nil {
		return s.repo.CreateTx(tx, &model.Notification{
			Code:          codegen.New("NOTIF"),
			BusinessCode:  businessCode,
			Title:         fmt.Sprintf("Low stock: %s", product.Name),
			Message:       fmt.Sprintf("Stock is %d. Alert level is %d.", stock, threshold),
			Type:          "ALERT",
			Module:        moduleProduct,
			ReferenceCode: productCode,
			Action:        model.ActionLowStock,
			ActorType:     "SYSTEM",
			Status:        model.NotificationActive,
		})
	}

	if stock > threshold && existing != nil {
		return s.repo.ResolveTx(tx, existing.ID)
	}
	return nil
}

// RunExpiryScan opens or resolves EXPIRY_ALERT notifications for every active
// product with an expiry date and a positive alert window. Each product is
// processed in its own transaction so one bad row never poisons the scan.
func (s *notificationService) RunExpiryScan(ctx context.Context) error {
	products, err := s.productRepo.ListExpiring(ctx)
	if err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	for i := range products {
		p := &products[i]
		if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.checkExpiryTx(tx, p, today)
		}); err != nil {
			log.Error().
				Str("product_code", p.Code).
				Str("business_code", p.BusinessCode).
				Err(err).
				Msg("expiry check failed")
		}
	}
	return nil
}

func (s *notificationService) checkExpiryTx(tx *gorm.DB, p *model.Product, today time.Time) error {
	expiry := p.ExpiryDate.Truncate(24 * time.Hour)
	daysLeft := int(expiry.Sub(today).Hours() / 24)

	existing, err := s.repo.FindActiveTx(tx, p.BusinessCode, moduleProduct, p.Code, model.ActionExpiryAlert)
	if err != nil {
		return err
	}

	if daysLeft <= p.ExpiryAlertDays && existing == nil {
		return s.repo.CreateTx(tx, &model.Notification{
			Code:          codegen.New("NOTIF"),
			BusinessCode:  p.BusinessCode,
			Title:         fmt.Sprintf("Expiry alert: %s", p.Name),
			Message:       fmt.Sprintf("Product will expire in %d day(s)", daysLeft),
			Type:          "ALERT",
			Module:        moduleProduct,
			ReferenceCode: p.Code,
			Action:        model.ActionExpiryAlert,
			ActorType:     "SYSTEM",
			Status:        model.NotificationActive,
		})
	}

	if daysLeft > p.ExpiryAlertDays && existing != nil {
		return s.repo.ResolveTx(tx, existing.ID)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, businessCode string) ([]model.Notification, error) {
	return s.repo.List(ctx, businessCode)
}

func (s *notificationService) Hide(ctx context.Context, notificationCode, businessCode string) error {
	if err := s.repo.Hide(ctx, notificationCode, businessCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("notification %s not found", notificationCode)
		}
		return err
	}
	return nil
}
