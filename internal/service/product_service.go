package service

import (
	"context"
	"strings"
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

const defaultUnit = "PCS"

// ProductService is the inventory engine: catalog CRUD plus the stock-in and
// stock-out paths. Stock quantities never live on the product row; every
// change goes through the stock ledger, and every stock mutation is followed
// by the low-stock check inside the same transaction.
type ProductService interface {
	CreateProduct(ctx context.Context, businessCode, userCode string, req dto.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productCode, businessCode, userCode string, req dto.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, productCode, businessCode string) error
	GetProduct(ctx context.Context, productCode, businessCode string) (*dto.ProductDetailResponse, error)
	ListProducts(ctx context.Context, businessCode string, filter dto.ProductFilter) (*dto.ProductListResponse, error)

	StockIn(ctx context.Context, businessCode, userCode string, req dto.StockMoveRequest) (*model.StockMovement, error)
	StockOut(ctx context.Context, businessCode, userCode string, req dto.StockMoveRequest) (*model.StockMovement, error)
	GetStockHistory(ctx context.Context, productCode, businessCode string, filter dto.StockHistoryFilter) ([]model.StockMovement, error)
	GetStockBalance(ctx context.Context, productCode, businessCode string) (*model.StockBalance, error)
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
	notif        NotificationService
	dispatcher   *worker.Dispatcher
}

func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockRepo repository.StockRepository,
	notif NotificationService,
	dispatcher *worker.Dispatcher,
) ProductService {
	return &productService{
		repo:         repo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		notif:        notif,
		dispatcher:   dispatcher,
	}
}

// ensureCategory resolves a free-text category name to a code, creating the
// category when absent. Idempotent get-or-create, case-insensitive per
// business; duplicate names are never a hard error.
func (s *productService) ensureCategory(ctx context.Context, businessCode, userCode, name string) (*string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	existing, err := s.categoryRepo.FindByName(ctx, businessCode, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.Code, nil
	}
	c := &model.Category{
		Code:         codegen.New("CAT"),
		BusinessCode: businessCode,
		Name:         name,
		Active:       true,
		CreatedBy:    userCode,
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &c.Code, nil
}

func (s *productService) CreateProduct(ctx context.Context, businessCode, userCode string, req dto.CreateProductRequest) (*model.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("product name is required")
	}
	if !req.SellingPrice.IsPositive() {
		return nil, apperror.Validation("selling price must be greater than 0")
	}
	if req.GSTInclusive && !req.GSTRate.IsPositive() {
		return nil, apperror.Validation("GST percentage required for GST inclusive product")
	}
	if req.OpeningStock != nil && req.LowStockAlert != nil && *req.OpeningStock < *req.LowStockAlert {
		return nil, apperror.Validation("opening stock cannot be less than low stock alert")
	}
	unit := req.PrimaryUnit
	if unit == "" {
		unit = defaultUnit
	}
	if req.HasSecondaryUnit {
		if req.SecondaryUnit == nil || *req.SecondaryUnit == "" {
			return nil, apperror.Validation("secondary unit is required")
		}
		if req.ConversionFactor == nil || !req.ConversionFactor.IsPositive() {
			return nil, apperror.Validation("conversion factor must be greater than 0")
		}
		if *req.SecondaryUnit == unit {
			return nil, apperror.Validation("primary and secondary unit cannot be same")
		}
	}

	categoryCode := req.CategoryCode
	if categoryCode == nil && req.CategoryName != nil {
		code, err := s.ensureCategory(ctx, businessCode, userCode, *req.CategoryName)
		if err != nil {
			return nil, err
		}
		categoryCode = code
	}

	expiryAlertDays := 0
	if req.ExpiryAlertDays != nil {
		expiryAlertDays = *req.ExpiryAlertDays
	}

	product := &model.Product{
		Code:             codegen.New("PRODUCT"),
		BusinessCode:     businessCode,
		CategoryCode:     categoryCode,
		Name:             req.Name,
		Barcode:          req.Barcode,
		PrimaryUnit:      unit,
		HasSecondaryUnit: req.HasSecondaryUnit,
		SecondaryUnit:    req.SecondaryUnit,
		ConversionFactor: req.ConversionFactor,
		SellingPrice:     req.SellingPrice,
		CostPrice:        req.CostPrice,
		GSTRate:          req.GSTRate,
		GSTInclusive:     req.GSTInclusive,
		ExpiryDate:       req.ExpiryDate,
		ExpiryAlertDays:  expiryAlertDays,
		LowStockAlert:    req.LowStockAlert,
		Active:           true,
		CreatedBy:        userCode,
	}

	// Product row and its OPENING movement commit together: a product must
	// never exist with a half-recorded opening balance.
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, product); err != nil {
			return err
		}
		if req.OpeningStock != nil && *req.OpeningStock > 0 {
			note := "Opening Stock"
			return s.stockRepo.AppendTx(tx, &model.StockMovement{
				Code:         codegen.New("STOCKHIST"),
				ProductCode:  product.Code,
				BusinessCode: businessCode,
				Type:         model.MovementOpening,
				Source:       model.SourceManual,
				Quantity:     *req.OpeningStock,
				Unit:         unit,
				Price:        req.SellingPrice,
				Note:         &note,
				EntryAt:      time.Now(),
				CreatedBy:    userCode,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productCode, businessCode, userCode string, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.repo.FindByCode(ctx, productCode, businessCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NotFound("product %s not found", productCode)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperror.Validation("product name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.SellingPrice != nil {
		if !req.SellingPrice.IsPositive() {
			return nil, apperror.Validation("selling price must be greater than 0")
		}
		product.SellingPrice = *req.SellingPrice
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.GSTRate != nil {
		product.GSTRate = *req.GSTRate
	}
	if req.GSTInclusive != nil {
		product.GSTInclusive = *req.GSTInclusive
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.PrimaryUnit != nil {
		product.PrimaryUnit = *req.PrimaryUnit
	}
	if req.ExpiryDate != nil {
		product.ExpiryDate = req.ExpiryDate
	}
	if req.ExpiryAlertDays != nil {
		product.ExpiryAlertDays = *req.ExpiryAlertDays
	}
	if req.LowStockAlert != nil {
		product.LowStockAlert = req.LowStockAlert
	}

	if req.HasSecondaryUnit != nil {
		product.HasSecondaryUnit = *req.HasSecondaryUnit
		if *req.HasSecondaryUnit {
			if req.SecondaryUnit == nil || *req.SecondaryUnit == "" {
				return nil, apperror.Validation("secondary unit is required")
			}
			if req.ConversionFactor == nil || !req.ConversionFactor.IsPositive() {
				return nil, apperror.Validation("conversion factor must be greater than 0")
			}
			if *req.SecondaryUnit == product.PrimaryUnit {
				return nil, apperror.Validation("primary and secondary unit cannot be same")
			}
			product.SecondaryUnit = req.SecondaryUnit
			product.ConversionFactor = req.ConversionFactor
		} else {
			product.SecondaryUnit = nil
			product.ConversionFactor = nil
		}
	}

	if req.CategoryCode != nil {
		product.CategoryCode = req.CategoryCode
	} else if req.CategoryName != nil && strings.TrimSpace(*req.CategoryName) != "" {
		code, err := s.ensureCategory(ctx, businessCode, userCode, *req.CategoryName)
		if err != nil {
			return nil, err
		}
		product.CategoryCode = code
	}

	product.UpdatedBy = &userCode
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productCode, businessCode string) error {
	product, err := s.repo.FindByCode(ctx, productCode, businessCode)
	if err != nil {
		return err
	}
	// Already-inactive products behave as absent.
	if product == nil {
		return apperror.NotFound("product %s not found", productCode)
	}
	return s.repo.Deactivate(ctx, productCode, businessCode)
}

func (s *productService) GetProduct(ctx context.Context, productCode, businessCode string) (*dto.ProductDetailResponse, error) {
	product, err := s.repo.FindByCode(ctx, productCode, businessCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NotFound("product %s not found", productCode)
	}

	// Totals come from the full signed sum, never from the history feed: the
	// feed is capped and a long-lived product would under-count.
	currentStock, err := s.stockRepo.CurrentStock(ctx, productCode, businessCode)
	if err != nil {
		return nil, err
	}
	stockValue := decimal.NewFromInt(int64(currentStock)).Mul(product.SellingPrice)

	history, err := s.stockRepo.History(ctx, productCode, businessCode, dto.StockHistoryFilter{Limit: 500})
	if err != nil {
		return nil, err
	}

	views := make([]dto.StockHistoryView, 0, len(history))
	for _, m := range history {
		value := decimal.NewFromInt(int64(m.Quantity)).Mul(m.Price)
		views = append(views, dto.StockHistoryView{
			Type:       m.Type,
			Source:     m.Source,
			Quantity:   m.Quantity,
			Unit:       m.Unit,
			Price:      m.Price,
			StockValue: value,
			Note:       m.Note,
			EntryAt:    m.EntryAt,
		})
	}

	return &dto.ProductDetailResponse{
		Product: dto.ProductView{
			ProductCode:      product.Code,
			Name:             product.Name,
			SellingPrice:     product.SellingPrice,
			CostPrice:        product.CostPrice,
			GSTRate:          product.GSTRate,
			GSTInclusive:     product.GSTInclusive,
			PrimaryUnit:      product.PrimaryUnit,
			HasSecondaryUnit: product.HasSecondaryUnit,
			SecondaryUnit:    product.SecondaryUnit,
			ConversionFactor: product.ConversionFactor,
			LowStockAlert:    product.LowStockAlert,
			ExpiryDate:       product.ExpiryDate,
			ExpiryAlertDays:  product.ExpiryAlertDays,
			CurrentStock:     currentStock,
			StockValue:       stockValue,
		},
		StockHistory: views,
	}, nil
}

func (s *productService) ListProducts(ctx context.Context, businessCode string, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, err := s.repo.List(ctx, businessCode, filter)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.Code] = c.Name
	}

	now := time.Now()
	resp := &dto.ProductListResponse{Products: make([]dto.ProductListItem, 0, len(products))}
	resp.Summary.TotalValue = decimal.Zero
	seenCategories := make(map[string]bool)

	for i := range products {
		p := &products[i]
		stock, err := s.stockRepo.CurrentStock(ctx, p.Code, businessCode)
		if err != nil {
			return nil, err
		}

		lowStock := p.LowStockAlert != nil && *p.LowStockAlert > 0 && stock <= *p.LowStockAlert
		if filter.Status == "low_stock" && !lowStock {
			continue
		}

		var categoryName *string
		if p.CategoryCode != nil {
			if name, ok := categoryNames[*p.CategoryCode]; ok {
				categoryName = &name
				seenCategories[*p.CategoryCode] = true
			}
		}

		value := decimal.NewFromInt(int64(stock)).Mul(p.SellingPrice)
		resp.Products = append(resp.Products, dto.ProductListItem{
			ProductCode:  p.Code,
			Name:         p.Name,
			CategoryName: categoryName,
			SellingPrice: p.SellingPrice,
			GSTRate:      p.GSTRate,
			CurrentStock: stock,
			StockValue:   value,
			IsLowStock:   lowStock,
			IsExpired:    p.ExpiryDate != nil && p.ExpiryDate.Before(now),
		})
		resp.Summary.TotalValue = resp.Summary.TotalValue.Add(value)
	}
	resp.Summary.TotalProducts = len(resp.Products)
	resp.Summary.TotalCategories = len(seenCategories)
	return resp, nil
}

func (s *productService) StockIn(ctx context.Context, businessCode, userCode string, req dto.StockMoveRequest) (*model.StockMovement, error) {
	return s.moveStock(ctx, businessCode, userCode, req, model.MovementIn)
}

func (s *productService) StockOut(ctx context.Context, businessCode, userCode string, req dto.StockMoveRequest) (*model.StockMovement, error) {
	return s.moveStock(ctx, businessCode, userCode, req, model.MovementOut)
}

func (s *productService) moveStock(ctx context.Context, businessCode, userCode string, req dto.StockMoveRequest, movementType string) (*model.StockMovement, error) {
	if req.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be greater than 0")
	}
	if !req.Price.IsPositive() {
		return nil, apperror.Validation("price must be greater than 0")
	}

	product, err := s.repo.FindByCode(ctx, req.ProductCode, businessCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NotFound("product %s not found", req.ProductCode)
	}

	unit := req.Unit
	if unit == "" {
		unit = product.PrimaryUnit
	}
	entryAt := time.Now()
	if req.EntryDate != nil {
		entryAt = *req.EntryDate
	}
	movement := &model.StockMovement{
		Code:         codegen.New("STOCKHIST"),
		ProductCode:  req.ProductCode,
		BusinessCode: businessCode,
		Type:         movementType,
		Source:       model.SourceManual,
		Quantity:     req.Quantity,
		Unit:         unit,
		Price:        req.Price,
		Note:         req.Note,
		EntryAt:      entryAt,
		CreatedBy:    userCode,
	}

	err = runTx(ctx, s.stockRepo.DB(), func(tx *gorm.DB) error {
		if movementType == model.MovementOut {
			// Lock, recompute, compare, then write. A concurrent writer on
			// the same product blocks here until this tx commits or rolls
			// back, which is what keeps stock from going negative.
			if err := s.stockRepo.LockHistoryTx(tx, req.ProductCode, businessCode); err != nil {
				return err
			}
			current, err := s.stockRepo.CurrentStockTx(tx, req.ProductCode, businessCode)
			if err != nil {
				return err
			}
			if current < req.Quantity {
				return &apperror.InsufficientStockError{
					ProductCode: req.ProductCode,
					Available:   current,
					Requested:   req.Quantity,
				}
			}
		}
		if err := s.stockRepo.AppendTx(tx, movement); err != nil {
			return err
		}
		return s.notif.CheckLowStockTx(tx, req.ProductCode, businessCode)
	})
	if err != nil {
		return nil, err
	}

	// Badge refresh is best-effort, after commit.
	if err := s.dispatcher.EnqueueAlertRefresh(ctx, businessCode); err != nil {
		log.Warn().Err(err).Str("business_code", businessCode).Msg("alert refresh enqueue failed")
	}
	return movement, nil
}

func (s *productService) GetStockHistory(ctx context.Context, productCode, businessCode string, filter dto.StockHistoryFilter) ([]model.StockMovement, error) {
	product, err := s.repo.FindByCode(ctx, productCode, businessCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NotFound("product %s not found", productCode)
	}
	return s.stockRepo.History(ctx, productCode, businessCode, filter)
}

func (s *productService) GetStockBalance(ctx context.Context, productCode, businessCode string) (*model.StockBalance, error) {
	product, err := s.repo.FindByCode(ctx, productCode, businessCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NotFound("product %s not found", productCode)
	}
	return s.stockRepo.Balance(ctx, productCode, businessCode)
}
