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

	"gorm.io/gorm"
)

// CustomerService covers the customer directory and the manual side of the
// debt ledger. Creation is an upsert keyed on (business, phone) so repeated
// saves from the billing screen never produce duplicates.
type CustomerService interface {
	CreateCustomer(ctx context.Context, businessCode, userCode string, req dto.CreateCustomerRequest) (*dto.CreateCustomerResponse, error)
	ListCustomers(ctx context.Context, businessCode string) ([]dto.CustomerListItem, error)
	AddLedgerEntry(ctx context.Context, businessCode, userCode string, req dto.AddLedgerEntryRequest) (*model.LedgerEntry, error)
	GetCustomerDetails(ctx context.Context, customerCode, businessCode string) (*dto.CustomerDetailResponse, error)
}

type customerService struct {
	repo       repository.CustomerRepository
	ledgerRepo repository.LedgerRepository
}

func NewCustomerService(repo repository.CustomerRepository, ledgerRepo repository.LedgerRepository) CustomerService {
	return &customerService{repo: repo, ledgerRepo: ledgerRepo}
}

func (s *customerService) CreateCustomer(ctx context.Context, businessCode, userCode string, req dto.CreateCustomerRequest) (*dto.CreateCustomerResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, apperror.Validation("customer name and phone are required")
	}

	existing, err := s.repo.FindByPhone(ctx, businessCode, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.CreateCustomerResponse{
			CustomerCode: existing.Code,
			Name:         existing.Name,
			Phone:        existing.Phone,
			Exists:       true,
		}, nil
	}

	countryCode := req.CountryCode
	if countryCode == "" {
		countryCode = "+91"
	}
	customer := &model.Customer{
		Code:         codegen.New("CUST"),
		BusinessCode: businessCode,
		Name:         name,
		Phone:        phone,
		CountryCode:  countryCode,
		Active:       true,
		CreatedBy:    userCode,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return &dto.CreateCustomerResponse{
		CustomerCode: customer.Code,
		Name:         customer.Name,
		Phone:        customer.Phone,
	}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, businessCode string) ([]dto.CustomerListItem, error) {
	return s.repo.ListMinimal(ctx, businessCode)
}

func (s *customerService) AddLedgerEntry(ctx context.Context, businessCode, userCode string, req dto.AddLedgerEntryRequest) (*model.LedgerEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("amount must be greater than 0")
	}
	if req.Type != model.LedgerYouGave && req.Type != model.LedgerYouGot {
		return nil, apperror.Validation("transaction type must be YOU_GAVE or YOU_GOT")
	}

	customer, err := s.repo.FindByCode(ctx, req.CustomerCode, businessCode)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NotFound("customer %s not found", req.CustomerCode)
	}

	mode := req.PaymentMode
	if mode == "" {
		mode = "OTHER"
	}
	entry := &model.LedgerEntry{
		Code:         codegen.New("LEDGER"),
		BusinessCode: businessCode,
		CustomerCode: req.CustomerCode,
		Type:         req.Type,
		Source:       model.SourceManual,
		PaymentMode:  mode,
		Amount:       req.Amount,
		Note:         req.Note,
		EntryAt:      time.Now(),
		CreatedBy:    userCode,
	}

	// Balance read and chained write share the transaction so concurrent
	// entries for the same customer serialize instead of forking the chain.
	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		before, err := s.ledgerRepo.LastBalanceTx(tx, businessCode, req.CustomerCode)
		if err != nil {
			return err
		}
		entry.BalanceBefore = before
		if req.Type == model.LedgerYouGave {
			entry.BalanceAfter = before.Add(req.Amount)
		} else {
			entry.BalanceAfter = before.Sub(req.Amount)
		}
		return s.ledgerRepo.AppendTx(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *customerService) GetCustomerDetails(ctx context.Context, customerCode, businessCode string) (*dto.CustomerDetailResponse, error) {
	customer, err := s.repo.FindByCode(ctx, customerCode, businessCode)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NotFound("customer %s not found", customerCode)
	}

	entries, err := s.ledgerRepo.ListByCustomer(ctx, businessCode, customerCode)
	if err != nil {
		return nil, err
	}
	gave, got, err := s.ledgerRepo.Sums(ctx, businessCode, customerCode)
	if err != nil {
		return nil, err
	}

	net := gave.Sub(got)
	final := dto.CustomerFinal{Amount: net.Abs()}
	switch {
	case net.IsPositive():
		final.Status = "GET"
	case net.IsNegative():
		final.Status = "GIVE"
	default:
		final.Status = "CLEAR"
	}

	views := make([]dto.LedgerEntryView, 0, len(entries))
	for _, e := range entries {
		v := dto.LedgerEntryView{
			LedgerCode: e.Code,
			EntryAt:    e.EntryAt,
			Balance:    e.BalanceAfter,
			Tag:        e.Source,
		}
		amount := e.Amount
		if e.Type == model.LedgerYouGave {
			v.YouGave = &amount
		} else {
			v.YouGot = &amount
		}
		views = append(views, v)
	}

	return &dto.CustomerDetailResponse{
		Customer: dto.CustomerListItem{
			CustomerCode: customer.Code,
			Name:         customer.Name,
			Phone:        customer.Phone,
		},
		Final:   final,
		Entries: views,
	}, nil
}
