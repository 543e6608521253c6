package handler

import (
	"net/http"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apierror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/dto"
	"github.com/ayushsinghal5500/ekbill-backend/internal/middleware"
	"github.com/ayushsinghal5500/ekbill-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// CreateCustomer upserts by (business, phone): a duplicate phone returns the
// existing customer with exists=true instead of an error.
func (h *CustomersHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.CreateCustomer(c.Request.Context(), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	status := http.StatusCreated
	if resp.Exists {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

func (h *CustomersHandler) ListCustomers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	customers, err := h.svc.ListCustomers(c.Request.Context(), claims.BusinessCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list customers"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *CustomersHandler) AddLedgerEntry(c *gin.Context) {
	var req dto.AddLedgerEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	entry, err := h.svc.AddLedgerEntry(c.Request.Context(), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"ledger_code":   entry.Code,
		"balance_after": entry.BalanceAfter,
	})
}

func (h *CustomersHandler) GetCustomerDetails(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetCustomerDetails(c.Request.Context(), c.Param("code"), claims.BusinessCode)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
