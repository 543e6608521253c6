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

type BillsHandler struct{ svc service.BillService }

func NewBillsHandler(svc service.BillService) *BillsHandler { return &BillsHandler{svc: svc} }

// CreateBill creates an inventory-linked bill: stock deduction, payments and
// ledger entries all land in one transaction.
func (h *BillsHandler) CreateBill(c *gin.Context) {
	var req dto.CreateBillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.CreateBill(c.Request.Context(), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BillsHandler) ListBills(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListBills(c.Request.Context(), claims.BusinessCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list bills"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": resp})
}

func (h *BillsHandler) GetBillDetails(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetBillDetails(c.Request.Context(), c.Param("code"), claims.BusinessCode)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
