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

type QuickBillsHandler struct{ svc service.QuickBillService }

func NewQuickBillsHandler(svc service.QuickBillService) *QuickBillsHandler {
	return &QuickBillsHandler{svc: svc}
}

func (h *QuickBillsHandler) CreateQuickBill(c *gin.Context) {
	var req dto.CreateQuickBillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.CreateQuickBill(c.Request.Context(), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *QuickBillsHandler) ListQuickBills(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListQuickBills(c.Request.Context(), claims.BusinessCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list quick bills"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"quick_bills": resp})
}

func (h *QuickBillsHandler) GetQuickBillDetails(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetQuickBillDetails(c.Request.Context(), c.Param("code"), claims.BusinessCode)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
