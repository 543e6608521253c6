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

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	product, err := h.svc.CreateProduct(c.Request.Context(), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product_code": product.Code})
}

func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	product, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("code"), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_code": product.Code})
}

func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("code"), claims.BusinessCode); err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) GetProduct(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetProduct(c.Request.Context(), c.Param("code"), claims.BusinessCode)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.ListProducts(c.Request.Context(), claims.BusinessCode, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockIn appends an IN movement to the stock ledger.
func (h *ProductsHandler) StockIn(c *gin.Context) {
	h.moveStock(c, true)
}

// StockOut appends an OUT movement after the locked availability check.
func (h *ProductsHandler) StockOut(c *gin.Context) {
	h.moveStock(c, false)
}

func (h *ProductsHandler) moveStock(c *gin.Context, in bool) {
	var req dto.StockMoveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	move := h.svc.StockOut
	if in {
		move = h.svc.StockIn
	}
	movement, err := move(c.Request.Context(), claims.BusinessCode, claims.UserCode, req)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"movement_code": movement.Code})
}

func (h *ProductsHandler) GetStockHistory(c *gin.Context) {
	var filter dto.StockHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)

	history, err := h.svc.GetStockHistory(c.Request.Context(), c.Param("code"), claims.BusinessCode, filter)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *ProductsHandler) GetStockBalance(c *gin.Context) {
	claims := middleware.GetClaims(c)
	balance, err := h.svc.GetStockBalance(c.Request.Context(), c.Param("code"), claims.BusinessCode)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, balance)
}
