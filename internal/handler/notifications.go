package handler

import (
	"net/http"
	"strconv"

	"github.com/ayushsinghal5500/ekbill-backend/internal/apierror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/apperror"
	"github.com/ayushsinghal5500/ekbill-backend/internal/middleware"
	"github.com/ayushsinghal5500/ekbill-backend/internal/service"
	"github.com/ayushsinghal5500/ekbill-backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type NotificationsHandler struct {
	svc service.NotificationService
	rdb *redis.Client
}

func NewNotificationsHandler(svc service.NotificationService, rdb *redis.Client) *NotificationsHandler {
	return &NotificationsHandler{svc: svc, rdb: rdb}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	notifications, err := h.svc.List(c.Request.Context(), claims.BusinessCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list notifications"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationsHandler) Hide(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.svc.Hide(c.Request.Context(), c.Param("code"), claims.BusinessCode); err != nil {
		c.JSON(apperror.HTTPStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Badge returns the cached unread-alert count maintained by the worker pool.
// A cache miss reads as zero; the next stock mutation repopulates it.
func (h *NotificationsHandler) Badge(c *gin.Context) {
	claims := middleware.GetClaims(c)

	count := 0
	val, err := h.rdb.Get(c.Request.Context(), worker.BadgeKey(claims.BusinessCode)).Result()
	if err == nil {
		count, _ = strconv.Atoi(val)
	}
	c.JSON(http.StatusOK, gin.H{"active_alerts": count})
}
