package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/model"

	"gorm.io/gorm"
)

// NotificationRepository backs the alert sink. At most one ACTIVE row may
// exist per (business, module, reference, action); FindActiveTx and
// CreateTx/ResolveTx must run inside the same transaction as the mutation
// that triggered the check, since there is no unique constraint to fall
// back on.
type NotificationRepository interface {
	FindActiveTx(tx *gorm.DB, businessCode, module, referenceCode, action string) (*model.Notification, error)
	CreateTx(tx *gorm.DB, n *model.Notification) error
	ResolveTx(tx *gorm.DB, id uint) error

	List(ctx context.Context, businessCode string) ([]model.Notification, error)
	CountActive(ctx context.Context, businessCode string) (int64, error)
	Hide(ctx context.Context, notificationCode, businessCode string) error

	DB() *gorm.DB
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) FindActiveTx(tx *gorm.DB, businessCode, module, referenceCode, action string) (*model.Notification, error) {
	var n model.Notification
	err := tx.
		Where("business_code = ? AND module = ? AND reference_code = ? AND action = ? AND status = ?",
			businessCode, module, referenceCode, action, model.NotificationActive).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) CreateTx(tx *gorm.DB, n *model.Notification) error {
	return tx.Create(n).Error
}

func (r *notificationRepo) ResolveTx(tx *gorm.DB, id uint) error {
	now := time.Now()
	return tx.Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.NotificationResolved,
			"resolved_at": now,
		}).Error
}

func (r *notificationRepo) List(ctx context.Context, businessCode string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("business_code = ? AND status <> ?", businessCode, model.NotificationHidden).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) CountActive(ctx context.Context, businessCode string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("business_code = ? AND status = ?", businessCode, model.NotificationActive).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) Hide(ctx context.Context, notificationCode, businessCode string) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_code = ? AND business_code = ?", notificationCode, businessCode).
		Update("status", model.NotificationHidden)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) DB() *gorm.DB { return r.db }
