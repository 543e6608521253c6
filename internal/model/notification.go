package model

import "time"

// Notification statuses. At most one ACTIVE row may exist for any
// (business, module, reference, action) key; the upsert-or-resolve logic in
// the notification service enforces this inside the triggering transaction.
const (
	NotificationActive   = "ACTIVE"
	NotificationResolved = "RESOLVED"
	NotificationHidden   = "HIDDEN"
)

// Notification actions raised by the inventory engine.
const (
	ActionLowStock    = "LOW_STOCK"
	ActionExpiryAlert = "EXPIRY_ALERT"
)

type Notification struct {
	ID            uint    `gorm:"primaryKey"`
	Code          string  `gorm:"column:notification_code;uniqueIndex;not null"`
	BusinessCode  string  `gorm:"not null;index"`
	RecipientCode *string // nil = visible to every user of the business
	Title         string  `gorm:"not null"`
	Message       string  `gorm:"not null"`
	Type          string  `gorm:"not null"` // ALERT | NOTIFICATION
	Module        string  `gorm:"not null;index:idx_notifications_key"`
	ReferenceCode string  `gorm:"not null;index:idx_notifications_key"`
	Action        string  `gorm:"not null;index:idx_notifications_key"`
	ActorType     string  `gorm:"not null;default:SYSTEM"`
	ActorCode     *string
	Status        string `gorm:"not null;default:ACTIVE"`
	ResolvedAt    *time.Time
	CreatedAt     time.Time
}

func (Notification) TableName() string { return "notifications" }
