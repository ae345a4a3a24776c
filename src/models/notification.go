package models

import (
	"cbs/src/types"

	"github.com/google/uuid"
)

// AdminNotification is an in-app notification row for the admin panel,
// written by the booking-events consumer. Push/email delivery is handled by
// the external notification service consuming the same topic.
type AdminNotification struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	Title            string     `gorm:"size:200" json:"title"`
	Message          string     `gorm:"type:text" json:"message"`
	NotificationType string     `gorm:"size:50;index" json:"notification_type"`
	BookingID        *uuid.UUID `gorm:"type:uuid" json:"booking_id,omitempty"`
	IsRead           bool       `gorm:"default:false;index" json:"is_read"`

	types.Timestamps
}
