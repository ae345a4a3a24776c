package models

import (
	"cbs/src/types"
	"time"

	"github.com/google/uuid"
)

// BookingStatusHistory is an append-only audit trail of status transitions.
// Rows are never updated or deleted after creation.
type BookingStatusHistory struct {
	ID          uint                `gorm:"primarykey" json:"id"`
	BookingID   uuid.UUID           `gorm:"type:uuid;index" json:"booking_id"`
	OldStatus   types.BookingStatus `gorm:"size:20" json:"old_status"`
	NewStatus   types.BookingStatus `gorm:"size:20" json:"new_status"`
	ChangedByID *uint               `json:"changed_by,omitempty"`
	Notes       string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime:nano" json:"created_at"`

	ChangedBy *User `gorm:"foreignKey:changed_by_id" json:"-"`
}
