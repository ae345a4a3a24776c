package models

import (
	"cbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingItem is one line of a booking. The unit price is captured at
// booking time so later catalog changes never alter historical bookings.
type BookingItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	SubtypeID uint      `json:"subtype,omitempty"`
	Quantity  float64   `gorm:"type:decimal(10,2)" json:"quantity"`
	UnitPrice float64   `gorm:"type:decimal(10,2)" json:"unit_price"`
	LineTotal float64   `gorm:"type:decimal(10,2)" json:"line_total"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`

	Subtype *SubType `gorm:"foreignKey:subtype_id" json:"subtype_details,omitempty"`

	types.Timestamps
}

func (i *BookingItem) BeforeSave(tx *gorm.DB) error {
	i.LineTotal = i.Quantity * i.UnitPrice
	return nil
}
