package models

import (
	"cbs/src/types"

	"gorm.io/datatypes"
)

// WorkingHours configures slot generation for one weekday.
// Weekday follows time.Weekday numbering (Sunday = 0).
type WorkingHours struct {
	ID                  uint   `gorm:"primarykey" json:"id"`
	Weekday             int    `gorm:"uniqueIndex" json:"weekday"`
	IsWorkingDay        bool   `gorm:"default:true" json:"is_working_day"`
	OpeningTime         string `gorm:"size:5;default:'09:00'" json:"opening_time"`
	ClosingTime         string `gorm:"size:5;default:'19:00'" json:"closing_time"`
	SlotDurationMinutes int    `gorm:"default:120" json:"slot_duration_minutes"`
	MaxBookingsPerSlot  uint   `gorm:"default:5" json:"max_bookings_per_slot"`

	types.Timestamps
}

// Holiday is a non-working date skipped by slot generation.
type Holiday struct {
	ID   uint           `gorm:"primarykey" json:"id"`
	Date datatypes.Date `gorm:"uniqueIndex" json:"date"`
	Name string         `gorm:"size:100" json:"name"`

	types.Timestamps
}
