package models

import (
	"cbs/src/config"
	"cbs/src/types"
	"time"

	"gorm.io/datatypes"
)

// TimeSlot is a finite-capacity pickup/delivery window on a calendar date.
// Capacity counters are only mutated through the conditional reserve/release
// updates in the common package.
type TimeSlot struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Date            datatypes.Date `gorm:"uniqueIndex:idx_slot_window;index:idx_slot_date_avail" json:"date"`
	StartTime       string         `gorm:"size:5;uniqueIndex:idx_slot_window" json:"start_time"`
	EndTime         string         `gorm:"size:5" json:"end_time"`
	MaxCapacity     uint           `gorm:"default:5" json:"max_capacity"`
	CurrentBookings uint           `gorm:"default:0" json:"current_bookings"`
	Disabled        bool           `gorm:"default:false" json:"disabled"`
	IsAvailable     bool           `gorm:"default:true;index:idx_slot_date_avail" json:"is_available"`

	types.Timestamps
}

// Open reports whether the slot can still take a reservation.
func (s *TimeSlot) Open() bool {
	return !s.Disabled && s.CurrentBookings < s.MaxCapacity
}

// StartsAt combines the slot date with its start clock time.
func (s *TimeSlot) StartsAt() time.Time {
	d := time.Time(s.Date)
	clock, err := time.Parse(config.CLOCK_PARSE_FORMAT, s.StartTime)
	if err != nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
}
