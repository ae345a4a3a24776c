package common

import (
	"cbs/src/config"
	"cbs/src/models"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReserveSlot takes one capacity unit from the slot inside the caller's
// transaction. The availability check and the increment are a single
// conditional update, so two concurrent reservations against the last unit
// cannot both succeed. Returns ErrSlotUnavailable when the slot is full or
// disabled.
func ReserveSlot(tx *gorm.DB, id uint) error {
	res := tx.
		Model(&models.TimeSlot{}).
		Where("id = ? AND disabled = ? AND current_bookings < max_capacity", id, false).
		UpdateColumn("current_bookings", gorm.Expr("current_bookings + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotUnavailable
	}
	// Flip availability off once the increment filled the slot.
	return tx.
		Model(&models.TimeSlot{}).
		Where("id = ? AND current_bookings >= max_capacity", id).
		UpdateColumn("is_available", false).
		Error
}

// ReleaseSlot returns one capacity unit. Releasing a slot already at zero is
// a no-op. Availability is re-enabled unless the slot was disabled by an
// admin or its date has passed.
func ReleaseSlot(tx *gorm.DB, id uint) error {
	res := tx.
		Model(&models.TimeSlot{}).
		Where("id = ? AND current_bookings > 0", id).
		UpdateColumn("current_bookings", gorm.Expr("current_bookings - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	today := datatypes.Date(time.Now())
	return tx.
		Model(&models.TimeSlot{}).
		Where("id = ? AND disabled = ? AND current_bookings < max_capacity AND date >= ?", id, false, today).
		UpdateColumn("is_available", true).
		Error
}

// GenerateTimeSlots creates slots for the next daysAhead days from the
// per-weekday working hours, skipping holidays and non-working days.
// Generation is idempotent: existing (date, start_time) slots are left
// untouched.
func GenerateTimeSlots(db *gorm.DB, daysAhead int) (int, error) {
	var hours []models.WorkingHours
	if err := db.Find(&hours).Error; err != nil {
		return 0, err
	}
	byWeekday := make(map[int]models.WorkingHours, len(hours))
	for _, wh := range hours {
		byWeekday[wh.Weekday] = wh
	}

	var holidayRows []models.Holiday
	if err := db.Find(&holidayRows).Error; err != nil {
		return 0, err
	}
	holidays := make(map[string]bool, len(holidayRows))
	for _, h := range holidayRows {
		holidays[time.Time(h.Date).Format(config.DATE_PARSE_FORMAT)] = true
	}

	created := 0
	today := time.Now()
	for offset := 0; offset < daysAhead; offset++ {
		day := today.AddDate(0, 0, offset)
		if holidays[day.Format(config.DATE_PARSE_FORMAT)] {
			continue
		}
		wh, ok := byWeekday[int(day.Weekday())]
		if !ok || !wh.IsWorkingDay {
			continue
		}

		opening, err := time.Parse(config.CLOCK_PARSE_FORMAT, wh.OpeningTime)
		if err != nil {
			return created, fmt.Errorf("invalid opening time %q for weekday %d: %w", wh.OpeningTime, wh.Weekday, err)
		}
		closing, err := time.Parse(config.CLOCK_PARSE_FORMAT, wh.ClosingTime)
		if err != nil {
			return created, fmt.Errorf("invalid closing time %q for weekday %d: %w", wh.ClosingTime, wh.Weekday, err)
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), opening.Hour(), opening.Minute(), 0, 0, time.Local)
		end := time.Date(day.Year(), day.Month(), day.Day(), closing.Hour(), closing.Minute(), 0, 0, time.Local)
		// "00:00" closing means end of day.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		duration := time.Duration(wh.SlotDurationMinutes) * time.Minute
		if duration <= 0 {
			continue
		}
		for cur := start; cur.Add(duration).Before(end) || cur.Add(duration).Equal(end); cur = cur.Add(duration) {
			slot := models.TimeSlot{}
			res := db.
				Where("date = ? AND start_time = ?", datatypes.Date(day), cur.Format(config.CLOCK_PARSE_FORMAT)).
				Attrs(models.TimeSlot{
					Date:        datatypes.Date(day),
					StartTime:   cur.Format(config.CLOCK_PARSE_FORMAT),
					EndTime:     cur.Add(duration).Format(config.CLOCK_PARSE_FORMAT),
					MaxCapacity: wh.MaxBookingsPerSlot,
					IsAvailable: true,
				}).
				FirstOrCreate(&slot)
			if res.Error != nil {
				return created, res.Error
			}
			if res.RowsAffected > 0 {
				created++
			}
		}
	}
	if created > 0 {
		log.Printf("[slots] Generated %d new time slots\n", created)
	}
	return created, nil
}

// CleanExpiredSlots removes slots whose date is before yesterday. Retention
// only; bookings keep their own date copies.
func CleanExpiredSlots(db *gorm.DB) (int64, error) {
	yesterday := datatypes.Date(time.Now().AddDate(0, 0, -1))
	res := db.
		Unscoped().
		Where("date < ?", yesterday).
		Delete(&models.TimeSlot{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[slots] Cleaned %d expired time slots\n", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
