package common

import (
	"cbs/src/config"
	"cbs/src/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestReserveSlotFillsAndFlips(t *testing.T) {
	db := newTestDB(t)
	slot := seedSlot(t, db, dateIn(3), "10:00", 2)

	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) }))

	var got models.TimeSlot
	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(1), got.CurrentBookings)
	assert.True(t, got.IsAvailable)

	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) }))

	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(2), got.CurrentBookings)
	assert.False(t, got.IsAvailable, "full slot should no longer be available")

	err := db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) })
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(2), got.CurrentBookings, "counter must never exceed capacity")
}

func TestReserveDisabledSlot(t *testing.T) {
	db := newTestDB(t)
	slot := seedSlot(t, db, dateIn(3), "10:00", 5)
	assert.Nil(t, db.Model(&models.TimeSlot{}).Where("id = ?", slot.ID).
		Updates(map[string]any{"disabled": true, "is_available": false}).Error)

	err := db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) })
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReleaseSlotRestoresAvailability(t *testing.T) {
	db := newTestDB(t)
	slot := seedSlot(t, db, dateIn(3), "10:00", 1)

	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) }))

	var got models.TimeSlot
	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.False(t, got.IsAvailable)

	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReleaseSlot(tx, slot.ID) }))

	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(0), got.CurrentBookings)
	assert.True(t, got.IsAvailable, "released slot should accept bookings again")
}

func TestReleaseSlotFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	slot := seedSlot(t, db, dateIn(3), "10:00", 5)

	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReleaseSlot(tx, slot.ID) }))

	var got models.TimeSlot
	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(0), got.CurrentBookings)
}

func TestReleaseDisabledSlotStaysUnavailable(t *testing.T) {
	db := newTestDB(t)
	slot := seedSlot(t, db, dateIn(3), "10:00", 5)
	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) }))
	assert.Nil(t, db.Model(&models.TimeSlot{}).Where("id = ?", slot.ID).
		Updates(map[string]any{"disabled": true, "is_available": false}).Error)

	assert.Nil(t, db.Transaction(func(tx *gorm.DB) error { return ReleaseSlot(tx, slot.ID) }))

	var got models.TimeSlot
	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(0), got.CurrentBookings)
	assert.False(t, got.IsAvailable, "admin-disabled slot must not be re-enabled by a release")
}

func TestConcurrentReservations(t *testing.T) {
	db := newTestDB(t)
	const capacity = 3
	const attempts = 10
	slot := seedSlot(t, db, dateIn(3), "10:00", capacity)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.Transaction(func(tx *gorm.DB) error { return ReserveSlot(tx, slot.ID) })
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, capacity, succeeded, "exactly capacity reservations should win")

	var got models.TimeSlot
	assert.Nil(t, db.First(&got, slot.ID).Error)
	assert.Equal(t, uint(capacity), got.CurrentBookings)
	assert.False(t, got.IsAvailable)
}

func seedWorkingWeek(t *testing.T, db *gorm.DB) {
	t.Helper()
	for weekday := 0; weekday < 7; weekday++ {
		wh := models.WorkingHours{
			Weekday:             weekday,
			IsWorkingDay:        true,
			OpeningTime:         "09:00",
			ClosingTime:         "19:00",
			SlotDurationMinutes: 120,
			MaxBookingsPerSlot:  5,
		}
		if err := db.Create(&wh).Error; err != nil {
			t.Fatalf("Could not create working hours: %s", err.Error())
		}
	}
}

func TestGenerateTimeSlotsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedWorkingWeek(t, db)

	created, err := GenerateTimeSlots(db, 7)
	assert.Nil(t, err)
	// 09:00-19:00 in 120-minute windows is five slots per day.
	assert.Equal(t, 7*5, created)

	again, err := GenerateTimeSlots(db, 7)
	assert.Nil(t, err)
	assert.Equal(t, 0, again, "regeneration must not duplicate slots")

	var count int64
	assert.Nil(t, db.Model(&models.TimeSlot{}).Count(&count).Error)
	assert.Equal(t, int64(7*5), count)
}

func TestGenerateTimeSlotsSkipsHolidaysAndClosedDays(t *testing.T) {
	db := newTestDB(t)
	seedWorkingWeek(t, db)

	holiday := time.Now().AddDate(0, 0, 1)
	assert.Nil(t, db.Create(&models.Holiday{Date: datatypes.Date(holiday), Name: "Republic Day"}).Error)

	closedDay := time.Now().AddDate(0, 0, 2)
	assert.Nil(t, db.Model(&models.WorkingHours{}).
		Where("weekday = ?", int(closedDay.Weekday())).
		Update("is_working_day", false).Error)

	created, err := GenerateTimeSlots(db, 4)
	assert.Nil(t, err)
	assert.Equal(t, 2*5, created)

	var onHoliday int64
	assert.Nil(t, db.Model(&models.TimeSlot{}).Where("date = ?", datatypes.Date(holiday)).Count(&onHoliday).Error)
	assert.Zero(t, onHoliday)
}

func TestCleanExpiredSlots(t *testing.T) {
	db := newTestDB(t)
	seedSlot(t, db, dateIn(-5), "10:00", 5)
	seedSlot(t, db, dateIn(-1), "10:00", 5)
	keep := seedSlot(t, db, dateIn(2), "10:00", 5)

	removed, err := CleanExpiredSlots(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), removed, "only slots older than yesterday are dropped")

	var remaining []models.TimeSlot
	assert.Nil(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 2)
	var got models.TimeSlot
	assert.Nil(t, db.First(&got, keep.ID).Error)
	assert.Equal(t, keep.StartTime, got.StartTime)
}

func TestSlotStartsAt(t *testing.T) {
	slot := models.TimeSlot{Date: dateIn(1), StartTime: "14:00"}
	at := slot.StartsAt()
	assert.Equal(t, 14, at.Hour())
	assert.Equal(t, "14:00", at.Format(config.CLOCK_PARSE_FORMAT))
}
