package boot

import (
	"cbs/src/common"
	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.District{},
		&models.Category{},
		&models.SubType{},
		&models.Pricing{},
		&models.WorkingHours{},
		&models.Holiday{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.BookingItem{},
		&models.BookingStatusHistory{},
		&models.BookingSettings{},
		&models.AdminNotification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	SeedDefaults(db)
	return db
}

// SeedDefaults provisions the rows the service cannot run without: one
// working-hours row per weekday (Monday to Saturday open) and the settings
// singleton. Existing rows are never touched, so operator edits survive
// restarts.
func SeedDefaults(db *gorm.DB) {
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		wh := models.WorkingHours{}
		err := db.
			Where("weekday = ?", int(weekday)).
			Attrs(models.WorkingHours{
				Weekday:             int(weekday),
				IsWorkingDay:        weekday != time.Sunday,
				OpeningTime:         "09:00",
				ClosingTime:         "19:00",
				SlotDurationMinutes: 120,
				MaxBookingsPerSlot:  5,
			}).
			FirstOrCreate(&wh).
			Error
		if err != nil {
			log.Printf("Error seeding WorkingHours for weekday %d: %s\n", weekday, err.Error())
		}
	}
	if _, err := common.GetBookingSettings(context.Background(), db); err != nil {
		log.Printf("Error seeding BookingSettings: %s\n", err.Error())
	}
}

// InitScheduler runs slot generation immediately and then schedules the
// nightly maintenance: regenerate the 30-day slot window and drop expired
// slots.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}

	go func() {
		if _, err := common.GenerateTimeSlots(db.GetDb(), 30); err != nil {
			log.Printf("Error generating time slots: %s\n", err.Error())
		}
	}()

	_, err = lib.CreateDailyJob(func() {
		if _, err := common.GenerateTimeSlots(db.GetDb(), 30); err != nil {
			log.Printf("Error generating time slots: %s\n", err.Error())
		}
		if _, err := common.CleanExpiredSlots(db.GetDb()); err != nil {
			log.Printf("Error cleaning expired slots: %s\n", err.Error())
		}
	}, 1, 0)
	if err != nil {
		log.Printf("Error scheduling slot maintenance: %s\n", err.Error())
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

func InitBroker() {
	go lib.KafkaCreateTopics(common.BookingEventsTopic)
	go common.BookingEventsConsumer()
}
