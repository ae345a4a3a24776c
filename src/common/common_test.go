package common

import (
	"cbs/src/models"
	"cbs/src/types"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

// newTestDB opens a fresh in-memory database per test. The pool is pinned to
// a single connection so concurrent goroutines in the reservation tests
// serialize instead of tripping over sqlite busy errors.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:commontest%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening test database", err)
	}
	inner, err := db.DB()
	if err != nil {
		log.Fatalf("Error accessing inner db instance: %s", err.Error())
	}
	inner.SetMaxOpenConns(1)

	err = db.AutoMigrate(
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
	t.Cleanup(func() {
		inner.Close()
	})
	return db
}

// recorderSink captures published events for assertions.
type recorderSink struct {
	mu     sync.Mutex
	events []types.JSONB
}

func (r *recorderSink) Publish(event types.JSONB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestService(db *gorm.DB) (*BookingService, *recorderSink) {
	sink := &recorderSink{}
	svc := NewBookingService(db, NewGormPricingLookup(db), NewGormPolicyProvider(db), sink)
	return svc, sink
}

func dateIn(days int) datatypes.Date {
	return datatypes.Date(time.Now().AddDate(0, 0, days))
}

func seedSlot(t *testing.T, db *gorm.DB, date datatypes.Date, start string, capacity uint) *models.TimeSlot {
	t.Helper()
	slot := models.TimeSlot{
		Date:        date,
		StartTime:   start,
		EndTime:     "12:00",
		MaxCapacity: capacity,
		IsAvailable: true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Could not create time slot: %s", err.Error())
	}
	return &slot
}

type catalogFixture struct {
	User    models.User
	Address models.Address
	Subtype models.SubType
}

// seedCatalog creates a customer with an address in a district charging the
// given delivery fee, plus one active subtype. When withPricing is set, an
// active price entry at basePrice is attached.
func seedCatalog(t *testing.T, db *gorm.DB, deliveryFee, basePrice float64, requiresTime, withPricing bool) catalogFixture {
	t.Helper()
	district := models.District{Name: fmt.Sprintf("District %d", testDBCounter), DeliveryFee: deliveryFee, IsActive: true}
	if err := db.Create(&district).Error; err != nil {
		t.Fatalf("Could not create district: %s", err.Error())
	}
	user := models.User{Email: fmt.Sprintf("customer%d@example.com", testDBCounter), FirstName: "Test", Role: types.ROLE_CUSTOMER}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Could not create user: %s", err.Error())
	}
	address := models.Address{UserID: user.ID, DistrictID: district.ID, Title: "Home", FullAddress: "1 Test St"}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("Could not create address: %s", err.Error())
	}
	category := models.Category{
		Name:                  "Sofa Cleaning",
		Slug:                  fmt.Sprintf("sofa-cleaning-%d", testDBCounter),
		PricingType:           types.PRICING_PER_SEAT,
		IsActive:              true,
		RequiresTimeSelection: requiresTime,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Could not create category: %s", err.Error())
	}
	subtype := models.SubType{CategoryID: category.ID, Name: "3-seat sofa", IsActive: true}
	if err := db.Create(&subtype).Error; err != nil {
		t.Fatalf("Could not create subtype: %s", err.Error())
	}
	if withPricing {
		pricing := models.Pricing{SubtypeID: subtype.ID, BasePrice: basePrice, Currency: "TRY", IsActive: true}
		if err := db.Create(&pricing).Error; err != nil {
			t.Fatalf("Could not create pricing: %s", err.Error())
		}
	}
	return catalogFixture{User: user, Address: address, Subtype: subtype}
}
