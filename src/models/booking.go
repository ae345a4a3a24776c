package models

import (
	"cbs/src/types"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	BookingNumber string    `gorm:"size:20;uniqueIndex" json:"booking_number"`

	UserID            uint  `gorm:"index:idx_booking_user_status" json:"user_id,omitempty"`
	PickupAddressID   uint  `json:"pickup_address,omitempty"`
	DeliveryAddressID *uint `json:"delivery_address,omitempty"`

	PickupDate     datatypes.Date  `gorm:"index:idx_booking_status_date,priority:2" json:"pickup_date"`
	PickupSlotID   *uint           `json:"pickup_time_slot,omitempty"`
	DeliveryDate   *datatypes.Date `json:"delivery_date,omitempty"`
	DeliverySlotID *uint           `json:"delivery_time_slot,omitempty"`

	Status               types.BookingStatus `gorm:"size:20;default:'pending';index:idx_booking_status_date,priority:1;index:idx_booking_user_status" json:"status,omitempty"`
	AssignedTechnicianID *uint               `json:"assigned_technician,omitempty"`

	Subtotal    float64 `gorm:"type:decimal(10,2)" json:"subtotal"`
	DeliveryFee float64 `gorm:"type:decimal(10,2);default:0" json:"delivery_fee"`
	Discount    float64 `gorm:"type:decimal(10,2);default:0" json:"discount"`
	Total       float64 `gorm:"type:decimal(10,2)" json:"total"`
	Currency    string  `gorm:"size:3;default:'TRY'" json:"currency,omitempty"`

	CustomerNotes      string `gorm:"type:text" json:"customer_notes,omitempty"`
	AdminNotes         string `gorm:"type:text" json:"admin_notes,omitempty"`
	CancellationReason string `gorm:"type:text" json:"cancellation_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	User            *User         `gorm:"foreignKey:user_id" json:"user,omitempty"`
	PickupAddress   *Address      `gorm:"foreignKey:pickup_address_id" json:"pickup_address_details,omitempty"`
	DeliveryAddress *Address      `gorm:"foreignKey:delivery_address_id" json:"delivery_address_details,omitempty"`
	PickupSlot      *TimeSlot     `gorm:"foreignKey:pickup_slot_id" json:"pickup_slot,omitempty"`
	DeliverySlot    *TimeSlot     `gorm:"foreignKey:delivery_slot_id" json:"delivery_slot,omitempty"`
	Items           []BookingItem `gorm:"foreignKey:booking_id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items,omitempty"`

	types.Timestamps
}

// NewBookingNumber returns a human-readable booking number: a fixed prefix,
// the 4-digit creation year and a random 5-digit suffix. Uniqueness is the
// caller's responsibility (retry on collision).
func NewBookingNumber() string {
	return fmt.Sprintf("BK%d%d", time.Now().Year(), rand.Intn(90000)+10000)
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BookingNumber == "" {
		b.BookingNumber = NewBookingNumber()
	}
	return nil
}

// BeforeSave keeps the total consistent with its parts on every persist.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	b.Total = b.Subtotal + b.DeliveryFee - b.Discount
	return nil
}

// PickupAt is the moment the pickup is due: the slot start time when a slot
// is attached, otherwise midnight of the pickup date (categories that do not
// require time selection).
func (b *Booking) PickupAt() time.Time {
	if b.PickupSlot != nil {
		return b.PickupSlot.StartsAt()
	}
	d := time.Time(b.PickupDate)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
}
