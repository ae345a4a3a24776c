package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_PENDING     BookingStatus = "pending"
	BOOKING_CONFIRMED   BookingStatus = "confirmed"
	BOOKING_SCHEDULED   BookingStatus = "scheduled"
	BOOKING_IN_PROGRESS BookingStatus = "in_progress"
	BOOKING_COMPLETED   BookingStatus = "completed"
	BOOKING_CANCELLED   BookingStatus = "cancelled"
)

// Terminal reports whether no further transitions are permitted from s.
func (s BookingStatus) Terminal() bool {
	return s == BOOKING_COMPLETED || s == BOOKING_CANCELLED
}

type PricingType string

const (
	PRICING_PER_SQM  PricingType = "per_sqm"
	PRICING_PER_ITEM PricingType = "per_item"
	PRICING_PER_SEAT PricingType = "per_seat"
)

type UserRole string

const (
	ROLE_CUSTOMER   UserRole = "customer"
	ROLE_ADMIN      UserRole = "admin"
	ROLE_TECHNICIAN UserRole = "technician"
)

// Lifecycle event types published to the booking-events topic.
const (
	EVENT_BOOKING_CREATED        = "booking.created"
	EVENT_BOOKING_STATUS_CHANGED = "booking.status_changed"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type BookingRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type CreateBookingItemRequest struct {
	SubtypeID uint    `json:"subtype_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	Notes     string  `json:"notes,omitempty"`
}

type CreateBookingRequestBody struct {
	PickupAddressID   uint                       `json:"pickup_address" binding:"required"`
	DeliveryAddressID *uint                      `json:"delivery_address,omitempty"`
	PickupDate        string                     `json:"pickup_date" binding:"required,futuredate" time_format:"2006-01-02"`
	PickupSlotID      *uint                      `json:"pickup_time_slot,omitempty"`
	DeliveryDate      *string                    `json:"delivery_date,omitempty" binding:"omitempty,futuredate"`
	DeliverySlotID    *uint                      `json:"delivery_time_slot,omitempty"`
	CustomerNotes     string                     `json:"customer_notes,omitempty"`
	Items             []CreateBookingItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CancelBookingRequestBody struct {
	Reason string `json:"reason,omitempty"`
}

type RescheduleBookingRequestBody struct {
	NewPickupSlotID   uint  `json:"new_pickup_slot_id" binding:"required"`
	NewDeliverySlotID *uint `json:"new_delivery_slot_id,omitempty"`
}

type UpdateBookingStatusRequestBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed scheduled in_progress completed cancelled"`
	Notes  string `json:"notes,omitempty"`
}

type GenerateSlotsRequestBody struct {
	Days int `json:"days,omitempty" binding:"omitempty,gte=1,lte=365"`
}

type UpdateSettingsRequestBody struct {
	MinCancellationNoticeHours    *int     `json:"min_cancellation_notice_hours,omitempty" binding:"omitempty,gte=0"`
	MinRescheduleNoticeHours      *int     `json:"min_reschedule_notice_hours,omitempty" binding:"omitempty,gte=0"`
	CancellationFeePercentage     *float64 `json:"cancellation_fee_percentage,omitempty" binding:"omitempty,gte=0,lte=100"`
	LateCancellationFeePercentage *float64 `json:"late_cancellation_fee_percentage,omitempty" binding:"omitempty,gte=0,lte=100"`
}
