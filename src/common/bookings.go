package common

import (
	"cbs/src/config"
	"cbs/src/lib"
	"cbs/src/models"
	"cbs/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BookingService owns booking creation and the lifecycle state machine. The
// catalog, policy and event collaborators are injected so the core stays
// testable with fakes.
type BookingService struct {
	db      *gorm.DB
	pricing PricingLookup
	policy  PolicyProvider
	events  EventSink
}

func NewBookingService(db *gorm.DB, pricing PricingLookup, policy PolicyProvider, events EventSink) *BookingService {
	return &BookingService{
		db:      db,
		pricing: pricing,
		policy:  policy,
		events:  events,
	}
}

// CreateBooking turns a validated request into a persisted booking with its
// line items and slot reservations, as one transaction. Any failure leaves
// nothing behind: no booking, no items, no incremented slot counters.
func (s *BookingService) CreateBooking(ctx context.Context, userID uint, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	if len(body.Items) == 0 {
		return nil, ErrEmptyItemList
	}
	pickupDate, err := time.Parse(config.DATE_PARSE_FORMAT, body.PickupDate)
	if err != nil {
		return nil, fmt.Errorf("invalid pickup date: %w", err)
	}

	var booking models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pickupAddress models.Address
		if err := tx.
			Where("id = ? AND user_id = ?", body.PickupAddressID, userID).
			First(&pickupAddress).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}
		if body.DeliveryAddressID != nil {
			var deliveryAddress models.Address
			if err := tx.
				Where("id = ? AND user_id = ?", *body.DeliveryAddressID, userID).
				First(&deliveryAddress).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAddressNotFound
				}
				return err
			}
		}

		// Snapshot pricing per item. Prices are captured now so later
		// catalog changes never alter this booking.
		subtotal := 0.0
		currency := ""
		requiresSlot := false
		items := make([]models.BookingItem, 0, len(body.Items))
		for _, req := range body.Items {
			var subtype models.SubType
			if err := tx.
				Preload("Category").
				Where("id = ? AND is_active = ?", req.SubtypeID, true).
				First(&subtype).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSubtypeNotFound
				}
				return err
			}
			if subtype.Category != nil && subtype.Category.RequiresTimeSelection {
				requiresSlot = true
			}

			price, err := s.pricing.ActivePrice(ctx, req.SubtypeID)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = price.Currency
			}
			subtotal += price.UnitPrice * req.Quantity
			items = append(items, models.BookingItem{
				SubtypeID: req.SubtypeID,
				Quantity:  req.Quantity,
				UnitPrice: price.UnitPrice,
				Notes:     req.Notes,
			})
		}

		deliveryFee, err := s.pricing.DeliveryFee(ctx, pickupAddress.DistrictID)
		if err != nil {
			return err
		}

		booking = models.Booking{
			UserID:            userID,
			PickupAddressID:   body.PickupAddressID,
			DeliveryAddressID: body.DeliveryAddressID,
			PickupDate:        datatypes.Date(pickupDate),
			Status:            types.BOOKING_PENDING,
			Subtotal:          subtotal,
			DeliveryFee:       deliveryFee,
			CustomerNotes:     body.CustomerNotes,
		}
		if currency != "" {
			booking.Currency = currency
		}

		if requiresSlot && body.PickupSlotID == nil {
			return ErrSlotRequired
		}
		if body.PickupSlotID != nil {
			var slot models.TimeSlot
			if err := tx.First(&slot, "id = ?", *body.PickupSlotID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSlotNotFound
				}
				return err
			}
			if !slot.Open() {
				return ErrSlotUnavailable
			}
			booking.PickupSlotID = body.PickupSlotID
			booking.PickupDate = slot.Date
		}
		if body.DeliveryDate != nil {
			d, err := time.Parse(config.DATE_PARSE_FORMAT, *body.DeliveryDate)
			if err != nil {
				return fmt.Errorf("invalid delivery date: %w", err)
			}
			dd := datatypes.Date(d)
			booking.DeliveryDate = &dd
		}
		if body.DeliverySlotID != nil {
			var slot models.TimeSlot
			if err := tx.First(&slot, "id = ?", *body.DeliverySlotID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSlotNotFound
				}
				return err
			}
			if !slot.Open() {
				return ErrSlotUnavailable
			}
			booking.DeliverySlotID = body.DeliverySlotID
			booking.DeliveryDate = &slot.Date
		}

		number, err := uniqueBookingNumber(tx)
		if err != nil {
			return err
		}
		booking.BookingNumber = number

		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("error creating Booking: %w", err)
		}
		for i := range items {
			items[i].BookingID = booking.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("error creating BookingItem: %w", err)
			}
		}
		booking.Items = items

		// Reservations happen last: a lost capacity race rolls the whole
		// booking back.
		if booking.PickupSlotID != nil {
			if err := ReserveSlot(tx, *booking.PickupSlotID); err != nil {
				return err
			}
		}
		if booking.DeliverySlotID != nil {
			if err := ReserveSlot(tx, *booking.DeliverySlotID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(types.JSONB{
		"type":           types.EVENT_BOOKING_CREATED,
		"booking_id":     booking.ID.String(),
		"booking_number": booking.BookingNumber,
		"user_id":        booking.UserID,
		"total":          booking.Total,
	})
	lib.InvalidateSlotsCache(ctx)
	return &booking, nil
}

// uniqueBookingNumber retries the random suffix on collision. Collisions are
// astronomically rare; the loop bound is paranoia, not expectation.
func uniqueBookingNumber(tx *gorm.DB) (string, error) {
	for range 5 {
		number := models.NewBookingNumber()
		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Where("booking_number = ?", number).
			Count(&count).
			Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
		log.Printf("[bookings] Booking number collision on %s, retrying\n", number)
	}
	return "", errors.New("could not generate a unique booking number")
}
