package common

import (
	"cbs/src/lib"
	"cbs/src/models"
	"cbs/src/types"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CancelBooking moves a booking to cancelled, releases its slot reservations
// and computes the refund under the current fee policy. Returns the updated
// booking and the refund amount. Refund execution happens downstream of the
// published event; this only computes the figure.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID, actorID uint, reason string) (*models.Booking, float64, error) {
	policy, err := s.policy.BookingPolicy(ctx)
	if err != nil {
		return nil, 0, err
	}

	var booking models.Booking
	var oldStatus types.BookingStatus
	var refund float64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("PickupSlot").
			First(&booking, "id = ?", id).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status.Terminal() {
			return ErrAlreadyTerminal
		}
		if time.Until(booking.PickupAt()) < time.Duration(policy.MinCancellationNoticeHours)*time.Hour {
			return &NoticeTooShortError{Action: "cancellation", Hours: policy.MinCancellationNoticeHours}
		}

		oldStatus = booking.Status
		now := time.Now()
		booking.Status = types.BOOKING_CANCELLED
		booking.CancelledAt = &now
		booking.CancellationReason = reason
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		history := models.BookingStatusHistory{
			BookingID:   booking.ID,
			OldStatus:   oldStatus,
			NewStatus:   types.BOOKING_CANCELLED,
			ChangedByID: &actorID,
			Notes:       reason,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if booking.PickupSlotID != nil {
			if err := ReleaseSlot(tx, *booking.PickupSlotID); err != nil {
				return err
			}
		}
		if booking.DeliverySlotID != nil {
			if err := ReleaseSlot(tx, *booking.DeliverySlotID); err != nil {
				return err
			}
		}

		refund = booking.Total - booking.Total*policy.CancellationFeePercentage/100
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.events.Publish(types.JSONB{
		"type":           types.EVENT_BOOKING_STATUS_CHANGED,
		"booking_id":     booking.ID.String(),
		"booking_number": booking.BookingNumber,
		"old_status":     string(oldStatus),
		"status":         string(types.BOOKING_CANCELLED),
		"actor_id":       actorID,
		"refund":         refund,
	})
	lib.InvalidateSlotsCache(ctx)
	return &booking, refund, nil
}

// RescheduleBooking moves an active booking onto new slots. The old
// reservations are released and the new ones taken in the same transaction,
// so a full target slot leaves the booking exactly where it was. The booking
// dates follow the new slots and the status becomes scheduled.
func (s *BookingService) RescheduleBooking(ctx context.Context, id uuid.UUID, actorID uint, newPickupSlotID uint, newDeliverySlotID *uint) (*models.Booking, error) {
	policy, err := s.policy.BookingPolicy(ctx)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	var oldStatus types.BookingStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("PickupSlot").
			First(&booking, "id = ?", id).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status.Terminal() {
			return ErrAlreadyTerminal
		}
		if time.Until(booking.PickupAt()) < time.Duration(policy.MinRescheduleNoticeHours)*time.Hour {
			return &NoticeTooShortError{Action: "reschedule", Hours: policy.MinRescheduleNoticeHours}
		}

		var newPickup models.TimeSlot
		if err := tx.First(&newPickup, "id = ?", newPickupSlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if !newPickup.Open() {
			return ErrSlotUnavailable
		}
		var newDelivery *models.TimeSlot
		if newDeliverySlotID != nil {
			var slot models.TimeSlot
			if err := tx.First(&slot, "id = ?", *newDeliverySlotID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSlotNotFound
				}
				return err
			}
			if !slot.Open() {
				return ErrSlotUnavailable
			}
			newDelivery = &slot
		}

		if booking.PickupSlotID != nil {
			if err := ReleaseSlot(tx, *booking.PickupSlotID); err != nil {
				return err
			}
		}
		if err := ReserveSlot(tx, newPickup.ID); err != nil {
			return err
		}
		// The delivery leg only moves when a new delivery slot was chosen.
		// A pickup-only reschedule keeps the existing delivery reservation.
		if newDelivery != nil {
			if booking.DeliverySlotID != nil {
				if err := ReleaseSlot(tx, *booking.DeliverySlotID); err != nil {
					return err
				}
			}
			if err := ReserveSlot(tx, newDelivery.ID); err != nil {
				return err
			}
		}

		oldStatus = booking.Status
		booking.PickupSlotID = &newPickup.ID
		booking.PickupDate = newPickup.Date
		if newDelivery != nil {
			booking.DeliverySlotID = &newDelivery.ID
			booking.DeliveryDate = &newDelivery.Date
		}
		booking.Status = types.BOOKING_SCHEDULED
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		history := models.BookingStatusHistory{
			BookingID:   booking.ID,
			OldStatus:   oldStatus,
			NewStatus:   types.BOOKING_SCHEDULED,
			ChangedByID: &actorID,
			Notes:       "Booking rescheduled by customer",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(types.JSONB{
		"type":           types.EVENT_BOOKING_STATUS_CHANGED,
		"booking_id":     booking.ID.String(),
		"booking_number": booking.BookingNumber,
		"old_status":     string(oldStatus),
		"status":         string(types.BOOKING_SCHEDULED),
		"actor_id":       actorID,
	})
	lib.InvalidateSlotsCache(ctx)
	return &booking, nil
}

// UpdateBookingStatus is the admin transition. Milestone timestamps are
// stamped the first time a status is reached and left alone on repeats. An
// admin cancellation releases the slot reservations like a customer one.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id uuid.UUID, actorID uint, newStatus types.BookingStatus, notes string) (*models.Booking, error) {
	var booking models.Booking
	var oldStatus types.BookingStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status.Terminal() {
			return ErrAlreadyTerminal
		}

		oldStatus = booking.Status
		now := time.Now()
		booking.Status = newStatus
		switch newStatus {
		case types.BOOKING_CONFIRMED:
			if booking.ConfirmedAt == nil {
				booking.ConfirmedAt = &now
			}
		case types.BOOKING_COMPLETED:
			if booking.CompletedAt == nil {
				booking.CompletedAt = &now
			}
		case types.BOOKING_CANCELLED:
			if booking.CancelledAt == nil {
				booking.CancelledAt = &now
			}
		}
		if notes != "" {
			booking.AdminNotes = notes
		}
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		if newStatus == types.BOOKING_CANCELLED {
			if booking.PickupSlotID != nil {
				if err := ReleaseSlot(tx, *booking.PickupSlotID); err != nil {
					return err
				}
			}
			if booking.DeliverySlotID != nil {
				if err := ReleaseSlot(tx, *booking.DeliverySlotID); err != nil {
					return err
				}
			}
		}

		history := models.BookingStatusHistory{
			BookingID:   booking.ID,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			ChangedByID: &actorID,
			Notes:       notes,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(types.JSONB{
		"type":           types.EVENT_BOOKING_STATUS_CHANGED,
		"booking_id":     booking.ID.String(),
		"booking_number": booking.BookingNumber,
		"old_status":     string(oldStatus),
		"status":         string(newStatus),
		"actor_id":       actorID,
	})
	if newStatus == types.BOOKING_CANCELLED {
		lib.InvalidateSlotsCache(ctx)
	}
	return &booking, nil
}

// BookingHistory returns the status transitions of a booking, oldest first.
func (s *BookingService) BookingHistory(ctx context.Context, id uuid.UUID) ([]models.BookingStatusHistory, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Count(&count).
		Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrBookingNotFound
	}
	var rows []models.BookingStatusHistory
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", id).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}
