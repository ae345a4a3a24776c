package common

import (
	"cbs/src/db"
	"cbs/src/models"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBookingEventsConsumerWritesNotifications(t *testing.T) {
	d := newTestDB(t)
	db.NewDB(d)

	bookingId := uuid.New()
	KafkaBookingEventsConsumer(fmt.Sprintf(
		`{"type":"booking.created","booking_id":"%s","booking_number":"BK202512345"}`, bookingId,
	))

	var notifications []models.AdminNotification
	assert.Nil(t, d.Find(&notifications).Error)
	assert.Len(t, notifications, 1)
	assert.Equal(t, "booking_created", notifications[0].NotificationType)
	assert.Equal(t, bookingId, *notifications[0].BookingID)

	// Non-cancellation transitions are not notified.
	KafkaBookingEventsConsumer(fmt.Sprintf(
		`{"type":"booking.status_changed","status":"confirmed","booking_id":"%s","booking_number":"BK202512345"}`, bookingId,
	))
	assert.Nil(t, d.Find(&notifications).Error)
	assert.Len(t, notifications, 1)

	KafkaBookingEventsConsumer(fmt.Sprintf(
		`{"type":"booking.status_changed","status":"cancelled","booking_id":"%s","booking_number":"BK202512345"}`, bookingId,
	))
	assert.Nil(t, d.Find(&notifications).Error)
	assert.Len(t, notifications, 2)
	assert.Equal(t, "booking_cancelled", notifications[1].NotificationType)

	// Unknown payloads are dropped on the floor.
	KafkaBookingEventsConsumer(`{"type":"something.else"}`)
	assert.Nil(t, d.Find(&notifications).Error)
	assert.Len(t, notifications, 2)
}
