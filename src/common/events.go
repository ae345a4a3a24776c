package common

import (
	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
	"cbs/src/types"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// BookingEventsTopic carries every booking lifecycle event. The admin
// notification consumer and the external notification service both read it.
const BookingEventsTopic = "booking-events"

// KafkaEventSink publishes lifecycle events to the booking-events topic in
// the background. A broker outage costs the event, never the booking.
type KafkaEventSink struct {
	ClientID string
}

func (s *KafkaEventSink) Publish(event types.JSONB) {
	go func() {
		if err := lib.KafkaProduceMessage(s.ClientID, BookingEventsTopic, event); err != nil {
			log.Printf("Error publishing %s event: %s\n", event["type"], err.Error())
		}
	}()
}

// KafkaBookingEventsConsumer turns booking.created and cancelled
// booking.status_changed events into AdminNotification rows.
func KafkaBookingEventsConsumer(spayload string) {
	eventType := gjson.Get(spayload, "type").String()
	bookingNumber := gjson.Get(spayload, "booking_number").String()
	rawID := gjson.Get(spayload, "booking_id").String()

	var bookingID *uuid.UUID
	if id, err := uuid.Parse(rawID); err == nil {
		bookingID = &id
	}

	var notification models.AdminNotification
	switch eventType {
	case types.EVENT_BOOKING_CREATED:
		notification = models.AdminNotification{
			Title:            "New booking",
			Message:          fmt.Sprintf("Booking %s was created", bookingNumber),
			NotificationType: "booking_created",
			BookingID:        bookingID,
		}
	case types.EVENT_BOOKING_STATUS_CHANGED:
		if gjson.Get(spayload, "status").String() != string(types.BOOKING_CANCELLED) {
			return
		}
		notification = models.AdminNotification{
			Title:            "Booking cancelled",
			Message:          fmt.Sprintf("Booking %s was cancelled", bookingNumber),
			NotificationType: "booking_cancelled",
			BookingID:        bookingID,
		}
	default:
		return
	}

	if err := db.GetDb().Create(&notification).Error; err != nil {
		log.Printf("Error creating AdminNotification: %s\n", err.Error())
	}
}

// BookingEventsConsumer subscribes the notification consumer group to the
// booking-events topic.
func BookingEventsConsumer() {
	lib.KafkaConsumeTopic("booking_notifications", BookingEventsTopic, KafkaBookingEventsConsumer)
}
