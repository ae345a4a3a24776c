package main

import (
	"cbs/src/common"
	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var bookingService *common.BookingService

// getBookingService wires the service against the current db handle lazily,
// so tests swapping the handle via db.NewDB get a service over the test db.
func getBookingService() *common.BookingService {
	if bookingService == nil {
		conn := db.GetDb()
		bookingService = common.NewBookingService(
			conn,
			common.NewGormPricingLookup(conn),
			common.NewGormPolicyProvider(conn),
			&common.KafkaEventSink{ClientID: "bookingProducer"},
		)
	}
	return bookingService
}

// abortWithDomainError maps the booking error taxonomy onto HTTP statuses.
func abortWithDomainError(ctx *gin.Context, err error) {
	var pricingErr *common.NoActivePricingError
	var noticeErr *common.NoticeTooShortError
	switch {
	case errors.Is(err, common.ErrBookingNotFound),
		errors.Is(err, common.ErrSlotNotFound),
		errors.Is(err, common.ErrAddressNotFound),
		errors.Is(err, common.ErrSubtypeNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrSlotUnavailable),
		errors.Is(err, common.ErrAlreadyTerminal):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrEmptyItemList),
		errors.Is(err, common.ErrSlotRequired):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &pricingErr), errors.As(err, &noticeErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
	}
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := getBookingService().CreateBooking(ctx.Copy(), userId, &body)
			if err != nil {
				abortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: userId}).
				Preload("Items").
				Preload("PickupSlot").
				Order("created_at DESC").
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.BookingRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where("id = ? AND user_id = ?", params.ID, userId).
				Preload("Items").
				Preload("Items.Subtype").
				Preload("PickupAddress").
				Preload("DeliveryAddress").
				Preload("PickupSlot").
				Preload("DeliverySlot").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": common.ErrBookingNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.BookingRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CancelBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id := uuid.MustParse(params.ID)
			if !requireOwnBooking(ctx, id, userId) {
				return
			}
			booking, refund, err := getBookingService().CancelBooking(ctx.Copy(), id, userId, body.Reason)
			if err != nil {
				abortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking, "refund": refund})
		}).
		POST("/bookings/:id/reschedule", func(ctx *gin.Context) {
			var params types.BookingRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.RescheduleBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id := uuid.MustParse(params.ID)
			if !requireOwnBooking(ctx, id, userId) {
				return
			}
			booking, err := getBookingService().RescheduleBooking(ctx.Copy(), id, userId, body.NewPickupSlotID, body.NewDeliverySlotID)
			if err != nil {
				abortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/history", func(ctx *gin.Context) {
			var params types.BookingRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			id := uuid.MustParse(params.ID)
			if !requireOwnBooking(ctx, id, userId) {
				return
			}
			rows, err := getBookingService().BookingHistory(ctx.Copy(), id)
			if err != nil {
				abortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
		}).
		POST("/bookings/:id/reorder", func(ctx *gin.Context) {
			var params types.BookingRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Where("id = ? AND user_id = ?", params.ID, userId).
				Preload("Items").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": common.ErrBookingNotFound.Error()})
				return
			}
			// Prefill payload for a repeat order: same items and addresses,
			// dates and slots left for the customer to pick.
			items := make([]types.CreateBookingItemRequest, 0, len(booking.Items))
			for _, item := range booking.Items {
				items = append(items, types.CreateBookingItemRequest{
					SubtypeID: item.SubtypeID,
					Quantity:  item.Quantity,
					Notes:     item.Notes,
				})
			}
			ctx.JSON(http.StatusOK, gin.H{"data": types.CreateBookingRequestBody{
				PickupAddressID:   booking.PickupAddressID,
				DeliveryAddressID: booking.DeliveryAddressID,
				CustomerNotes:     booking.CustomerNotes,
				Items:             items,
			}})
		})
	return g
}

// requireOwnBooking rejects lifecycle calls against someone else's booking
// before the service layer runs.
func requireOwnBooking(ctx *gin.Context, id uuid.UUID, userId uint) bool {
	db := db.GetDb()
	var count int64
	if err := db.
		Model(&models.Booking{}).
		Where("id = ? AND user_id = ?", id, userId).
		Count(&count).
		Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
		return false
	}
	if count == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": common.ErrBookingNotFound.Error()})
		return false
	}
	return true
}
