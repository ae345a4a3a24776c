package main

import (
	"cbs/src/common"
	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.BookingRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actorId := ctx.GetUint("id")
			booking, err := getBookingService().UpdateBookingStatus(
				ctx.Copy(),
				uuid.MustParse(params.ID),
				actorId,
				types.BookingStatus(body.Status),
				body.Notes,
			)
			if err != nil {
				abortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/recent", func(ctx *gin.Context) {
			db := db.GetDb()
			var bookings []models.Booking
			err := db.
				Model(&models.Booking{}).
				Preload("User").
				Preload("Items").
				Order("created_at DESC").
				Limit(20).
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/stats", func(ctx *gin.Context) {
			db := db.GetDb()
			type statusCount struct {
				Status types.BookingStatus `json:"status"`
				Count  int64               `json:"count"`
			}
			var byStatus []statusCount
			if err := db.
				Model(&models.Booking{}).
				Select("status, count(*) as count").
				Group("status").
				Find(&byStatus).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			var todayCount int64
			if err := db.
				Model(&models.Booking{}).
				Where("pickup_date = ?", datatypes.Date(time.Now())).
				Count(&todayCount).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			var revenue float64
			if err := db.
				Model(&models.Booking{}).
				Where("status = ?", types.BOOKING_COMPLETED).
				Select("coalesce(sum(total), 0)").
				Scan(&revenue).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"by_status": byStatus,
				"today":     todayCount,
				"revenue":   revenue,
			}})
		}).
		GET("/settings", func(ctx *gin.Context) {
			settings, err := common.GetBookingSettings(ctx.Copy(), db.GetDb())
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		PUT("/settings", func(ctx *gin.Context) {
			var body types.UpdateSettingsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			settings, err := common.GetBookingSettings(ctx.Copy(), db)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if body.MinCancellationNoticeHours != nil {
				settings.MinCancellationNoticeHours = *body.MinCancellationNoticeHours
			}
			if body.MinRescheduleNoticeHours != nil {
				settings.MinRescheduleNoticeHours = *body.MinRescheduleNoticeHours
			}
			if body.CancellationFeePercentage != nil {
				settings.CancellationFeePercentage = *body.CancellationFeePercentage
			}
			if body.LateCancellationFeePercentage != nil {
				settings.LateCancellationFeePercentage = *body.LateCancellationFeePercentage
			}
			if err := db.Save(settings).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		POST("/timeslots/generate", func(ctx *gin.Context) {
			var body types.GenerateSlotsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			days := body.Days
			if days <= 0 {
				days = 30
			}
			created, err := common.GenerateTimeSlots(db.GetDb(), days)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"created": created})
		})
	return g
}
