package main

import (
	"cbs/src/config"
	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func slotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/timeslots", func(ctx *gin.Context) {
			var query struct {
				Date *string `form:"date" binding:"omitempty"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			q := db.Model(&models.TimeSlot{}).Order("date ASC, start_time ASC")
			if query.Date != nil {
				date, err := time.Parse(config.DATE_PARSE_FORMAT, *query.Date)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
					return
				}
				q = q.Where("date = ?", datatypes.Date(date))
			} else {
				q = q.Where("date >= ?", datatypes.Date(time.Now()))
			}
			var slots []models.TimeSlot
			if err := q.Find(&slots).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		GET("/timeslots/available", func(ctx *gin.Context) {
			rd := lib.GetRedisClient()
			if rd != nil {
				cached := rd.Get(context.Background(), lib.SlotsCacheKey).Val()
				if cached != "" {
					var grouped map[string][]models.TimeSlot
					if err := json.Unmarshal([]byte(cached), &grouped); err == nil {
						ctx.JSON(http.StatusOK, gin.H{"data": grouped})
						return
					}
					log.Printf("[redis] Discarding bad cache entry %s\n", lib.SlotsCacheKey)
				}
			}

			db := db.GetDb()
			var slots []models.TimeSlot
			err := db.
				Model(&models.TimeSlot{}).
				Where("is_available = ? AND date >= ?", true, datatypes.Date(time.Now())).
				Order("date ASC, start_time ASC").
				Find(&slots).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			grouped := make(map[string][]models.TimeSlot)
			for _, slot := range slots {
				key := time.Time(slot.Date).Format(config.DATE_PARSE_FORMAT)
				grouped[key] = append(grouped[key], slot)
			}

			if rd != nil {
				go func() {
					payload, err := json.Marshal(grouped)
					if err != nil {
						return
					}
					if err := rd.Set(context.Background(), lib.SlotsCacheKey, payload, 5*time.Minute).Err(); err != nil {
						log.Printf("[redis] Failed to cache %s: %s\n", lib.SlotsCacheKey, err.Error())
					}
				}()
			}
			ctx.JSON(http.StatusOK, gin.H{"data": grouped})
		})
	return g
}
