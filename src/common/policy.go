package common

import (
	"cbs/src/models"
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
)

// Fixed key of the booking settings row.
const settingsKey uint = 1

// DefaultBookingSettings mirrors the defaults the service launched with:
// 2 hours notice for both operations, no fees.
func DefaultBookingSettings() models.BookingSettings {
	return models.BookingSettings{
		ID:                         settingsKey,
		MinCancellationNoticeHours: 2,
		MinRescheduleNoticeHours:   2,
		DefaultServiceStartTime:    "08:00",
		DefaultServiceEndTime:      "00:00",
	}
}

// GormPolicyProvider loads the settings row, creating it with defaults on
// first access. The row is never provisioned explicitly before first use.
type GormPolicyProvider struct {
	db *gorm.DB
}

func NewGormPolicyProvider(db *gorm.DB) *GormPolicyProvider {
	return &GormPolicyProvider{db: db}
}

// GetBookingSettings returns the stored settings row, creating defaults when
// absent. Used by the policy port and the admin settings surface.
func GetBookingSettings(ctx context.Context, db *gorm.DB) (*models.BookingSettings, error) {
	var settings models.BookingSettings
	err := db.WithContext(ctx).First(&settings, "id = ?", settingsKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = DefaultBookingSettings()
		if err := db.WithContext(ctx).Create(&settings).Error; err != nil {
			log.Printf("Error creating default booking settings: %s\n", err.Error())
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (p *GormPolicyProvider) BookingPolicy(ctx context.Context) (*BookingPolicy, error) {
	settings, err := GetBookingSettings(ctx, p.db)
	if err != nil {
		return nil, err
	}
	return &BookingPolicy{
		MinCancellationNoticeHours:    settings.MinCancellationNoticeHours,
		MinRescheduleNoticeHours:      settings.MinRescheduleNoticeHours,
		CancellationFeePercentage:     settings.CancellationFeePercentage,
		LateCancellationFeePercentage: settings.LateCancellationFeePercentage,
	}, nil
}
