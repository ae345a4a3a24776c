package models

import "time"

// BookingSettings holds the cancellation/reschedule policy. A single row is
// maintained behind the PolicyProvider port; nothing in the model enforces
// the singleton.
type BookingSettings struct {
	ID uint `gorm:"primarykey" json:"id"`

	MinCancellationNoticeHours int `gorm:"default:2" json:"min_cancellation_notice_hours"`
	MinRescheduleNoticeHours   int `gorm:"default:2" json:"min_reschedule_notice_hours"`

	CancellationFeePercentage     float64 `gorm:"type:decimal(5,2);default:0" json:"cancellation_fee_percentage"`
	LateCancellationFeePercentage float64 `gorm:"type:decimal(5,2);default:0" json:"late_cancellation_fee_percentage"`

	DefaultServiceStartTime string `gorm:"size:5;default:'08:00'" json:"default_service_start_time"`
	DefaultServiceEndTime   string `gorm:"size:5;default:'00:00'" json:"default_service_end_time"`

	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}
