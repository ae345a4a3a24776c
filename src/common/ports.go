package common

import (
	"cbs/src/types"
	"context"
)

// ActivePrice is the unit price snapshot returned by the pricing catalog,
// with any catalog discount already applied.
type ActivePrice struct {
	UnitPrice float64
	Currency  string
}

// PricingLookup is the read-only catalog port. The booking core never
// mutates catalog rows.
type PricingLookup interface {
	ActivePrice(ctx context.Context, subtypeID uint) (*ActivePrice, error)
	DeliveryFee(ctx context.Context, districtID uint) (float64, error)
}

// PolicyProvider supplies the booking policy (notice windows and fee
// percentages), creating defaults on first access.
type PolicyProvider interface {
	BookingPolicy(ctx context.Context) (*BookingPolicy, error)
}

// BookingPolicy is the policy snapshot used by lifecycle guards.
type BookingPolicy struct {
	MinCancellationNoticeHours    int
	MinRescheduleNoticeHours      int
	CancellationFeePercentage     float64
	LateCancellationFeePercentage float64
}

// EventSink receives lifecycle events. Publishing is fire-and-forget: the
// sink owns its own retry semantics and nothing in the core consumes a
// result.
type EventSink interface {
	Publish(event types.JSONB)
}
