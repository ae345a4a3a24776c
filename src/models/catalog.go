package models

import (
	"cbs/src/types"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// District is a service area with a flat delivery fee.
type District struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"size:100;uniqueIndex" json:"name"`
	DeliveryFee float64 `gorm:"type:decimal(10,2);default:0" json:"delivery_fee"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`

	types.Timestamps
}

// Category is a service family (carpets, sofas, curtains, duvets).
type Category struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	Name          string            `gorm:"size:100" json:"name"`
	Slug          string            `gorm:"size:100;uniqueIndex" json:"slug"`
	Description   string            `gorm:"type:text" json:"description,omitempty"`
	PricingType   types.PricingType `gorm:"size:20" json:"pricing_type,omitempty"`
	IsActive      bool              `gorm:"default:true" json:"is_active"`
	OrderPriority int               `gorm:"default:0" json:"order_priority,omitempty"`

	// Scheduling behavior. Sofa cleaning happens on site and needs a time
	// slot; carpet cleaning is pickup/delivery with a turnaround window.
	RequiresTimeSelection        bool `gorm:"default:false" json:"requires_time_selection"`
	RequiresPickupDelivery       bool `gorm:"default:false" json:"requires_pickup_delivery"`
	MinDaysBetweenPickupDelivery int  `gorm:"default:7" json:"min_days_between_pickup_delivery,omitempty"`

	Subtypes []SubType `gorm:"foreignKey:category_id" json:"subtypes,omitempty"`

	types.Timestamps
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

// SubType is the priced unit of service being booked.
type SubType struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CategoryID uint   `gorm:"index" json:"category_id"`
	Name       string `gorm:"size:100" json:"name"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`

	Category *Category `gorm:"foreignKey:category_id" json:"category,omitempty"`
	Pricing  []Pricing `gorm:"foreignKey:subtype_id" json:"pricing,omitempty"`

	types.Timestamps
}

// Pricing is a price entry for a subtype, optionally discounted and
// time-bounded. Only active entries take part in booking creation.
type Pricing struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	SubtypeID          uint       `gorm:"index" json:"subtype_id"`
	BasePrice          float64    `gorm:"type:decimal(10,2)" json:"base_price"`
	Currency           string     `gorm:"size:3;default:'TRY'" json:"currency"`
	DiscountPercentage float64    `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	ValidFrom          *time.Time `json:"valid_from,omitempty"`
	ValidUntil         *time.Time `json:"valid_until,omitempty"`
	IsActive           bool       `gorm:"default:true;index" json:"is_active"`

	types.Timestamps
}

// FinalPrice applies the discount percentage to the base price.
func (p *Pricing) FinalPrice() float64 {
	if p.DiscountPercentage > 0 {
		return p.BasePrice - (p.BasePrice*p.DiscountPercentage)/100
	}
	return p.BasePrice
}
