package common

import (
	"cbs/src/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormPricingLookup reads the catalog tables directly.
type GormPricingLookup struct {
	db *gorm.DB
}

func NewGormPricingLookup(db *gorm.DB) *GormPricingLookup {
	return &GormPricingLookup{db: db}
}

func (p *GormPricingLookup) ActivePrice(ctx context.Context, subtypeID uint) (*ActivePrice, error) {
	var subtype models.SubType
	err := p.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", subtypeID, true).
		First(&subtype).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtypeNotFound
		}
		return nil, err
	}

	var pricing models.Pricing
	err = p.db.WithContext(ctx).
		Where("subtype_id = ? AND is_active = ?", subtypeID, true).
		Order("created_at DESC").
		First(&pricing).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NoActivePricingError{Subtype: subtype.Name}
		}
		return nil, err
	}

	return &ActivePrice{
		UnitPrice: pricing.FinalPrice(),
		Currency:  pricing.Currency,
	}, nil
}

func (p *GormPricingLookup) DeliveryFee(ctx context.Context, districtID uint) (float64, error) {
	var district models.District
	err := p.db.WithContext(ctx).First(&district, "id = ?", districtID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAddressNotFound
		}
		return 0, err
	}
	return district.DeliveryFee, nil
}
