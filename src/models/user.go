package models

import (
	"cbs/src/types"
)

// User is a reference row for customers, technicians and admins. Identity
// management (registration, passwords) lives outside this service.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"size:120;uniqueIndex" json:"email"`
	FirstName string         `gorm:"size:100" json:"first_name,omitempty"`
	LastName  string         `gorm:"size:100" json:"last_name,omitempty"`
	Phone     string         `gorm:"size:20" json:"phone,omitempty"`
	Role      types.UserRole `gorm:"size:20;default:'customer'" json:"role,omitempty"`

	Addresses []Address `gorm:"foreignKey:user_id" json:"addresses,omitempty"`

	types.Timestamps
}

type Address struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	UserID      uint   `gorm:"index" json:"user_id,omitempty"`
	DistrictID  uint   `json:"district_id"`
	Title       string `gorm:"size:100" json:"title,omitempty"`
	FullAddress string `gorm:"type:text" json:"full_address,omitempty"`
	IsDefault   bool   `gorm:"default:false" json:"is_default"`

	District *District `gorm:"foreignKey:district_id" json:"district,omitempty"`

	types.Timestamps
}
