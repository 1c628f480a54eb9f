// models/customer.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Vertical values a customer can be onboarded under.
const (
	VerticalLodging    = "lodging"
	VerticalRestaurant = "restaurant"
)

// Customer is the tenant that owns room types, reservations and knowledge documents.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:255" json:"name"`
	Vertical string `gorm:"size:32;default:lodging" json:"vertical"`
	Phone    string `gorm:"size:50" json:"phone"`
	Address  string `gorm:"type:text" json:"address"`

	// Free-form facility / house-policy text surfaced by the facility tool query.
	FacilityInfo string `gorm:"type:text" json:"facilityInfo"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) IsLodging() bool {
	return c.Vertical == VerticalLodging
}
