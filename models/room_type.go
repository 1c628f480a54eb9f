// models/room_type.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType groups identical rooms of one customer. TotalRooms is a plain
// counter mutated in place by the inventory service, not derived from room
// rows.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint   `gorm:"index;column:customer_id" json:"customer_id"`
	Name       string `gorm:"size:255" json:"name"`

	TotalRooms int     `gorm:"column:total_rooms;default:0" json:"total_rooms"`
	BasePrice  float64 `gorm:"column:base_price" json:"base_price"`
	MaxGuests  int     `gorm:"column:max_guests;default:2" json:"max_guests"`

	// Feature list shown to callers ("ocean view", "non smoking", ...).
	Features datatypes.JSON `gorm:"column:features" json:"features,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PriceRules     []PriceRule        `gorm:"foreignKey:RoomTypeID" json:"price_rules,omitempty"`
	Availabilities []RoomAvailability `gorm:"foreignKey:RoomTypeID" json:"availabilities,omitempty"`
}
