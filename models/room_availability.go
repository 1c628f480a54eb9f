// models/room_availability.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomAvailability is a per-date override row for a room type: a manual price
// that beats every price rule, a block flag that removes the date from
// availability search, or both.
type RoomAvailability struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomTypeID uint      `gorm:"index;column:room_type_id" json:"room_type_id"`
	Date       time.Time `gorm:"column:date;index" json:"date"`

	PriceOverride *float64 `gorm:"column:price_override" json:"price_override,omitempty"`
	IsBlocked     bool     `gorm:"column:is_blocked;default:false" json:"is_blocked"`

	Note string `gorm:"size:255" json:"note,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
