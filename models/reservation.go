// models/reservation.go
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. CANCELLED is the only status that frees inventory.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusCheckedIn  = "CHECKED_IN"
	StatusCheckedOut = "CHECKED_OUT"
	StatusCancelled  = "CANCELLED"
)

// ValidStatus reports whether s is one of the known reservation statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// Reservation is a stay booked through the voice agent or by staff.
// CheckOut is exclusive: a 06-01 to 06-03 stay occupies the nights of 06-01
// and 06-02.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;column:customer_id" json:"customer_id"`

	// RoomTypeID may be nil for reservations taken before the room type was
	// registered; RoomTypeName keeps the caller's wording as a fallback.
	RoomTypeID   *uint  `gorm:"index;column:room_type_id" json:"room_type_id,omitempty"`
	RoomTypeName string `gorm:"column:room_type_name;size:255" json:"room_type_name,omitempty"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`

	GuestName  string `gorm:"size:255" json:"guest_name"`
	GuestPhone string `gorm:"size:50" json:"guest_phone"`

	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	Status     string  `gorm:"column:status;size:32;default:PENDING" json:"status"`
	TotalPrice float64 `gorm:"column:total_price" json:"total_price"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer Customer  `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID;references:ID" json:"room_type,omitempty"`
}

// Nights returns the stay length, never less than zero.
func (r *Reservation) Nights() int {
	n := int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// MatchesRoomType matches by id first, then by case-insensitive name.
func (r *Reservation) MatchesRoomType(rt *RoomType) bool {
	if r.RoomTypeID != nil && *r.RoomTypeID == rt.ID {
		return true
	}
	return r.RoomTypeName != "" && strings.EqualFold(r.RoomTypeName, rt.Name)
}
