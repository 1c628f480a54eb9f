// models/admin.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a staff account that drives reservation status changes and
// document edits from the back office.
type Admin struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FullName string `gorm:"size:255" json:"fullName"`
	Username string `gorm:"size:255;uniqueIndex" json:"username"`
	Password string `gorm:"size:255" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
