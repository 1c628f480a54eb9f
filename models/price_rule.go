// models/price_rule.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Price rule adjustment kinds.
const (
	RuleKindFixed   = "fixed"   // replace the running price outright
	RuleKindAdd     = "add"     // add a constant amount
	RuleKindPercent = "percent" // add value% of the running price
)

// PriceRule adjusts a room type's nightly price. Rules are applied in
// ascending Priority order and compose sequentially against the running price.
type PriceRule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomTypeID uint   `gorm:"index;column:room_type_id" json:"room_type_id"`
	Name       string `gorm:"size:255" json:"name"`

	Priority int     `gorm:"column:priority;default:100" json:"priority"`
	Kind     string  `gorm:"column:kind;size:16" json:"kind"`
	Value    float64 `gorm:"column:value" json:"value"`

	// Optional date-range bound; a nil end means open-ended on that side.
	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	// Day-of-week set as a JSON int array (0=Sunday). Empty = every day.
	Weekdays datatypes.JSON `gorm:"column:weekdays" json:"weekdays,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AppliesTo reports whether the rule covers the given date (range containment
// plus weekday filter). An unbounded range matches all dates.
func (r *PriceRule) AppliesTo(date time.Time, weekdays []int) bool {
	if r.StartDate != nil && date.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && date.After(*r.EndDate) {
		return false
	}
	if len(weekdays) == 0 {
		return true
	}
	wd := int(date.Weekday())
	for _, d := range weekdays {
		if d == wd {
			return true
		}
	}
	return false
}
