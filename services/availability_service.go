// services/availability_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"voicedesk-backend/models"
	"voicedesk-backend/utils"

	"gorm.io/gorm"
)

// AvailabilityService answers stay-window availability questions from the
// relational reservation and room-type tables, with an alternative-date
// fallback when the requested window is full.
type AvailabilityService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db, Now: time.Now}
}

// RoomTypeMatch is one available room type within the requested window.
type RoomTypeMatch struct {
	RoomTypeID     uint    `json:"room_type_id"`
	Name           string  `json:"name"`
	AvailableRooms int     `json:"available_rooms"`
	BasePrice      float64 `json:"base_price"`
	MaxGuests      int     `json:"max_guests"`
}

// Alternative is a shifted stay window that still has availability.
type Alternative struct {
	CheckIn   string   `json:"check_in"`
	CheckOut  string   `json:"check_out"`
	RoomTypes []string `json:"room_types"`
}

// SearchResult is what the conversational tool layer relays to the caller.
type SearchResult struct {
	Available    bool            `json:"available"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Matches      []RoomTypeMatch `json:"matches,omitempty"`
	LowestPrice  float64         `json:"lowest_price,omitempty"`
	Alternatives []Alternative   `json:"alternatives,omitempty"`
	Message      string          `json:"message"`
}

// Fallback scan: shift the window by up to three days either way, keeping the
// night count, and offer at most three alternatives.
var fallbackOffsets = []int{-3, -2, -1, 1, 2, 3}

const maxAlternatives = 3

// overlappingStays counts CONFIRMED/CHECKED_IN reservations whose stay
// overlaps [start, end]. The test is deliberately inclusive on both
// boundaries, which can double-count back-to-back same-day turnover stays;
// that is the documented semantics, kept until product confirms a tighter
// rule.
func (s *AvailabilityService) overlappingStays(rt *models.RoomType, start, end time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Reservation{}).
		Where("customer_id = ? AND status IN ?", rt.CustomerID, []string{models.StatusConfirmed, models.StatusCheckedIn}).
		Where("(room_type_id = ? OR (room_type_id IS NULL AND LOWER(room_type_name) = LOWER(?)))", rt.ID, rt.Name).
		Where("((check_in BETWEEN ? AND ?) OR (check_out BETWEEN ? AND ?) OR (check_in <= ? AND check_out >= ?))",
			start, end, start, end, start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}
	return count, nil
}

func (s *AvailabilityService) hasBlockedDate(roomTypeID uint, start, end time.Time) (bool, error) {
	var count int64
	err := s.DB.Model(&models.RoomAvailability{}).
		Where("room_type_id = ? AND is_blocked = ? AND date >= ? AND date < ?", roomTypeID, true, start, end).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check blocked dates: %w", err)
	}
	return count > 0, nil
}

// matchesFor runs one candidate window: active room types big enough for the
// party (optionally name-filtered), minus blocked and fully booked ones.
func (s *AvailabilityService) matchesFor(customerID uint, start, end time.Time, guests int, nameFilter string) ([]RoomTypeMatch, error) {
	var roomTypes []models.RoomType
	if err := s.DB.Where("customer_id = ? AND is_active = ? AND max_guests >= ?", customerID, true, guests).
		Find(&roomTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to load room types: %w", err)
	}

	matches := []RoomTypeMatch{}
	for i := range roomTypes {
		rt := &roomTypes[i]
		if nameFilter != "" && !strings.Contains(strings.ToLower(rt.Name), strings.ToLower(nameFilter)) {
			continue
		}
		blocked, err := s.hasBlockedDate(rt.ID, start, end)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}
		taken, err := s.overlappingStays(rt, start, end)
		if err != nil {
			return nil, err
		}
		free := rt.TotalRooms - int(taken)
		if free > 0 {
			matches = append(matches, RoomTypeMatch{
				RoomTypeID:     rt.ID,
				Name:           rt.Name,
				AvailableRooms: free,
				BasePrice:      rt.BasePrice,
				MaxGuests:      rt.MaxGuests,
			})
		}
	}
	return matches, nil
}

// Search checks the requested window and, when it is full, scans nearby
// windows of the same length for up to three alternatives, never proposing a
// window that starts in the past or the window that was just rejected.
func (s *AvailabilityService) Search(customerID uint, checkIn, checkOut time.Time, guests int, nameFilter string) (*SearchResult, error) {
	if !checkOut.After(checkIn) {
		return nil, errors.New("invalid_date_range")
	}

	start := utils.Truncate(checkIn)
	end := utils.Truncate(checkOut)

	result := &SearchResult{
		CheckIn:  utils.FormatDate(start),
		CheckOut: utils.FormatDate(end),
	}

	matches, err := s.matchesFor(customerID, start, end, guests, nameFilter)
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		result.Available = true
		result.Matches = matches
		lowest := matches[0].BasePrice
		for _, m := range matches[1:] {
			if m.BasePrice < lowest {
				lowest = m.BasePrice
			}
		}
		result.LowestPrice = lowest
		result.Message = fmt.Sprintf("Rooms are available from %s to %s for %d guest(s), from %.0f per night.",
			result.CheckIn, result.CheckOut, guests, lowest)
		return result, nil
	}

	today := utils.Truncate(s.Now())
	for _, offset := range fallbackOffsets {
		if len(result.Alternatives) >= maxAlternatives {
			break
		}
		altStart := start.AddDate(0, 0, offset)
		if altStart.Before(today) {
			continue
		}
		altEnd := end.AddDate(0, 0, offset)
		altMatches, err := s.matchesFor(customerID, altStart, altEnd, guests, nameFilter)
		if err != nil {
			return nil, err
		}
		if len(altMatches) == 0 {
			continue
		}
		names := make([]string, 0, len(altMatches))
		for _, m := range altMatches {
			names = append(names, m.Name)
		}
		result.Alternatives = append(result.Alternatives, Alternative{
			CheckIn:   utils.FormatDate(altStart),
			CheckOut:  utils.FormatDate(altEnd),
			RoomTypes: names,
		})
	}

	if len(result.Alternatives) > 0 {
		parts := make([]string, 0, len(result.Alternatives))
		for _, alt := range result.Alternatives {
			parts = append(parts, fmt.Sprintf("%s to %s (%s)", alt.CheckIn, alt.CheckOut, strings.Join(alt.RoomTypes, ", ")))
		}
		result.Message = fmt.Sprintf("No rooms for %s to %s. Nearby options: %s.",
			result.CheckIn, result.CheckOut, strings.Join(parts, "; "))
	} else {
		result.Message = fmt.Sprintf("No rooms available from %s to %s for %d guest(s).",
			result.CheckIn, result.CheckOut, guests)
	}
	return result, nil
}
