// services/reservation_service.go
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

// ReservationService creates and reads reservations. Bookings arrive PENDING
// from the voice agent's booking tool; staff drive the later transitions
// through InventoryService.
type ReservationService struct {
	DB      *gorm.DB
	Pricing *PricingService
}

func NewReservationService(db *gorm.DB, pricing *PricingService) *ReservationService {
	return &ReservationService{DB: db, Pricing: pricing}
}

// CreateInput is the booking tool call payload after date parsing.
type CreateInput struct {
	CustomerID   uint
	RoomTypeID   *uint
	RoomTypeName string
	GuestName    string
	GuestPhone   string
	CheckIn      time.Time
	CheckOut     time.Time
	Adults       int
	Children     int
}

// Create stores a PENDING reservation, pricing the stay up front when the
// room type is known.
func (s *ReservationService) Create(in CreateInput) (*models.Reservation, error) {
	if !in.CheckOut.After(in.CheckIn) {
		return nil, errors.New("invalid_date_range")
	}
	if in.Adults <= 0 {
		in.Adults = 1
	}
	if in.Children < 0 {
		in.Children = 0
	}

	var cust models.Customer
	if err := s.DB.First(&cust, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("customer_not_found")
		}
		return nil, fmt.Errorf("db error checking customer: %w", err)
	}

	roomTypeID := in.RoomTypeID
	roomTypeName := strings.TrimSpace(in.RoomTypeName)
	if roomTypeID == nil && roomTypeName != "" {
		var rt models.RoomType
		err := s.DB.Where("customer_id = ? AND LOWER(name) = LOWER(?)", in.CustomerID, roomTypeName).
			First(&rt).Error
		if err == nil {
			roomTypeID = &rt.ID
		}
		// Unknown names stay as free text; the reservation is still taken.
	}

	var total float64
	if roomTypeID != nil {
		if quote, err := s.Pricing.QuoteStay(in.CustomerID, *roomTypeID, in.CheckIn, in.CheckOut); err == nil {
			total = quote.Total
		}
	}

	rsv := models.Reservation{
		CustomerID:    in.CustomerID,
		RoomTypeID:    roomTypeID,
		RoomTypeName:  roomTypeName,
		ReferenceCode: utils.NewReferenceCode(),
		GuestName:     in.GuestName,
		GuestPhone:    in.GuestPhone,
		CheckIn:       utils.Truncate(in.CheckIn),
		CheckOut:      utils.Truncate(in.CheckOut),
		Adults:        in.Adults,
		Children:      in.Children,
		Status:        models.StatusPending,
		TotalPrice:    total,
	}
	if err := s.DB.Create(&rsv).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return &rsv, nil
}

func (s *ReservationService) Get(id uint) (*models.Reservation, error) {
	var rsv models.Reservation
	if err := s.DB.Preload("RoomType").Preload("Customer").First(&rsv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("reservation_not_found")
		}
		return nil, fmt.Errorf("failed to load reservation %d: %w", id, err)
	}
	return &rsv, nil
}

func (s *ReservationService) List(customerID uint) ([]models.Reservation, error) {
	var list []models.Reservation
	q := s.DB.Preload("RoomType").Order("created_at DESC")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}
