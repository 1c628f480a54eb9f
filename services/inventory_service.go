// services/inventory_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"voicedesk-backend/models"
	"voicedesk-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService applies reservation status transitions. The room-count
// adjustment and the status update commit in one transaction; the embedded
// document's per-date counters are patched afterwards as a best-effort
// projection that may lag.
type InventoryService struct {
	DB        *gorm.DB
	Documents *DocumentService
	Log       *zap.SugaredLogger
}

func NewInventoryService(db *gorm.DB, docs *DocumentService, log *zap.SugaredLogger) *InventoryService {
	return &InventoryService{DB: db, Documents: docs, Log: log}
}

// ChangeStatus moves a reservation to newStatus. Only transitions into or
// out of CANCELLED touch inventory: entering frees a room, leaving consumes
// one (floored at zero). Everything else is a plain status write.
func (s *InventoryService) ChangeStatus(reservationID uint, newStatus string) (*models.Reservation, error) {
	if !models.ValidStatus(newStatus) {
		return nil, errors.New("invalid_status")
	}

	var rsv models.Reservation
	freed := false
	consumed := false

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rsv, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("reservation_not_found")
			}
			return err
		}

		wasCancelled := rsv.Status == models.StatusCancelled
		willCancel := newStatus == models.StatusCancelled
		freed = willCancel && !wasCancelled
		consumed = wasCancelled && !willCancel

		if (freed || consumed) && rsv.RoomTypeID != nil {
			var rt models.RoomType
			if err := tx.First(&rt, *rsv.RoomTypeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("room_type_not_found")
				}
				return err
			}
			total := rt.TotalRooms
			if freed {
				total++
			} else {
				total--
				if total < 0 {
					total = 0
				}
			}
			if err := tx.Model(&models.RoomType{}).Where("id = ?", rt.ID).
				Update("total_rooms", total).Error; err != nil {
				return fmt.Errorf("failed to update room count: %w", err)
			}
		}

		if err := tx.Model(&rsv).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}
		rsv.Status = newStatus
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// The document projection is patched off the request path; it is allowed
	// to lag or diverge, so failure is logged and swallowed.
	if freed || consumed {
		delta := -1
		if consumed {
			delta = 1
		}
		snapshot := rsv
		go func() {
			if err := s.SyncDocumentAvailability(&snapshot, delta); err != nil {
				s.Log.Warnw("document availability sync failed",
					"reservation_id", snapshot.ID, "error", err)
			}
		}()
	}

	return &rsv, nil
}

// SyncDocumentAvailability patches the owning customer's embedded per-date
// counters for every night of the stay: newAvailable = max(0, current-delta),
// synthesizing entries for dates the table does not know yet. delta is -1
// when inventory was freed and +1 when it was consumed.
func (s *InventoryService) SyncDocumentAvailability(rsv *models.Reservation, delta int) error {
	doc, err := s.Documents.GetForCustomer(rsv.CustomerID)
	if err != nil {
		return err
	}
	rec := s.Documents.Record(doc)
	if rec == nil {
		return errors.New("document has no structured record")
	}

	rt, err := s.resolveRoomType(rsv)
	if err != nil {
		return err
	}

	key, rates := rec.FindRates(rt)
	patched := patchRates(rates, rsv.CheckIn, rsv.CheckOut, delta)

	if rec.DailyRatesByRoomType == nil {
		rec.DailyRates = patched
	} else {
		if key == "" {
			// No matching sub-table and no legacy bucket: start one under the
			// room type's id key.
			key = strconv.FormatUint(uint64(rt.ID), 10)
		}
		rec.DailyRatesByRoomType[key] = patched
	}

	return s.Documents.SaveRecord(doc, rec)
}

func (s *InventoryService) resolveRoomType(rsv *models.Reservation) (*models.RoomType, error) {
	if rsv.RoomTypeID != nil {
		var rt models.RoomType
		if err := s.DB.First(&rt, *rsv.RoomTypeID).Error; err == nil {
			return &rt, nil
		}
	}
	if rsv.RoomTypeName != "" {
		var rt models.RoomType
		err := s.DB.Where("customer_id = ? AND LOWER(name) = LOWER(?)", rsv.CustomerID, rsv.RoomTypeName).
			First(&rt).Error
		if err == nil {
			return &rt, nil
		}
	}
	return nil, errors.New("room_type_not_found")
}

func patchRates(rates []models.DailyRate, checkIn, checkOut time.Time, delta int) []models.DailyRate {
	out := make([]models.DailyRate, len(rates))
	copy(out, rates)

	utils.EachDate(checkIn, checkOut, func(d time.Time) {
		key := utils.FormatDate(d)
		for i := range out {
			if out[i].Date == key {
				next := out[i].Available - delta
				if next < 0 {
					next = 0
				}
				out[i].Available = next
				return
			}
		}
		avail := -delta
		if avail < 0 {
			avail = 0
		}
		out = append(out, models.DailyRate{Date: key, Available: avail})
	})
	return out
}
