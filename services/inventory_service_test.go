package services

import (
	"testing"

	"voicedesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInventory(db *gorm.DB) *InventoryService {
	return NewInventoryService(db, NewDocumentService(db), testLogger())
}

func TestChangeStatusCancelFreesRoom(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusConfirmed)

	updated, err := inv.ChangeStatus(rsv.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	var got models.RoomType
	require.NoError(t, db.First(&got, rt.ID).Error)
	assert.Equal(t, 6, got.TotalRooms)
}

func TestChangeStatusReinstateConsumesRoom(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusCancelled)

	_, err := inv.ChangeStatus(rsv.ID, models.StatusConfirmed)
	require.NoError(t, err)

	var got models.RoomType
	require.NoError(t, db.First(&got, rt.ID).Error)
	assert.Equal(t, 4, got.TotalRooms)
}

func TestChangeStatusRoundTripIsSymmetric(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusConfirmed)

	_, err := inv.ChangeStatus(rsv.ID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = inv.ChangeStatus(rsv.ID, models.StatusConfirmed)
	require.NoError(t, err)

	var got models.RoomType
	require.NoError(t, db.First(&got, rt.ID).Error)
	assert.Equal(t, 5, got.TotalRooms)
}

func TestChangeStatusConsumeFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 0, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusCancelled)

	_, err := inv.ChangeStatus(rsv.ID, models.StatusCheckedIn)
	require.NoError(t, err)

	var got models.RoomType
	require.NoError(t, db.First(&got, rt.ID).Error)
	assert.Equal(t, 0, got.TotalRooms)
}

func TestChangeStatusOtherTransitionsLeaveInventoryAlone(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusPending)

	for _, next := range []string{models.StatusConfirmed, models.StatusCheckedIn, models.StatusCheckedOut} {
		_, err := inv.ChangeStatus(rsv.ID, next)
		require.NoError(t, err)
	}

	var got models.RoomType
	require.NoError(t, db.First(&got, rt.ID).Error)
	assert.Equal(t, 5, got.TotalRooms)
}

func TestChangeStatusCancelTwiceMovesOnce(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusConfirmed)

	_, err := inv.ChangeStatus(rsv.ID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = inv.ChangeStatus(rsv.ID, models.StatusCancelled)
	require.NoError(t, err)

	var got models.RoomType
	require.NoError(t, db.First(&got, rt.ID).Error)
	assert.Equal(t, 6, got.TotalRooms)
}

func TestChangeStatusValidation(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusConfirmed)

	_, err := inv.ChangeStatus(rsv.ID, "NO_SHOW")
	assert.EqualError(t, err, "invalid_status")

	_, err = inv.ChangeStatus(99999, models.StatusCancelled)
	assert.EqualError(t, err, "reservation_not_found")
}

func TestSyncDocumentAvailabilityPatchesBucket(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	doc := seedDocument(t, db, cust.ID, &models.KnowledgeRecord{
		DailyRatesByRoomType: map[string][]models.DailyRate{
			"Deluxe": {
				{Date: "2025-06-01", Available: 3, Adult: 150},
				{Date: "2025-06-02", Available: 1, Adult: 150},
			},
		},
	})
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusConfirmed)

	// Freed inventory: delta -1 raises each night's counter.
	require.NoError(t, inv.SyncDocumentAvailability(rsv, -1))

	reloaded, err := inv.Documents.Get(doc.ID)
	require.NoError(t, err)
	rec := inv.Documents.Record(reloaded)
	require.NotNil(t, rec)

	rates := rec.DailyRatesByRoomType["Deluxe"]
	require.Len(t, rates, 2)
	assert.Equal(t, 4, rates[0].Available)
	assert.Equal(t, 2, rates[1].Available)
	// Rate figures survive the availability patch untouched.
	assert.Equal(t, 150.0, rates[0].Adult)
}

func TestSyncDocumentAvailabilityFloorsAndSynthesizes(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	doc := seedDocument(t, db, cust.ID, &models.KnowledgeRecord{
		DailyRatesByRoomType: map[string][]models.DailyRate{
			"Deluxe": {{Date: "2025-06-01", Available: 0, Adult: 150}},
		},
	})
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-03", models.StatusCancelled)

	// Consumed inventory: delta +1 lowers counters, floored at zero, and a
	// missing night gets a synthesized zero-availability entry.
	require.NoError(t, inv.SyncDocumentAvailability(rsv, 1))

	reloaded, err := inv.Documents.Get(doc.ID)
	require.NoError(t, err)
	rec := inv.Documents.Record(reloaded)
	require.NotNil(t, rec)

	rates := rec.DailyRatesByRoomType["Deluxe"]
	require.Len(t, rates, 2)
	assert.Equal(t, 0, rates[0].Available)
	assert.Equal(t, "2025-06-02", rates[1].Date)
	assert.Equal(t, 0, rates[1].Available)
}

func TestSyncDocumentAvailabilityLegacyFlatList(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	doc := seedDocument(t, db, cust.ID, &models.KnowledgeRecord{
		DailyRates: []models.DailyRate{{Date: "2025-06-01", Available: 2, Adult: 150}},
	})
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-02", models.StatusConfirmed)

	require.NoError(t, inv.SyncDocumentAvailability(rsv, -1))

	reloaded, err := inv.Documents.Get(doc.ID)
	require.NoError(t, err)
	rec := inv.Documents.Record(reloaded)
	require.NotNil(t, rec)

	require.Len(t, rec.DailyRates, 1)
	assert.Equal(t, 3, rec.DailyRates[0].Available)
}

func TestSyncDocumentAvailabilityResolvesByName(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	doc := seedDocument(t, db, cust.ID, &models.KnowledgeRecord{
		DailyRatesByRoomType: map[string][]models.DailyRate{
			"deluxe": {{Date: "2025-06-01", Available: 2, Adult: 150}},
		},
	})

	rsv := &models.Reservation{
		CustomerID:    cust.ID,
		RoomTypeName:  "DELUXE",
		ReferenceCode: "RSV-NAMEONLY01",
		CheckIn:       mustDate(t, "2025-06-01"),
		CheckOut:      mustDate(t, "2025-06-02"),
		Adults:        1,
		Status:        models.StatusConfirmed,
	}
	require.NoError(t, db.Create(rsv).Error)

	require.NoError(t, inv.SyncDocumentAvailability(rsv, -1))

	reloaded, err := inv.Documents.Get(doc.ID)
	require.NoError(t, err)
	rec := inv.Documents.Record(reloaded)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.DailyRatesByRoomType["deluxe"][0].Available)
}

func TestSyncDocumentAvailabilityWithoutDocument(t *testing.T) {
	db := newTestDB(t)
	inv := newInventory(db)

	cust := seedCustomer(t, db, models.VerticalLodging)
	rt := seedRoomType(t, db, cust.ID, "Deluxe", 5, 2, 150)
	rsv := seedReservation(t, db, cust.ID, rt.ID, "2025-06-01", "2025-06-02", models.StatusConfirmed)

	err := inv.SyncDocumentAvailability(rsv, -1)
	assert.Error(t, err)
}
