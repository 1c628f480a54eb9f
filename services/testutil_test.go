package services

import (
	"encoding/json"
	"testing"

	"voicedesk-backend/config"
	"voicedesk-backend/models"
	"voicedesk-backend/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		// Each test gets a clean slate even though the shared-cache memory
		// database survives between connections.
		for _, table := range []string{
			"bot_knowledges", "bots", "knowledge_documents", "reservations",
			"room_availabilities", "price_rules", "room_types", "customers", "admins",
		} {
			db.Exec("DELETE FROM " + table)
		}
	})
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func seedCustomer(t *testing.T, db *gorm.DB, vertical string) *models.Customer {
	t.Helper()
	cust := models.Customer{Name: "Seaside Inn", Vertical: vertical}
	require.NoError(t, db.Create(&cust).Error)
	return &cust
}

func seedRoomType(t *testing.T, db *gorm.DB, customerID uint, name string, total, maxGuests int, basePrice float64) *models.RoomType {
	t.Helper()
	rt := models.RoomType{
		CustomerID: customerID,
		Name:       name,
		TotalRooms: total,
		MaxGuests:  maxGuests,
		BasePrice:  basePrice,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&rt).Error)
	return &rt
}

func seedDocument(t *testing.T, db *gorm.DB, customerID uint, rec *models.KnowledgeRecord) *models.KnowledgeDocument {
	t.Helper()
	texts := []string{}
	if rec != nil {
		encoded, err := json.Marshal(rec)
		require.NoError(t, err)
		texts = append(texts, string(encoded))
	}
	raw, err := json.Marshal(texts)
	require.NoError(t, err)

	custID := customerID
	doc := models.KnowledgeDocument{
		CustomerID: &custID,
		Name:       "kb",
		Texts:      raw,
		MirrorID:   "remote-doc-1",
	}
	require.NoError(t, db.Create(&doc).Error)
	return &doc
}

func seedReservation(t *testing.T, db *gorm.DB, customerID uint, roomTypeID uint, checkIn, checkOut, status string) *models.Reservation {
	t.Helper()
	ci, err := utils.ParseDate(checkIn)
	require.NoError(t, err)
	co, err := utils.ParseDate(checkOut)
	require.NoError(t, err)
	rtID := roomTypeID
	rsv := models.Reservation{
		CustomerID:    customerID,
		RoomTypeID:    &rtID,
		ReferenceCode: utils.NewReferenceCode(),
		GuestName:     "Taro Yamada",
		CheckIn:       ci,
		CheckOut:      co,
		Adults:        2,
		Status:        status,
	}
	require.NoError(t, db.Create(&rsv).Error)
	return &rsv
}

func seedBot(t *testing.T, db *gorm.DB, customerID uint, prompt string) *models.Bot {
	t.Helper()
	bot := models.Bot{
		CustomerID:  customerID,
		Name:        "front desk",
		AgentID:     "agent-1",
		LLMConfigID: "llm-1",
		Prompt:      prompt,
	}
	require.NoError(t, db.Create(&bot).Error)
	return &bot
}
