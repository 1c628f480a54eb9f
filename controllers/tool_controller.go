// controllers/tool_controller.go
package controllers

import (
	"errors"
	"net/http"

	"voicedesk-backend/models"
	"voicedesk-backend/services"
	"voicedesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ToolController is the query surface the voice platform calls at call time.
// Every endpoint is keyed by botId and resolves the owning customer through
// the bot's knowledge-document assignment before touching tenant data.
type ToolController struct {
	DB        *gorm.DB
	Documents *services.DocumentService
	Quotes    *services.PricingService
	Searcher  *services.AvailabilityService
}

func NewToolController(db *gorm.DB, docs *services.DocumentService, pricing *services.PricingService, avail *services.AvailabilityService) *ToolController {
	return &ToolController{DB: db, Documents: docs, Quotes: pricing, Searcher: avail}
}

// resolveCustomer walks bot -> assignment -> document -> owning customer.
func (tc *ToolController) resolveCustomer(botID uint) (*models.Customer, error) {
	var bot models.Bot
	if err := tc.DB.First(&bot, botID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("bot_not_found")
		}
		return nil, err
	}

	var rows []models.BotKnowledge
	if err := tc.DB.Preload("Document").Where("bot_id = ?", botID).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Document.CustomerID == nil {
			continue
		}
		var cust models.Customer
		if err := tc.DB.First(&cust, *row.Document.CustomerID).Error; err == nil {
			return &cust, nil
		}
	}

	// Bots provisioned without a document assignment fall back to their own
	// customer record.
	if bot.CustomerID != 0 {
		var cust models.Customer
		if err := tc.DB.First(&cust, bot.CustomerID).Error; err == nil {
			return &cust, nil
		}
	}
	return nil, errors.New("customer_not_found")
}

func (tc *ToolController) customerFromQuery(c *gin.Context) (*models.Customer, bool) {
	botID := queryUint(c, "botId")
	if botID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "botId is required")
		return nil, false
	}
	cust, err := tc.resolveCustomer(botID)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return nil, false
	}
	return cust, true
}

// RoomTypes lists the customer's active room types for the agent.
func (tc *ToolController) RoomTypes(c *gin.Context) {
	cust, ok := tc.customerFromQuery(c)
	if !ok {
		return
	}
	var roomTypes []models.RoomType
	if err := tc.DB.Where("customer_id = ? AND is_active = ?", cust.ID, true).Find(&roomTypes).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roomTypes)
}

// Pricing quotes a stay for one room type, night by night.
func (tc *ToolController) Pricing(c *gin.Context) {
	cust, ok := tc.customerFromQuery(c)
	if !ok {
		return
	}
	roomTypeID := queryUint(c, "roomTypeId")
	if roomTypeID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "roomTypeId is required")
		return
	}
	checkIn, err := utils.ParseDate(c.Query("checkIn"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseDate(c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := tc.Quotes.QuoteStay(cust.ID, roomTypeID, checkIn, checkOut)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

// Availability runs the window search with alternative-date fallback.
func (tc *ToolController) Availability(c *gin.Context) {
	cust, ok := tc.customerFromQuery(c)
	if !ok {
		return
	}
	checkIn, err := utils.ParseDate(c.Query("checkIn"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseDate(c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	guests := int(queryUint(c, "guests"))
	if guests == 0 {
		guests = 1
	}

	result, err := tc.Searcher.Search(cust.ID, checkIn, checkOut, guests, c.Query("roomType"))
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// Facility returns the customer's facility and policy text. Missing document
// data degrades to the customer record's own text, never to an error.
func (tc *ToolController) Facility(c *gin.Context) {
	cust, ok := tc.customerFromQuery(c)
	if !ok {
		return
	}
	info := cust.FacilityInfo
	if doc, err := tc.Documents.GetForCustomer(cust.ID); err == nil {
		if rec := tc.Documents.Record(doc); rec != nil && rec.FacilityInfo != "" {
			info = rec.FacilityInfo
		}
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"facilityInfo": info})
}
