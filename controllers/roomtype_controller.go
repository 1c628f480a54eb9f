// controllers/roomtype_controller.go
package controllers

import (
	"errors"
	"net/http"

	"voicedesk-backend/config"
	"voicedesk-backend/models"
	"voicedesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetRoomTypes(c *gin.Context) {
	var types []models.RoomType
	q := config.DB.Preload("PriceRules").Order("id")
	if customerID := queryUint(c, "customerId"); customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	if err := q.Find(&types).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

func CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := config.DB.Create(&rt).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

func UpdateRoomType(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid room type id")
		return
	}
	var payload models.RoomType
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := config.DB.Model(&models.RoomType{}).Where("id = ?", id).Updates(payload).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": id})
}

func DeleteRoomType(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid room type id")
		return
	}
	if err := config.DB.Delete(&models.RoomType{}, id).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// ---------------------------
// Nested price rules
// ---------------------------

func CreatePriceRule(c *gin.Context) {
	roomTypeID, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid room type id")
		return
	}
	var rule models.PriceRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	switch rule.Kind {
	case models.RuleKindFixed, models.RuleKindAdd, models.RuleKindPercent:
	default:
		utils.JSONError(c, http.StatusBadRequest, "invalid rule kind")
		return
	}
	rule.RoomTypeID = roomTypeID
	if err := config.DB.Create(&rule).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rule)
}

func DeletePriceRule(c *gin.Context) {
	id, ok := paramUint(c, "ruleId")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid rule id")
		return
	}
	if err := config.DB.Delete(&models.PriceRule{}, id).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// ---------------------------
// Per-date overrides / blocks
// ---------------------------

type availabilityPayload struct {
	Date          string   `json:"date" binding:"required"`
	PriceOverride *float64 `json:"price_override"`
	IsBlocked     bool     `json:"is_blocked"`
	Note          string   `json:"note"`
}

// UpsertAvailability creates or updates the room type's override row for one
// date. A manual price set here beats every price rule.
func UpsertAvailability(c *gin.Context) {
	roomTypeID, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid room type id")
		return
	}
	var payload availabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := utils.ParseDate(payload.Date)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var row models.RoomAvailability
	err = config.DB.Where("room_type_id = ? AND date = ?", roomTypeID, date).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		row = models.RoomAvailability{RoomTypeID: roomTypeID, Date: date}
	}
	row.PriceOverride = payload.PriceOverride
	row.IsBlocked = payload.IsBlocked
	row.Note = payload.Note

	if err := config.DB.Save(&row).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, row)
}
