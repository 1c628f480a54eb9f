// controllers/bot_controller.go
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

func GetBots(c *gin.Context) {
	var bots []models.Bot
	q := config.DB.Order("id")
	if customerID := queryUint(c, "customerId"); customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	if err := q.Find(&bots).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bots)
}

func GetBotByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid bot id")
		return
	}
	var bot models.Bot
	if err := config.DB.First(&bot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "bot_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bot)
}

func CreateBot(c *gin.Context) {
	var bot models.Bot
	if err := c.ShouldBindJSON(&bot); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := config.DB.Create(&bot).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, bot)
}

func UpdateBot(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid bot id")
		return
	}
	var payload models.Bot
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	payload.ID = id
	if err := config.DB.Model(&models.Bot{}).Where("id = ?", id).Updates(payload).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payload)
}

func DeleteBot(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid bot id")
		return
	}
	if err := config.DB.Delete(&models.Bot{}, id).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
