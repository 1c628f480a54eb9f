// controllers/customer_controller.go
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

func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := config.DB.Order("id").Find(&customers).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customers)
}

func GetCustomerByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid customer id")
		return
	}
	var cust models.Customer
	if err := config.DB.First(&cust, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "customer_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cust)
}

func CreateCustomer(c *gin.Context) {
	var cust models.Customer
	if err := c.ShouldBindJSON(&cust); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if cust.Vertical == "" {
		cust.Vertical = models.VerticalLodging
	}
	if err := config.DB.Create(&cust).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cust)
}

func UpdateCustomer(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid customer id")
		return
	}
	var payload models.Customer
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := config.DB.Model(&models.Customer{}).Where("id = ?", id).Updates(payload).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": id})
}
