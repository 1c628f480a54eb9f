// controllers/reservation_controller.go
package controllers

import (
	"net/http"

	"voicedesk-backend/services"
	"voicedesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Inventory    *services.InventoryService
}

func NewReservationController(rsv *services.ReservationService, inv *services.InventoryService) *ReservationController {
	return &ReservationController{Reservations: rsv, Inventory: inv}
}

type createReservationPayload struct {
	CustomerID   uint   `json:"customer_id" binding:"required"`
	RoomTypeID   *uint  `json:"room_type_id"`
	RoomTypeName string `json:"room_type_name"`
	GuestName    string `json:"guest_name" binding:"required"`
	GuestPhone   string `json:"guest_phone"`
	CheckIn      string `json:"check_in" binding:"required"`
	CheckOut     string `json:"check_out" binding:"required"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
}

// Create takes a booking from the voice agent's booking tool; the reservation
// starts PENDING and is priced up front when the room type is known.
func (rc *ReservationController) Create(c *gin.Context) {
	var payload createReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkIn, err := utils.ParseDate(payload.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseDate(payload.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	rsv, err := rc.Reservations.Create(services.CreateInput{
		CustomerID:   payload.CustomerID,
		RoomTypeID:   payload.RoomTypeID,
		RoomTypeName: payload.RoomTypeName,
		GuestName:    payload.GuestName,
		GuestPhone:   payload.GuestPhone,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Adults:       payload.Adults,
		Children:     payload.Children,
	})
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rsv)
}

func (rc *ReservationController) List(c *gin.Context) {
	list, err := rc.Reservations.List(queryUint(c, "customerId"))
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	rsv, err := rc.Reservations.Get(id)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rsv)
}

type changeStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus applies a status transition; room counts move only into or
// out of CANCELLED, and the document projection catches up asynchronously.
func (rc *ReservationController) ChangeStatus(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	var payload changeStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	rsv, err := rc.Inventory.ChangeStatus(id, payload.Status)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rsv)
}
