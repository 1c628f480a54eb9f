// controllers/assignment_controller.go
package controllers

import (
	"net/http"

	"voicedesk-backend/services"
	"voicedesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Assignments *services.AssignmentService
}

func NewAssignmentController(svc *services.AssignmentService) *AssignmentController {
	return &AssignmentController{Assignments: svc}
}

type assignPayload struct {
	DocumentID uint     `json:"documentId" binding:"required"`
	BotID      uint     `json:"botId"`
	TopK       *int     `json:"topK"`
	MinScore   *float64 `json:"minScore"`
}

// Assign attaches a document to a bot (or detaches it everywhere when botId
// is omitted). Remote-platform failures do not fail the request.
func (ac *AssignmentController) Assign(c *gin.Context) {
	var payload assignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	topK := 3
	if payload.TopK != nil {
		topK = *payload.TopK
	}
	minScore := 0.5
	if payload.MinScore != nil {
		minScore = *payload.MinScore
	}

	row, err := ac.Assignments.Assign(c.Request.Context(), payload.DocumentID, payload.BotID, topK, minScore)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, row)
}

func (ac *AssignmentController) Unassign(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid assignment id")
		return
	}
	if err := ac.Assignments.Unassign(c.Request.Context(), id); err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// ListForBot returns the bot's current assignments with their documents.
func (ac *AssignmentController) ListForBot(c *gin.Context) {
	botID := queryUint(c, "botId")
	if botID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "botId is required")
		return
	}
	rows, err := ac.Assignments.AssignmentsFor(botID)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}
