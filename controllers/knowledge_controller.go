// controllers/knowledge_controller.go
package controllers

import (
	"net/http"

	"voicedesk-backend/services"
	"voicedesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type KnowledgeController struct {
	Documents *services.DocumentService
}

func NewKnowledgeController(svc *services.DocumentService) *KnowledgeController {
	return &KnowledgeController{Documents: svc}
}

type createDocumentPayload struct {
	CustomerID *uint    `json:"customerId"`
	Name       string   `json:"name" binding:"required"`
	Texts      []string `json:"texts"`
}

func (kc *KnowledgeController) Create(c *gin.Context) {
	var payload createDocumentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := kc.Documents.Create(payload.CustomerID, payload.Name, payload.Texts)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, doc)
}

func (kc *KnowledgeController) List(c *gin.Context) {
	var customerID *uint
	if id := queryUint(c, "customerId"); id != 0 {
		customerID = &id
	}
	docs, err := kc.Documents.List(customerID)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, docs)
}

func (kc *KnowledgeController) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := kc.Documents.Get(id)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"document": doc,
		"texts":    kc.Documents.Texts(doc),
	})
}

type putTextsPayload struct {
	Texts []string `json:"texts" binding:"required"`
}

func (kc *KnowledgeController) PutTexts(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid document id")
		return
	}
	var payload putTextsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := kc.Documents.PutTexts(id, payload.Texts); err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": id})
}

type setMirrorPayload struct {
	MirrorID string `json:"mirrorId" binding:"required"`
}

// SetMirror records the platform-assigned mirror id once the document has
// been uploaded to the voice platform.
func (kc *KnowledgeController) SetMirror(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid document id")
		return
	}
	var payload setMirrorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := kc.Documents.SetMirrorID(id, payload.MirrorID); err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": id})
}
