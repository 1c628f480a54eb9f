// services/document_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"voicedesk-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentService reads and writes knowledge documents. A document's Texts
// column holds an ordered JSON array of raw blobs; Texts[0] is by convention
// a JSON-encoded models.KnowledgeRecord.
type DocumentService struct {
	DB *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{DB: db}
}

func (s *DocumentService) Get(documentID uint) (*models.KnowledgeDocument, error) {
	var doc models.KnowledgeDocument
	if err := s.DB.First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("document_not_found")
		}
		return nil, fmt.Errorf("failed to load document %d: %w", documentID, err)
	}
	return &doc, nil
}

// GetForCustomer returns the customer's document, newest first when there is
// more than one.
func (s *DocumentService) GetForCustomer(customerID uint) (*models.KnowledgeDocument, error) {
	var doc models.KnowledgeDocument
	err := s.DB.Where("customer_id = ?", customerID).Order("id DESC").First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("document_not_found")
		}
		return nil, fmt.Errorf("failed to load document for customer %d: %w", customerID, err)
	}
	return &doc, nil
}

// Texts decodes the blob list. A missing or malformed column yields an empty
// list, not an error.
func (s *DocumentService) Texts(doc *models.KnowledgeDocument) []string {
	var texts []string
	if len(doc.Texts) == 0 {
		return texts
	}
	if err := json.Unmarshal(doc.Texts, &texts); err != nil {
		return nil
	}
	return texts
}

// PutTexts replaces the blob list wholesale. Last write wins on concurrent
// updates; the callers accept that.
func (s *DocumentService) PutTexts(documentID uint, texts []string) error {
	raw, err := json.Marshal(texts)
	if err != nil {
		return fmt.Errorf("failed to encode texts: %w", err)
	}
	res := s.DB.Model(&models.KnowledgeDocument{}).Where("id = ?", documentID).Update("texts", raw)
	if res.Error != nil {
		return fmt.Errorf("failed to store texts for document %d: %w", documentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("document_not_found")
	}
	return nil
}

// Record parses the structured record out of Texts[0]. A document without a
// record, or with one that does not parse, yields (nil, nil): conversational
// queries degrade to empty data instead of failing.
func (s *DocumentService) Record(doc *models.KnowledgeDocument) *models.KnowledgeRecord {
	texts := s.Texts(doc)
	if len(texts) == 0 {
		return nil
	}
	var rec models.KnowledgeRecord
	if err := json.Unmarshal([]byte(texts[0]), &rec); err != nil {
		return nil
	}
	return &rec
}

// SaveRecord re-encodes rec into Texts[0], preserving the remaining blobs.
func (s *DocumentService) SaveRecord(doc *models.KnowledgeDocument, rec *models.KnowledgeRecord) error {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	texts := s.Texts(doc)
	if len(texts) == 0 {
		texts = []string{string(encoded)}
	} else {
		texts[0] = string(encoded)
	}
	return s.PutTexts(doc.ID, texts)
}

// Create stores a new document with a placeholder mirror id. The placeholder
// stays until the platform-side mirror exists; until then the document is
// filtered out of every remote push.
func (s *DocumentService) Create(customerID *uint, name string, texts []string) (*models.KnowledgeDocument, error) {
	raw, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode texts: %w", err)
	}
	doc := models.KnowledgeDocument{
		CustomerID: customerID,
		Name:       name,
		Texts:      raw,
		MirrorID:   models.LocalMirrorPrefix + uuid.NewString(),
	}
	if err := s.DB.Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

// SetMirrorID records the id the voice platform assigned to the mirror.
func (s *DocumentService) SetMirrorID(documentID uint, mirrorID string) error {
	res := s.DB.Model(&models.KnowledgeDocument{}).Where("id = ?", documentID).Update("mirror_id", mirrorID)
	if res.Error != nil {
		return fmt.Errorf("failed to set mirror id for document %d: %w", documentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("document_not_found")
	}
	return nil
}

func (s *DocumentService) List(customerID *uint) ([]models.KnowledgeDocument, error) {
	var docs []models.KnowledgeDocument
	q := s.DB.Order("id DESC")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if err := q.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
