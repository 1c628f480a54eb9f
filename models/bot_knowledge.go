// models/bot_knowledge.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// BotKnowledge links a knowledge document to the single bot that retrieves
// from it. The table carries no uniqueness constraint on DocumentID; the
// assignment service keeps the one-bot-per-document invariant by deleting all
// prior rows for a document before creating a new one.
type BotKnowledge struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BotID      uint `gorm:"index;column:bot_id" json:"bot_id"`
	DocumentID uint `gorm:"index;column:document_id" json:"document_id"`

	// Retrieval parameters pushed to the voice platform alongside the document.
	TopK     int     `gorm:"column:top_k;default:3" json:"top_k"`
	MinScore float64 `gorm:"column:min_score;default:0.5" json:"min_score"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Bot      Bot               `gorm:"foreignKey:BotID;references:ID" json:"bot,omitempty"`
	Document KnowledgeDocument `gorm:"foreignKey:DocumentID;references:ID" json:"document,omitempty"`
}
