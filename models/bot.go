// models/bot.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bot is a voice agent answering calls for one customer. AgentID and
// LLMConfigID reference objects on the remote voice platform; either may be
// empty while the bot is still being provisioned.
type Bot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint   `gorm:"index;column:customer_id" json:"customer_id"`
	Name       string `gorm:"size:255" json:"name"`

	AgentID     string `gorm:"column:agent_id;size:128" json:"agent_id"`
	LLMConfigID string `gorm:"column:llm_config_id;size:128" json:"llm_config_id"`

	// Prompt may contain marked regions, one per assigned knowledge document.
	Prompt string `gorm:"type:mediumtext" json:"prompt"`

	// Tool definitions enabled for this bot, stored as the platform's JSON shape.
	Tools datatypes.JSON `gorm:"column:tools" json:"tools,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}
