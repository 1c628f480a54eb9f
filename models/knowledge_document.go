// models/knowledge_document.go
package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LocalMirrorPrefix marks a MirrorID that was generated locally and does not
// exist on the voice platform yet. Documents carrying it must never be pushed
// to the remote gateway as if the id were real.
const LocalMirrorPrefix = "local-"

// KnowledgeDocument is a tenant's versioned list of raw text blobs. By
// convention Texts[0] is a JSON-encoded KnowledgeRecord; the remaining blobs
// are plain knowledge-base text.
type KnowledgeDocument struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID *uint  `gorm:"index;column:customer_id" json:"customer_id,omitempty"`
	Name       string `gorm:"size:255" json:"name"`

	// Ordered blob list, stored as a JSON array of strings.
	Texts datatypes.JSON `gorm:"column:texts" json:"texts"`

	// Id of the mirrored document on the voice platform, or a local placeholder.
	MirrorID string `gorm:"column:mirror_id;size:128" json:"mirror_id"`

	AutoRefresh bool `gorm:"default:false" json:"auto_refresh"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// HasRemoteMirror reports whether MirrorID refers to a real remote object.
func (d *KnowledgeDocument) HasRemoteMirror() bool {
	return d.MirrorID != "" && !strings.HasPrefix(d.MirrorID, LocalMirrorPrefix)
}
