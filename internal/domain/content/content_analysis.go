package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentAnalysis is the derived snapshot for one content item. It is
// replaced wholesale whenever the source text is re-analyzed, never
// patched field by field.
type ContentAnalysis struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContentItemID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"content_item_id"`
	ContentItem   *ContentItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentItemID;references:ID" json:"content_item,omitempty"`

	Language     string `gorm:"not null;column:language" json:"language"`
	ReadingLevel string `gorm:"not null;column:reading_level" json:"reading_level"`

	// Topics: [{"topic": string, "confidence": float}], confidence desc.
	Topics datatypes.JSON `gorm:"type:jsonb;column:topics" json:"topics"`
	// Metrics: language-specific numeric sub-scores plus complexity.
	Metrics datatypes.JSON `gorm:"type:jsonb;column:metrics" json:"metrics"`
	// Embedding: fixed-dimension float vector.
	Embedding  datatypes.JSON `gorm:"type:jsonb;column:embedding" json:"embedding"`
	KeyPhrases datatypes.JSON `gorm:"type:jsonb;column:key_phrases" json:"key_phrases"`

	WordCount int `gorm:"column:word_count" json:"word_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentAnalysis) TableName() string { return "content_analysis" }
