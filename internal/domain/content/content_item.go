package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentItem is a piece of reading material. The body is immutable once
// analyzed; adaptations are recorded separately in an append-only log.
type ContentItem struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title    string    `gorm:"not null;column:title" json:"title"`
	Body     string    `gorm:"not null;column:body" json:"body"`
	Language string    `gorm:"not null;index;column:language" json:"language"`

	// Denormalized from the analysis snapshot so content can be queried
	// by level bucket without unpacking jsonb.
	ReadingLevel string `gorm:"index;column:reading_level" json:"reading_level"`

	Analysis    *ContentAnalysis    `gorm:"foreignKey:ContentItemID;references:ID" json:"analysis,omitempty"`
	Adaptations []ContentAdaptation `gorm:"foreignKey:ContentItemID;references:ID" json:"adaptations,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentItem) TableName() string { return "content_item" }
