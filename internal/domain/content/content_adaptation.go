package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentAdaptation is one entry in a content item's append-only
// adaptation log.
type ContentAdaptation struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContentItemID uuid.UUID    `gorm:"type:uuid;not null;index" json:"content_item_id"`
	ContentItem   *ContentItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentItemID;references:ID" json:"content_item,omitempty"`

	FromLevel string `gorm:"not null;column:from_level" json:"from_level"`
	ToLevel   string `gorm:"not null;column:to_level" json:"to_level"`

	AdaptedBody     string         `gorm:"not null;column:adapted_body" json:"adapted_body"`
	AdaptationsMade datatypes.JSON `gorm:"type:jsonb;column:adaptations_made" json:"adaptations_made"`
	MeaningPreserved bool          `gorm:"not null;default:true;column:meaning_preserved" json:"meaning_preserved"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentAdaptation) TableName() string { return "content_adaptation" }
