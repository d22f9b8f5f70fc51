package reading

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/readbridge-backend/internal/domain/content"
	"github.com/yungbote/readbridge-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReadingBehavior is one finished (or checkpointed) reading session.
// Rows are append-only; nothing mutates them after creation.
type ReadingBehavior struct {
	ID            uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID            `gorm:"type:uuid;not null;index:idx_reading_behavior_user_time" json:"user_id"`
	User          *user.User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ContentItemID uuid.UUID            `gorm:"type:uuid;not null;index" json:"content_item_id"`
	ContentItem   *content.ContentItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentItemID;references:ID" json:"content_item,omitempty"`

	StartedAt time.Time `gorm:"not null;column:started_at;index:idx_reading_behavior_user_time" json:"started_at"`
	EndedAt   time.Time `gorm:"not null;column:ended_at" json:"ended_at"`

	CompletionRate float64 `gorm:"not null;column:completion_rate" json:"completion_rate"`
	// Words per minute.
	ReadingSpeed float64 `gorm:"not null;column:reading_speed" json:"reading_speed"`

	// Pauses: [{at, duration_seconds}]
	Pauses datatypes.JSON `gorm:"type:jsonb;column:pauses" json:"pauses"`
	// Interactions: [{kind: highlight|note|lookup, at}]
	Interactions datatypes.JSON `gorm:"type:jsonb;column:interactions" json:"interactions"`
	// Context: {available_minutes, time_of_day, mood, location}
	Context datatypes.JSON `gorm:"type:jsonb;column:context" json:"context"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReadingBehavior) TableName() string { return "reading_behavior" }
