package reading

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/readbridge-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReadingProfile holds per-user preference state. The jsonb blobs carry
// typed values (see modules/profile); they are validated at the service
// boundary and only mutated by the profile engine.
type ReadingProfile struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	// TopicPreferences: [{topic, weight, trend, event_count, last_updated}]
	TopicPreferences datatypes.JSON `gorm:"type:jsonb;column:topic_preferences" json:"topic_preferences"`
	// ContentTypePreferences: {content_type: weight}
	ContentTypePreferences datatypes.JSON `gorm:"type:jsonb;column:content_type_preferences" json:"content_type_preferences"`
	// ContextualPreferences: {context_key: {sessions, mean_completion, mean_length}}
	ContextualPreferences datatypes.JSON `gorm:"type:jsonb;column:contextual_preferences" json:"contextual_preferences"`
	// EvolutionHistory: append-only [{topic, kind, weight, occurred_at}]
	EvolutionHistory datatypes.JSON `gorm:"type:jsonb;column:evolution_history" json:"evolution_history"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReadingProfile) TableName() string { return "reading_profile" }
