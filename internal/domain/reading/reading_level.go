package reading

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/readbridge-backend/internal/domain/user"
	"gorm.io/gorm"
)

// ReadingLevel is the continuous per-user, per-language ability
// estimate on a normalized [0,1] scale. One row per user+language;
// updates are serialized by a row-level lock in the behavior path so
// assessment_count moves by exactly one per processed event.
type ReadingLevel struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_reading_level_user_language,unique" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Language        string     `gorm:"not null;column:language;index:idx_reading_level_user_language,unique" json:"language"`
	Level           float64    `gorm:"not null;column:level" json:"level"`
	Confidence      float64    `gorm:"not null;column:confidence" json:"confidence"`
	AssessmentCount int        `gorm:"not null;default:0;column:assessment_count" json:"assessment_count"`
	LastAssessment  *time.Time `gorm:"column:last_assessment" json:"last_assessment,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReadingLevel) TableName() string { return "reading_level" }
