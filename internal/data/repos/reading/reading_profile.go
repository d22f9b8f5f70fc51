package reading

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type ReadingProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.ReadingProfile, error)
	Upsert(dbc dbctx.Context, row *types.ReadingProfile) error
}

type readingProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingProfileRepo(db *gorm.DB, baseLog *logger.Logger) ReadingProfileRepo {
	return &readingProfileRepo{db: db, log: baseLog.With("repo", "ReadingProfileRepo")}
}

func (r *readingProfileRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *readingProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.ReadingProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.ReadingProfile
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *readingProfileRepo) Upsert(dbc dbctx.Context, row *types.ReadingProfile) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"topic_preferences", "content_type_preferences", "contextual_preferences", "evolution_history", "updated_at",
			}),
		}).
		Create(row).Error
}
