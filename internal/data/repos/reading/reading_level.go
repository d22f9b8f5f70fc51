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

type ReadingLevelRepo interface {
	// GetForUpdate takes a row lock; must run inside a transaction.
	// Behavior events for the same user serialize on this lock so
	// assessment_count moves exactly once per event.
	GetForUpdate(dbc dbctx.Context, userID uuid.UUID, language string) (*types.ReadingLevel, error)
	GetByUserLanguage(dbc dbctx.Context, userID uuid.UUID, language string) (*types.ReadingLevel, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ReadingLevel, error)
	Upsert(dbc dbctx.Context, row *types.ReadingLevel) error
}

type readingLevelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingLevelRepo(db *gorm.DB, baseLog *logger.Logger) ReadingLevelRepo {
	return &readingLevelRepo{db: db, log: baseLog.With("repo", "ReadingLevelRepo")}
}

func (r *readingLevelRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *readingLevelRepo) GetForUpdate(dbc dbctx.Context, userID uuid.UUID, language string) (*types.ReadingLevel, error) {
	if userID == uuid.Nil || language == "" {
		return nil, nil
	}
	var row types.ReadingLevel
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND language = ?", userID, language).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *readingLevelRepo) GetByUserLanguage(dbc dbctx.Context, userID uuid.UUID, language string) (*types.ReadingLevel, error) {
	if userID == uuid.Nil || language == "" {
		return nil, nil
	}
	var row types.ReadingLevel
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND language = ?", userID, language).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *readingLevelRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ReadingLevel, error) {
	out := []*types.ReadingLevel{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("language ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *readingLevelRepo) Upsert(dbc dbctx.Context, row *types.ReadingLevel) error {
	if row == nil || row.UserID == uuid.Nil || row.Language == "" {
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
			Columns: []clause.Column{{Name: "user_id"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"level", "confidence", "assessment_count", "last_assessment", "updated_at",
			}),
		}).
		Create(row).Error
}
