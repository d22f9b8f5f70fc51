package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type ContentAnalysisRepo interface {
	// Upsert replaces the snapshot for a content item wholesale.
	Upsert(dbc dbctx.Context, row *types.ContentAnalysis) error
	GetByContentID(dbc dbctx.Context, contentItemID uuid.UUID) (*types.ContentAnalysis, error)
}

type contentAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) ContentAnalysisRepo {
	return &contentAnalysisRepo{db: db, log: baseLog.With("repo", "ContentAnalysisRepo")}
}

func (r *contentAnalysisRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *contentAnalysisRepo) Upsert(dbc dbctx.Context, row *types.ContentAnalysis) error {
	if row == nil || row.ContentItemID == uuid.Nil {
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
			Columns: []clause.Column{{Name: "content_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"language", "reading_level", "topics", "metrics", "embedding", "key_phrases", "word_count", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *contentAnalysisRepo) GetByContentID(dbc dbctx.Context, contentItemID uuid.UUID) (*types.ContentAnalysis, error) {
	if contentItemID == uuid.Nil {
		return nil, nil
	}
	var row types.ContentAnalysis
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("content_item_id = ?", contentItemID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
