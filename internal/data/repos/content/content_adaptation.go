package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type ContentAdaptationRepo interface {
	Create(dbc dbctx.Context, row *types.ContentAdaptation) error
	ListByContentID(dbc dbctx.Context, contentItemID uuid.UUID) ([]*types.ContentAdaptation, error)
	GetLatest(dbc dbctx.Context, contentItemID uuid.UUID, toLevel string) (*types.ContentAdaptation, error)
}

type contentAdaptationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentAdaptationRepo(db *gorm.DB, baseLog *logger.Logger) ContentAdaptationRepo {
	return &contentAdaptationRepo{db: db, log: baseLog.With("repo", "ContentAdaptationRepo")}
}

func (r *contentAdaptationRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *contentAdaptationRepo) Create(dbc dbctx.Context, row *types.ContentAdaptation) error {
	if row == nil || row.ContentItemID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *contentAdaptationRepo) ListByContentID(dbc dbctx.Context, contentItemID uuid.UUID) ([]*types.ContentAdaptation, error) {
	out := []*types.ContentAdaptation{}
	if contentItemID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("content_item_id = ?", contentItemID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentAdaptationRepo) GetLatest(dbc dbctx.Context, contentItemID uuid.UUID, toLevel string) (*types.ContentAdaptation, error) {
	if contentItemID == uuid.Nil || toLevel == "" {
		return nil, nil
	}
	var row types.ContentAdaptation
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("content_item_id = ? AND to_level = ?", contentItemID, toLevel).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
