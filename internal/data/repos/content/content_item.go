package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// ListFilter narrows candidate queries. Zero values mean "any".
type ListFilter struct {
	Language     string
	ReadingLevel string
	ExcludeIDs   []uuid.UUID
	Limit        int
}

type ContentItemRepo interface {
	Create(dbc dbctx.Context, row *types.ContentItem) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentItem, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.ContentItem, error)
	ListWithAnalysis(dbc dbctx.Context, filter ListFilter) ([]*types.ContentItem, error)
	UpdateReadingLevel(dbc dbctx.Context, id uuid.UUID, level string) error
}

type contentItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentItemRepo(db *gorm.DB, baseLog *logger.Logger) ContentItemRepo {
	return &contentItemRepo{db: db, log: baseLog.With("repo", "ContentItemRepo")}
}

func (r *contentItemRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *contentItemRepo) Create(dbc dbctx.Context, row *types.ContentItem) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *contentItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentItem, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ContentItem
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *contentItemRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.ContentItem, error) {
	out := []*types.ContentItem{}
	q := r.applyFilter(r.dbx(dbc).WithContext(dbc.Ctx), filter)
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentItemRepo) ListWithAnalysis(dbc dbctx.Context, filter ListFilter) ([]*types.ContentItem, error) {
	out := []*types.ContentItem{}
	q := r.applyFilter(r.dbx(dbc).WithContext(dbc.Ctx), filter).Preload("Analysis")
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentItemRepo) applyFilter(q *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.Language != "" {
		q = q.Where("language = ?", filter.Language)
	}
	if filter.ReadingLevel != "" {
		q = q.Where("reading_level = ?", filter.ReadingLevel)
	}
	if len(filter.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}

func (r *contentItemRepo) UpdateReadingLevel(dbc dbctx.Context, id uuid.UUID, level string) error {
	if id == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.ContentItem{}).
		Where("id = ?", id).
		Update("reading_level", level).Error
}
