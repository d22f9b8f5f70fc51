package reading

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type ReadingBehaviorRepo interface {
	Create(dbc dbctx.Context, row *types.ReadingBehavior) error
	// ListByUser returns sessions newest-first, capped at limit when
	// limit > 0.
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ReadingBehavior, error)
	// ListByUserAsc returns sessions oldest-first for trend math.
	ListByUserAsc(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ReadingBehavior, error)
	ListContentIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type readingBehaviorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingBehaviorRepo(db *gorm.DB, baseLog *logger.Logger) ReadingBehaviorRepo {
	return &readingBehaviorRepo{db: db, log: baseLog.With("repo", "ReadingBehaviorRepo")}
}

func (r *readingBehaviorRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *readingBehaviorRepo) Create(dbc dbctx.Context, row *types.ReadingBehavior) error {
	if row == nil || row.UserID == uuid.Nil || row.ContentItemID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *readingBehaviorRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ReadingBehavior, error) {
	return r.list(dbc, userID, limit, "started_at DESC")
}

func (r *readingBehaviorRepo) ListByUserAsc(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ReadingBehavior, error) {
	return r.list(dbc, userID, limit, "started_at ASC")
}

func (r *readingBehaviorRepo) list(dbc dbctx.Context, userID uuid.UUID, limit int, order string) ([]*types.ReadingBehavior, error) {
	out := []*types.ReadingBehavior{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID).Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *readingBehaviorRepo) ListContentIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.ReadingBehavior{}).
		Distinct("content_item_id").
		Where("user_id = ?", userID).
		Pluck("content_item_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
