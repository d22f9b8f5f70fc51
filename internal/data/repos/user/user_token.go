package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, row *types.UserToken) error
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error)
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *userTokenRepo) Create(dbc dbctx.Context, row *types.UserToken) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error) {
	if refreshToken == "" {
		return nil, nil
	}
	var row types.UserToken
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("refresh_token = ?", refreshToken).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userTokenRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("expires_at < ?", cutoff).
		Delete(&types.UserToken{}).Error
}
