package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, row *types.User) error
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) error
	UpdatePrimaryLanguage(dbc dbctx.Context, userID uuid.UUID, language string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *userRepo) Create(dbc dbctx.Context, row *types.User) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.User
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", userID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	if email == "" {
		return nil, nil
	}
	var row types.User
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName}).Error
}

func (r *userRepo) UpdatePrimaryLanguage(dbc dbctx.Context, userID uuid.UUID, language string) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("primary_language", language).Error
}
