package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type UserService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error)
	UpdatePrimaryLanguage(ctx context.Context, userID uuid.UUID, language string) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.New(http.StatusNotFound, "user_not_found", fmt.Errorf("user %s not found", userID))
	}
	return user, nil
}

func (s *userService) UpdateName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_name", fmt.Errorf("first and last name are required"))
	}

	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateName(dbc, userID, firstName, lastName); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(dbc, userID)
}

func (s *userService) UpdatePrimaryLanguage(ctx context.Context, userID uuid.UUID, language string) (*types.User, error) {
	lang, err := analysis.ParseLanguage(strings.ToLower(strings.TrimSpace(language)))
	if err != nil {
		return nil, mapAnalysisError(err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePrimaryLanguage(dbc, userID, string(lang)); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(dbc, userID)
}
