package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PrimaryLanguage string `json:"primary_language"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ParseAccessToken(tokenString string) (uuid.UUID, error)
	AccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

const minPasswordLength = 8

func (s *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.New(http.StatusBadRequest, "invalid_email", fmt.Errorf("invalid email address"))
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.New(http.StatusBadRequest, "weak_password", fmt.Errorf("password must be at least %d characters", minPasswordLength))
	}

	language := strings.ToLower(strings.TrimSpace(in.PrimaryLanguage))
	if language == "" {
		language = string(analysis.LanguageEnglish)
	}
	if _, err := analysis.ParseLanguage(language); err != nil {
		return nil, mapAnalysisError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Email:           email,
		Password:        string(hash),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		PrimaryLanguage: language,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.userRepo.EmailExists(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email already registered"))
		}
		if err := s.userRepo.Create(dbc, user); err != nil {
			if repos.IsUniqueViolation(err) {
				return apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email already registered"))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	dbc := dbctx.Context{Ctx: ctx}

	user, err := s.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, errInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, errInvalidCredentials()
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pair, err = s.issueTokens(dbctx.Context{Ctx: ctx, Tx: tx}, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("refresh token required"))
	}

	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		existing, err := s.userTokenRepo.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return err
		}
		if existing == nil {
			return apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("unknown refresh token"))
		}
		if existing.ExpiresAt.Before(time.Now()) {
			if err := s.userTokenRepo.DeleteByUserID(dbc, existing.UserID); err != nil {
				return err
			}
			return apierr.New(http.StatusUnauthorized, "refresh_token_expired", fmt.Errorf("refresh token expired"))
		}

		user, err := s.userRepo.GetByID(dbc, existing.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("user for refresh token no longer exists"))
		}

		// Rotate: the old pair dies with the refresh.
		if err := s.userTokenRepo.DeleteByUserID(dbc, existing.UserID); err != nil {
			return err
		}
		pair, err = s.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	return s.userTokenRepo.DeleteByUserID(dbc, userID)
}

func (s *authService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid subject in token: %w", err))
	}
	return userID, nil
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }

func (s *authService) issueTokens(dbc dbctx.Context, user *types.User) (*TokenPair, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	pair := &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(s.refreshTTL),
	}
	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
	if err := s.userTokenRepo.Create(dbc, row); err != nil {
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return pair, nil
}

func errInvalidCredentials() error {
	return apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
}
