package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/adaptation"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// AdaptationService rewrites stored content toward a target level and
// keeps the append-only adaptation log.
type AdaptationService interface {
	Adapt(ctx context.Context, contentID uuid.UUID, targetLevel string, preserveMeaning bool) (*adaptation.Result, error)
	History(ctx context.Context, contentID uuid.UUID) ([]*types.ContentAdaptation, error)
}

type adaptationService struct {
	db             *gorm.DB
	log            *logger.Logger
	adapter        *adaptation.Adapter
	itemRepo       repos.ContentItemRepo
	adaptationRepo repos.ContentAdaptationRepo
}

func NewAdaptationService(
	db *gorm.DB,
	log *logger.Logger,
	adapter *adaptation.Adapter,
	itemRepo repos.ContentItemRepo,
	adaptationRepo repos.ContentAdaptationRepo,
) AdaptationService {
	return &adaptationService{
		db:             db,
		log:            log.With("service", "AdaptationService"),
		adapter:        adapter,
		itemRepo:       itemRepo,
		adaptationRepo: adaptationRepo,
	}
}

func (s *adaptationService) Adapt(ctx context.Context, contentID uuid.UUID, targetLevel string, preserveMeaning bool) (*adaptation.Result, error) {
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.itemRepo.GetByID(dbc, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apierr.New(http.StatusNotFound, "content_not_found", fmt.Errorf("content %s not found", contentID))
	}

	result, err := s.adapter.Adapt(item.Body, item.Language, item.ReadingLevel, targetLevel, preserveMeaning)
	if err != nil {
		return nil, mapAnalysisError(err)
	}

	// The identity transform is not logged; nothing changed.
	if result.ReadingLevelChange.Adapted {
		made, mErr := json.Marshal(result.AdaptationsMade)
		if mErr != nil {
			return nil, mErr
		}
		row := &types.ContentAdaptation{
			ContentItemID:    item.ID,
			FromLevel:        result.ReadingLevelChange.From,
			ToLevel:          result.ReadingLevelChange.To,
			AdaptedBody:      result.AdaptedContent,
			AdaptationsMade:  datatypes.JSON(made),
			MeaningPreserved: preserveMeaning,
		}
		if err := s.adaptationRepo.Create(dbc, row); err != nil {
			return nil, fmt.Errorf("record adaptation: %w", err)
		}
		s.log.Info("content adapted",
			"content_id", item.ID.String(),
			"from", row.FromLevel,
			"to", row.ToLevel,
			"transforms", len(result.AdaptationsMade),
		)
	}
	return &result, nil
}

func (s *adaptationService) History(ctx context.Context, contentID uuid.UUID) ([]*types.ContentAdaptation, error) {
	return s.adaptationRepo.ListByContentID(dbctx.Context{Ctx: ctx}, contentID)
}
