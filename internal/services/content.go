package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/platform/apierr"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

// ContentService ingests reading material and maintains each item's
// analysis snapshot.
type ContentService interface {
	Ingest(ctx context.Context, title, body, language string) (*types.ContentItem, *analysis.ContentAnalysis, error)
	Get(ctx context.Context, id uuid.UUID) (*types.ContentItem, *types.ContentAnalysis, error)
	List(ctx context.Context, language, level string, limit int) ([]*types.ContentItem, error)
	Analyze(ctx context.Context, id uuid.UUID) (*analysis.ContentAnalysis, error)
	// Reanalyze refreshes snapshots for a batch of items concurrently.
	Reanalyze(ctx context.Context, ids []uuid.UUID) error
}

type contentService struct {
	db           *gorm.DB
	log          *logger.Logger
	analyzer     *analysis.Analyzer
	itemRepo     repos.ContentItemRepo
	analysisRepo repos.ContentAnalysisRepo
}

func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	analyzer *analysis.Analyzer,
	itemRepo repos.ContentItemRepo,
	analysisRepo repos.ContentAnalysisRepo,
) ContentService {
	return &contentService{
		db:           db,
		log:          log.With("service", "ContentService"),
		analyzer:     analyzer,
		itemRepo:     itemRepo,
		analysisRepo: analysisRepo,
	}
}

func (s *contentService) Ingest(ctx context.Context, title, body, language string) (*types.ContentItem, *analysis.ContentAnalysis, error) {
	if title == "" || body == "" {
		return nil, nil, apierr.New(http.StatusBadRequest, "content_invalid", fmt.Errorf("title and body are required"))
	}

	snapshot, err := s.analyzer.AnalyzeContent(ctx, body, language)
	if err != nil {
		return nil, nil, mapAnalysisError(err)
	}

	item := &types.ContentItem{
		Title:        title,
		Body:         body,
		Language:     string(snapshot.Language),
		ReadingLevel: snapshot.Level.String(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.itemRepo.Create(dbc, item); err != nil {
			return fmt.Errorf("create content item: %w", err)
		}
		row, err := analysisRow(item.ID, snapshot)
		if err != nil {
			return err
		}
		if err := s.analysisRepo.Upsert(dbc, row); err != nil {
			return fmt.Errorf("store analysis snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("content ingested", "content_id", item.ID.String(), "language", item.Language, "level", item.ReadingLevel)
	return item, &snapshot, nil
}

func (s *contentService) Get(ctx context.Context, id uuid.UUID) (*types.ContentItem, *types.ContentAnalysis, error) {
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.itemRepo.GetByID(dbc, id)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, apierr.New(http.StatusNotFound, "content_not_found", fmt.Errorf("content %s not found", id))
	}
	snap, err := s.analysisRepo.GetByContentID(dbc, id)
	if err != nil {
		return nil, nil, err
	}
	return item, snap, nil
}

func (s *contentService) List(ctx context.Context, language, level string, limit int) ([]*types.ContentItem, error) {
	if language != "" {
		lang, err := analysis.ParseLanguage(language)
		if err != nil {
			return nil, mapAnalysisError(err)
		}
		language = string(lang)
	}
	if level != "" {
		lvl, err := analysis.ParseLevel(level)
		if err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_level", err)
		}
		level = lvl.String()
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	dbc := dbctx.Context{Ctx: ctx}
	return s.itemRepo.List(dbc, repos.ContentListFilter{
		Language:     language,
		ReadingLevel: level,
		Limit:        limit,
	})
}

func (s *contentService) Analyze(ctx context.Context, id uuid.UUID) (*analysis.ContentAnalysis, error) {
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.itemRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apierr.New(http.StatusNotFound, "content_not_found", fmt.Errorf("content %s not found", id))
	}

	snapshot, err := s.analyzer.AnalyzeContent(ctx, item.Body, item.Language)
	if err != nil {
		return nil, mapAnalysisError(err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := analysisRow(item.ID, snapshot)
		if err != nil {
			return err
		}
		if err := s.analysisRepo.Upsert(txc, row); err != nil {
			return err
		}
		return s.itemRepo.UpdateReadingLevel(txc, item.ID, snapshot.Level.String())
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *contentService) Reanalyze(ctx context.Context, ids []uuid.UUID) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if _, err := s.Analyze(gctx, id); err != nil {
				return fmt.Errorf("reanalyze %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func analysisRow(contentID uuid.UUID, snap analysis.ContentAnalysis) (*types.ContentAnalysis, error) {
	topics, err := json.Marshal(snap.Topics)
	if err != nil {
		return nil, err
	}
	metrics, err := json.Marshal(map[string]any{
		"english":    snap.English,
		"japanese":   snap.Japanese,
		"complexity": snap.Complexity,
	})
	if err != nil {
		return nil, err
	}
	embedding, err := json.Marshal(snap.Embedding)
	if err != nil {
		return nil, err
	}
	phrases, err := json.Marshal(snap.KeyPhrases)
	if err != nil {
		return nil, err
	}
	return &types.ContentAnalysis{
		ContentItemID: contentID,
		Language:      string(snap.Language),
		ReadingLevel:  snap.Level.String(),
		Topics:        datatypes.JSON(topics),
		Metrics:       datatypes.JSON(metrics),
		Embedding:     datatypes.JSON(embedding),
		KeyPhrases:    datatypes.JSON(phrases),
		WordCount:     snap.WordCount,
	}, nil
}

func mapAnalysisError(err error) error {
	if analysis.IsUnsupportedLanguage(err) {
		return apierr.New(http.StatusUnprocessableEntity, "unsupported_language", err)
	}
	return err
}
