package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/readbridge-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:              uuid.New(),
		Email:           email,
		Password:        "pw",
		FirstName:       "A",
		LastName:        "B",
		PrimaryLanguage: "english",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedContentItem(tb testing.TB, ctx context.Context, tx *gorm.DB, language, level string) *types.ContentItem {
	tb.Helper()
	c := &types.ContentItem{
		ID:           uuid.New(),
		Title:        "fixture",
		Body:         "The cat sat on the mat. The dog ran in the park.",
		Language:     language,
		ReadingLevel: level,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content item: %v", err)
	}
	return c
}

func SeedBehavior(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, startedAt time.Time, completion float64) *types.ReadingBehavior {
	tb.Helper()
	b := &types.ReadingBehavior{
		ID:             uuid.New(),
		UserID:         userID,
		ContentItemID:  contentID,
		StartedAt:      startedAt,
		EndedAt:        startedAt.Add(10 * time.Minute),
		CompletionRate: completion,
		ReadingSpeed:   220,
		Pauses:         datatypes.JSON([]byte("[]")),
		Interactions:   datatypes.JSON([]byte("[]")),
		Context:        datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed behavior: %v", err)
	}
	return b
}
