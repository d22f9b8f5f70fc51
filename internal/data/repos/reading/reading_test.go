package reading

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/readbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
)

func TestReadingLevelRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "levelrepo@example.com")
	repo := NewReadingLevelRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	row := &types.ReadingLevel{
		UserID:          u.ID,
		Language:        "english",
		Level:           0.35,
		Confidence:      0.2,
		AssessmentCount: 1,
		LastAssessment:  &now,
	}
	if err := repo.Upsert(dbc, row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	row.Level = 0.40
	row.AssessmentCount = 2
	if err := repo.Upsert(dbc, row); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}

	got, err := repo.GetByUserLanguage(dbc, u.ID, "english")
	if err != nil {
		t.Fatalf("GetByUserLanguage: %v", err)
	}
	if got == nil || got.Level != 0.40 || got.AssessmentCount != 2 {
		t.Fatalf("upsert did not update in place: %+v", got)
	}

	locked, err := repo.GetForUpdate(dbc, u.ID, "english")
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if locked == nil || locked.ID != got.ID {
		t.Fatalf("GetForUpdate: %+v", locked)
	}

	levels, err := repo.ListByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("ListByUser: got %d rows", len(levels))
	}
}

func TestReadingProfileRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "profilerepo@example.com")
	repo := NewReadingProfileRepo(db, testutil.Logger(t))

	row := &types.ReadingProfile{
		UserID:                 u.ID,
		TopicPreferences:       datatypes.JSON([]byte(`[{"topic":"science","weight":0.5}]`)),
		ContentTypePreferences: datatypes.JSON([]byte(`{}`)),
		ContextualPreferences:  datatypes.JSON([]byte(`{}`)),
		EvolutionHistory:       datatypes.JSON([]byte(`[]`)),
	}
	if err := repo.Upsert(dbc, row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	row.TopicPreferences = datatypes.JSON([]byte(`[{"topic":"science","weight":0.7}]`))
	if err := repo.Upsert(dbc, row); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}

	got, err := repo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got == nil {
		t.Fatalf("GetByUserID: missing row")
	}
	if string(got.TopicPreferences) == `[{"topic":"science","weight":0.5}]` {
		t.Fatalf("profile not updated in place")
	}
}

func TestReadingBehaviorRepoOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "behaviorrepo@example.com")
	item := testutil.SeedContentItem(t, ctx, tx, "english", "beginner")
	repo := NewReadingBehaviorRepo(db, testutil.Logger(t))

	base := time.Now().UTC().Add(-3 * time.Hour)
	for i := 0; i < 3; i++ {
		testutil.SeedBehavior(t, ctx, tx, u.ID, item.ID, base.Add(time.Duration(i)*time.Hour), 0.5+float64(i)*0.1)
	}

	desc, err := repo.ListByUser(dbc, u.ID, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(desc) != 3 {
		t.Fatalf("ListByUser: got %d rows", len(desc))
	}
	if !desc[0].StartedAt.After(desc[2].StartedAt) {
		t.Fatalf("ListByUser not newest-first")
	}

	asc, err := repo.ListByUserAsc(dbc, u.ID, 2)
	if err != nil {
		t.Fatalf("ListByUserAsc: %v", err)
	}
	if len(asc) != 2 {
		t.Fatalf("ListByUserAsc limit: got %d rows", len(asc))
	}
	if asc[0].StartedAt.After(asc[1].StartedAt) {
		t.Fatalf("ListByUserAsc not oldest-first")
	}

	ids, err := repo.ListContentIDsByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("ListContentIDsByUser: %v", err)
	}
	if len(ids) != 1 || ids[0] != item.ID {
		t.Fatalf("ListContentIDsByUser: %v", ids)
	}
}
