package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/readbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{
		Email:           "userrepo@example.com",
		Password:        "pw",
		FirstName:       "A",
		LastName:        "B",
		PrimaryLanguage: "japanese",
	}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: id not assigned")
	}

	got, err := repo.GetByEmail(dbc, u.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: unexpected result: %+v", got)
	}
	if got.PrimaryLanguage != "japanese" {
		t.Fatalf("GetByEmail: primary language = %q", got.PrimaryLanguage)
	}

	exists, err := repo.EmailExists(dbc, u.Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}
	exists, err = repo.EmailExists(dbc, "missing@example.com")
	if err != nil {
		t.Fatalf("EmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists (missing): expected false")
	}

	if err := repo.UpdatePrimaryLanguage(dbc, u.ID, "english"); err != nil {
		t.Fatalf("UpdatePrimaryLanguage: %v", err)
	}
	got, err = repo.GetByID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.PrimaryLanguage != "english" {
		t.Fatalf("GetByID after update: %+v", got)
	}
}

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "tokenrepo@example.com")
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	tok := &types.UserToken{
		UserID:       u.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err := repo.Create(dbc, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByRefreshToken(dbc, "refresh-1")
	if err != nil {
		t.Fatalf("GetByRefreshToken: %v", err)
	}
	if got == nil || got.UserID != u.ID {
		t.Fatalf("GetByRefreshToken: %+v", got)
	}

	if err := repo.DeleteByUserID(dbc, u.ID); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	got, err = repo.GetByRefreshToken(dbc, "refresh-1")
	if err != nil {
		t.Fatalf("GetByRefreshToken after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("token survived delete: %+v", got)
	}
}
