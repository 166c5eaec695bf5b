package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")

	created, err := repo.Create(ctx, tx, []*types.User{
		{
			UserID:     uuid.New(),
			InstanceID: inst.InstanceID,
			Email:      "installer@example.com",
			Name:       "Installer One",
			Password:   "pw",
			SnowyRole:  "installer",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 user, got %d", len(created))
	}

	got, err := repo.GetByID(ctx, tx, inst.InstanceID, created[0].UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != created[0].Email {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	byEmail, err := repo.GetByEmail(ctx, tx, inst.InstanceID, "installer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.UserID != created[0].UserID {
		t.Fatalf("GetByEmail: unexpected result: %+v", byEmail)
	}

	exists, err := repo.EmailExists(ctx, tx, inst.InstanceID, "installer@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	// Same email under another tenant does not exist.
	other := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	exists, err = repo.EmailExists(ctx, tx, other.InstanceID, "installer@example.com")
	if err != nil {
		t.Fatalf("EmailExists (other tenant): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists: leaked across tenants")
	}

	if err := repo.UpdatePassword(ctx, tx, inst.InstanceID, created[0].UserID, "newhash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	err = repo.UpdatePassword(ctx, tx, inst.InstanceID, uuid.New(), "x")
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("UpdatePassword (missing): expected ErrNotFound, got %v", err)
	}
}
