package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	"github.com/tdobson/snowy-sub000/internal/data/repos/user"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

func TestAuthRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	userRepo := user.NewUserRepo(tx, log)
	svc := NewAuthService(tx, log, userRepo, "test-secret", time.Hour)

	u := &types.User{Email: "Installer@Example.com", Name: "Installer One", Password: "hunter22"}
	if err := svc.RegisterUser(ctx, inst.InstanceID, u); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.Password == "hunter22" {
		t.Fatal("password stored without hashing")
	}

	token, loggedIn, err := svc.LoginUser(ctx, inst.InstanceID, "installer@example.com", "hunter22")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if loggedIn.UserID != u.UserID {
		t.Fatalf("LoginUser returned user %s, want %s", loggedIn.UserID, u.UserID)
	}

	identity, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if identity.UserID != u.UserID || identity.InstanceID != inst.InstanceID {
		t.Fatalf("token carries %s/%s, want %s/%s",
			identity.UserID, identity.InstanceID, u.UserID, inst.InstanceID)
	}

	if _, _, err := svc.LoginUser(ctx, inst.InstanceID, "installer@example.com", "wrong"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("bad password error = %v, want ErrUnauthorized", err)
	}

	// A token signed with another secret must be rejected.
	otherSvc := NewAuthService(tx, log, userRepo, "other-secret", time.Hour)
	if _, err := otherSvc.ParseToken(token); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("foreign token error = %v, want ErrUnauthorized", err)
	}

	if err := svc.ResetPassword(ctx, inst.InstanceID, u.UserID, "hunter22", "hunter23"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, inst.InstanceID, "installer@example.com", "hunter23"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
