package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/testutil"
)

func TestAuthServiceLogin(t *testing.T) {
	users := repository.NewUserRepository(testutil.OpenInMemoryDB(t))
	auth := NewAuthService(users)
	managers := NewManagerService(users)
	ctx := context.Background()

	id, err := managers.CreateManager(ctx, "anna", "pw1")
	if err != nil {
		t.Fatalf("CreateManager() error = %v", err)
	}

	user, err := auth.Login(ctx, "anna", "pw1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != id || user.Role != entity.RoleManager {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := auth.Login(ctx, "anna", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, "ghost", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceLegacyPlaintextPassword(t *testing.T) {
	users := repository.NewUserRepository(testutil.OpenInMemoryDB(t))
	auth := NewAuthService(users)
	ctx := context.Background()

	if _, err := users.Create(ctx, &entity.User{Username: "old", PasswordHash: "plain", Role: entity.RoleAdmin}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	user, err := auth.Login(ctx, "old", "plain")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Role != entity.RoleAdmin {
		t.Errorf("Role = %q, want admin", user.Role)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	users := repository.NewUserRepository(testutil.OpenInMemoryDB(t))
	auth := NewAuthService(users)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := auth.EnsureAdmin(ctx, "admin", "pw"); err != nil {
			t.Fatalf("EnsureAdmin() #%d error = %v", i+1, err)
		}
	}

	all, err := auth.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(all) != 1 || all[0].Role != entity.RoleAdmin {
		t.Fatalf("expected a single admin, got %+v", all)
	}
	if _, err := auth.Login(ctx, "admin", "pw"); err != nil {
		t.Errorf("Login() as bootstrap admin error = %v", err)
	}
}

func TestManagerServiceNeverTouchesAdmins(t *testing.T) {
	users := repository.NewUserRepository(testutil.OpenInMemoryDB(t))
	auth := NewAuthService(users)
	managers := NewManagerService(users)
	ctx := context.Background()

	if err := auth.EnsureAdmin(ctx, "admin", "pw"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	admin, err := auth.Login(ctx, "admin", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := managers.UpdatePassword(ctx, admin.ID, "hijacked"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	if err := managers.DeleteManager(ctx, admin.ID); err != nil {
		t.Fatalf("DeleteManager() error = %v", err)
	}

	if _, err := auth.Login(ctx, "admin", "pw"); err != nil {
		t.Errorf("admin should still log in with the original password: %v", err)
	}

	list, err := managers.ListManagers(ctx)
	if err != nil {
		t.Fatalf("ListManagers() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("admins must not be listed as managers: %+v", list)
	}
}

func TestManagerServiceUpdatePassword(t *testing.T) {
	users := repository.NewUserRepository(testutil.OpenInMemoryDB(t))
	auth := NewAuthService(users)
	managers := NewManagerService(users)
	ctx := context.Background()

	id, err := managers.CreateManager(ctx, "m", "old")
	if err != nil {
		t.Fatalf("CreateManager() error = %v", err)
	}
	if err := managers.UpdatePassword(ctx, id, "new"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	if _, err := auth.Login(ctx, "m", "old"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password should be rejected, got %v", err)
	}
	if _, err := auth.Login(ctx, "m", "new"); err != nil {
		t.Errorf("new password should be accepted, got %v", err)
	}

	if _, err := managers.CreateManager(ctx, "m", "again"); !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}
