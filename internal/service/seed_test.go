package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
)

func TestSeeder_CreatesRoles(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo(users)
	seeder := NewSeeder(users, roles, config.SeedConfig{}, bcrypt.MinCost, zap.NewNop())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, name := range []string{domain.RoleAdministrator, domain.RoleCustomer} {
		exists, _ := roles.Exists(context.Background(), name)
		if !exists {
			t.Fatalf("expected role %s to exist", name)
		}
	}
}

func TestSeeder_Idempotent(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo(users)
	cfg := config.SeedConfig{
		AdminName:     "Administrator",
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "s3cret-pw",
	}
	seeder := NewSeeder(users, roles, cfg, bcrypt.MinCost, zap.NewNop())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	if len(users.users) != 1 {
		t.Fatalf("expected a single seed admin, got %d users", len(users.users))
	}
}

func TestSeeder_AdminGetsAdministratorRole(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo(users)
	cfg := config.SeedConfig{
		AdminName:     "Administrator",
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "s3cret-pw",
	}
	seeder := NewSeeder(users, roles, cfg, bcrypt.MinCost, zap.NewNop())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	admin, err := users.GetByUsernameOrEmail(context.Background(), "admin")
	if err != nil {
		t.Fatalf("seed admin not found: %v", err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, "s3cret-pw"); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	memberOf, _ := users.GetRoles(context.Background(), admin.ID)
	if len(memberOf) != 1 || memberOf[0] != domain.RoleAdministrator {
		t.Fatalf("expected Administrator membership, got %v", memberOf)
	}
}

func TestSeeder_SkipsAdminWhenUnconfigured(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo(users)
	seeder := NewSeeder(users, roles, config.SeedConfig{AdminName: "Administrator"}, bcrypt.MinCost, zap.NewNop())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(users.users) != 0 {
		t.Fatalf("expected no users created, got %d", len(users.users))
	}
}
