package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

// Seeder ensures roles and the administrator account exist at startup.
// Run is idempotent; reruns on every boot.
type Seeder struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	cfg        config.SeedConfig
	bcryptCost int
	logger     *zap.Logger
}

// NewSeeder builds the seeder.
func NewSeeder(users repository.UserRepository, roles repository.RoleRepository, cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, cfg: cfg, bcryptCost: bcryptCost, logger: logger}
}

// Run creates missing roles, then the seed administrator when configured.
func (s *Seeder) Run(ctx context.Context) error {
	for _, name := range []string{domain.RoleAdministrator, domain.RoleCustomer} {
		if err := s.ensureRole(ctx, name); err != nil {
			return err
		}
	}

	if s.cfg.AdminUsername == "" || s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.logger.Info("seed admin not configured; skipping")
		return nil
	}
	return s.ensureAdmin(ctx)
}

func (s *Seeder) ensureRole(ctx context.Context, name string) error {
	exists, err := s.roles.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	s.logger.Info("creating role", zap.String("role", name))
	return s.roles.Create(ctx, &domain.Role{Name: name})
}

func (s *Seeder) ensureAdmin(ctx context.Context) error {
	if _, err := s.users.GetByUsernameOrEmail(ctx, s.cfg.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         s.cfg.AdminName,
		Username:     s.cfg.AdminUsername,
		Email:        s.cfg.AdminEmail,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	role, err := s.roles.GetByName(ctx, domain.RoleAdministrator)
	if err != nil {
		return err
	}
	if err := s.users.AddRole(ctx, admin.ID, role.ID); err != nil {
		return err
	}

	s.logger.Info("seed admin created", zap.String("username", s.cfg.AdminUsername))
	return nil
}
