package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bookstore-service/internal/api/dto"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/service"
)

type memUserRepo struct {
	users map[string]*domain.User
	roles map[string][]string
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = "user-" + user.Username
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Update(context.Context, *domain.User) error { return nil }

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *memUserRepo) GetByUsernameOrEmail(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetRoles(_ context.Context, userID string) ([]string, error) {
	return r.roles[userID], nil
}

func (r *memUserRepo) AddRole(_ context.Context, userID, roleID string) error {
	r.roles[userID] = append(r.roles[userID], roleID)
	return nil
}

type memRoleRepo struct{}

func (memRoleRepo) Create(context.Context, *domain.Role) error { return nil }
func (memRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	return &domain.Role{ID: name, Name: name}, nil
}
func (memRoleRepo) Exists(context.Context, string) (bool, error) { return true, nil }

func loginApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := auth.HashPassword("s3cret-pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &memUserRepo{
		users: map[string]*domain.User{
			"user-admin": {ID: "user-admin", Name: "Admin", Username: "admin", Email: "admin@example.com", PasswordHash: hash},
		},
		roles: map[string][]string{"user-admin": {domain.RoleAdministrator}},
	}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "bookstore",
		Audience:        "bookstore-clients",
		TokenTTLMinutes: 300,
		BcryptCost:      bcrypt.MinCost,
	}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: repo, RoleRepo: memRoleRepo{}})
	handler := NewAuthHandler(authService)

	app := fiber.New()
	app.Post("/users", handler.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestAuthHandler_Login_Success(t *testing.T) {
	app := loginApp(t)

	resp := postJSON(t, app, "/users", dto.LoginRequest{Username: "admin", Password: "s3cret-pw"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body dto.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("expected token in response")
	}
	if body.ExpiresAt.IsZero() {
		t.Fatalf("expected expiry in response")
	}
}

func TestAuthHandler_Login_FailureEchoesBody(t *testing.T) {
	app := loginApp(t)

	for _, attempt := range []dto.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "nobody", Password: "wrong"},
	} {
		resp := postJSON(t, app, "/users", attempt)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		var echoed dto.LoginRequest
		if err := json.NewDecoder(resp.Body).Decode(&echoed); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		resp.Body.Close()
		if echoed != attempt {
			t.Fatalf("expected submitted body echoed, got %+v", echoed)
		}
	}
}
