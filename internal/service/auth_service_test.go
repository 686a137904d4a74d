package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
)

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by id
	roleNames map[string]string       // role id -> name
	memberOf  map[string][]string     // user id -> role names
	nextID    int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     make(map[string]*domain.User),
		roleNames: make(map[string]string),
		memberOf:  make(map[string][]string),
	}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = "user-" + strconv.Itoa(r.nextID)
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) GetByUsernameOrEmail(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetRoles(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, r.memberOf[userID]...), nil
}

func (r *stubUserRepo) AddRole(_ context.Context, userID, roleID string) error {
	r.memberOf[userID] = append(r.memberOf[userID], r.roleNames[roleID])
	return nil
}

type stubRoleRepo struct {
	users *stubUserRepo
	roles map[string]*domain.Role // keyed by name
}

func newStubRoleRepo(users *stubUserRepo) *stubRoleRepo {
	return &stubRoleRepo{users: users, roles: make(map[string]*domain.Role)}
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) error {
	role.ID = "role-" + role.Name
	clone := *role
	r.roles[role.Name] = &clone
	r.users.roleNames[role.ID] = role.Name
	return nil
}

func (r *stubRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) Exists(_ context.Context, name string) (bool, error) {
	_, ok := r.roles[name]
	return ok, nil
}

type stubLimiter struct {
	allow    bool
	failures int
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string) bool { return l.allow }
func (l *stubLimiter) RecordFailure(context.Context, string) { l.failures++ }
func (l *stubLimiter) Reset(context.Context, string) { l.resets++ }

type authFixture struct {
	users   *stubUserRepo
	roles   *stubRoleRepo
	limiter *stubLimiter
	events  []events.Event
	svc     *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newStubUserRepo()
	roles := newStubRoleRepo(users)
	limiter := &stubLimiter{allow: true}
	dispatcher := events.NewInMemoryDispatcher()

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "bookstore",
		Audience:        "bookstore-clients",
		TokenTTLMinutes: 300,
		BcryptCost:      bcrypt.MinCost,
	}}
	fixture := &authFixture{users: users, roles: roles, limiter: limiter}
	for _, eventType := range []events.EventType{events.EventLoginSucceeded, events.EventLoginFailed, events.EventIdentityRegistered} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			fixture.events = append(fixture.events, event)
			return nil
		})
	}

	fixture.svc = NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		RoleRepo:   roles,
		Limiter:    limiter,
		Dispatcher: dispatcher,
	})
	return fixture
}

func (f *authFixture) seedUser(t *testing.T, username, email, password string, roleNames ...string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{Name: username, Username: username, Email: email, PasswordHash: hash}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	f.users.memberOf[user.ID] = roleNames
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "admin", "admin@example.com", "s3cret-pw", domain.RoleAdministrator)

	token, exp, err := f.svc.Login(context.Background(), "admin", "s3cret-pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" || exp.IsZero() {
		t.Fatalf("expected token and expiry")
	}

	claims, err := f.svc.TokenManager().Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("unexpected uid: %s", claims.UserID)
	}
	if claims.Subject != "admin@example.com" {
		t.Fatalf("unexpected sub: %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != domain.RoleAdministrator {
		t.Fatalf("expected exactly the Administrator role, got %v", claims.Roles)
	}
	if f.limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success")
	}
}

func TestAuthService_Login_ByEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "carol", "carol@example.com", "s3cret-pw", domain.RoleCustomer)

	if _, _, err := f.svc.Login(context.Background(), "carol@example.com", "s3cret-pw"); err != nil {
		t.Fatalf("Login by email returned error: %v", err)
	}
}

func TestAuthService_Login_FailuresIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "admin", "admin@example.com", "s3cret-pw", domain.RoleAdministrator)

	_, _, wrongPassword := f.svc.Login(context.Background(), "admin", "bad-pw")
	_, _, unknownUser := f.svc.Login(context.Background(), "nobody", "bad-pw")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("failure outcomes differ: %q vs %q", wrongPassword, unknownUser)
	}
	if f.limiter.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", f.limiter.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "admin", "admin@example.com", "s3cret-pw", domain.RoleAdministrator)
	f.limiter.allow = false

	if _, _, err := f.svc.Login(context.Background(), "admin", "s3cret-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for throttled login, got %v", err)
	}
}

func TestAuthService_Login_PublishesAuditEvents(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "admin", "admin@example.com", "s3cret-pw", domain.RoleAdministrator)

	_, _, _ = f.svc.Login(context.Background(), "admin", "bad-pw")
	_, _, _ = f.svc.Login(context.Background(), "admin", "s3cret-pw")

	var failed, succeeded bool
	for _, event := range f.events {
		switch event.Type {
		case events.EventLoginFailed:
			failed = true
			payload := event.Payload.(events.LoginPayload)
			if payload.Identifier != "admin" {
				t.Fatalf("unexpected identifier in payload: %s", payload.Identifier)
			}
		case events.EventLoginSucceeded:
			succeeded = true
		}
	}
	if !failed || !succeeded {
		t.Fatalf("expected both failure and success events, got %v", f.events)
	}
}

func TestAuthService_Register_AssignsCustomerRole(t *testing.T) {
	f := newAuthFixture(t)
	if err := f.roles.Create(context.Background(), &domain.Role{Name: domain.RoleCustomer}); err != nil {
		t.Fatalf("create role: %v", err)
	}

	user, err := f.svc.Register(context.Background(), "Bob", "bob", "bob@example.com", "longenough")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "longenough" {
		t.Fatalf("expected password to be hashed")
	}

	roles, _ := f.users.GetRoles(context.Background(), user.ID)
	if len(roles) != 1 || roles[0] != domain.RoleCustomer {
		t.Fatalf("expected Customer role, got %v", roles)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t)
	if err := f.roles.Create(context.Background(), &domain.Role{Name: domain.RoleCustomer}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	f.seedUser(t, "bob", "bob@example.com", "longenough")

	if _, err := f.svc.Register(context.Background(), "Bob", "bob", "other@example.com", "longenough"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
	if _, err := f.svc.Register(context.Background(), "Bob", "bob2", "bob@example.com", "longenough"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}
