package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/rasyarzq/kasirpos-backend/pkg/auth"
	"github.com/rasyarzq/kasirpos-backend/pkg/config"
	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "kasirpos-test",
	ExpirationMinutes: 15,
	SessionTTLMinutes: 60,
}

// Light parameters keep the argon2 hashing fast in tests.
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	byEmail    map[string]*models.User
	lastLogins map[int64]time.Time
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *user
	return &cpy, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	if s.lastLogins == nil {
		s.lastLogins = map[int64]time.Time{}
	}
	s.lastLogins[id] = at
	return nil
}

type stubSessionManager struct {
	created map[string]int64
	revoked []string
}

func (s *stubSessionManager) Create(_ context.Context, accessID string, userID int64) error {
	if s.created == nil {
		s.created = map[string]int64{}
	}
	s.created[accessID] = userID
	return nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestUser(t *testing.T, id int64, email, password string, active bool) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           id,
		Name:         "Kasir Satu",
		Email:        email,
		PasswordHash: hash,
		IsActive:     active,
	}
}

func newTestService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	user := newTestUser(t, 7, "kasir@example.com", "rahasia123", true)
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Kasir@Example.com ",
		Password: "rahasia123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User == nil || resp.User.ID != 7 {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("unexpected token subject: %d", claims.UserID)
	}
	if got := sessions.created[claims.ID]; got != 7 {
		t.Fatalf("expected session for jti %q, got %v", claims.ID, sessions.created)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := newTestUser(t, 7, "kasir@example.com", "rahasia123", true)
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "kasir@example.com",
		Password: "salah",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "tidakada@example.com",
		Password: "apapun",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveOperator(t *testing.T) {
	user := newTestUser(t, 7, "kasir@example.com", "rahasia123", false)
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "kasir@example.com",
		Password: "rahasia123",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	if err := svc.Logout(context.Background(), "jti-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-123" {
		t.Fatalf("expected jti-123 revoked, got %v", sessions.revoked)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{})

	err := svc.Logout(context.Background(), "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
