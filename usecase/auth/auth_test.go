package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	saved := *user
	saved.ID = uuid.NewString()
	saved.CreatedAt = time.Now().UTC()
	r.users[saved.ID] = &saved
	copied := saved
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func newTestUseCase() (*UseCase, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	uc := New(users, sessions, nil, Config{
		Secret: "test-secret",
		Issuer: "taskforge-test",
		TTL:    time.Hour,
	}, nil)
	return uc, users, sessions
}

func TestRegister(t *testing.T) {
	uc, _, _ := newTestUseCase()

	user, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Error("registered user should have an id")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Error("password must not be stored in the clear")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	uc, _, _ := newTestUseCase()

	if _, err := uc.Register(context.Background(), "alice@example.com", "password-one"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := uc.Register(context.Background(), "alice@example.com", "password-two")
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("duplicate email should be CONFLICT, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _ := newTestUseCase()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"malformed email", "not-an-email", "long enough password"},
		{"empty email", "", "long enough password"},
		{"short password", "bob@example.com", "seven77"},
		{"oversized password", "bob@example.com", strings.Repeat("p", 73)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), tc.email, tc.password)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Errorf("want INVALID, got %v", err)
			}
		})
	}
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	uc, _, _ := newTestUseCase()

	user, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := uc.Login(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("login should return a token")
	}

	userID, sessionID, err := uc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if userID != user.ID {
		t.Errorf("resolved user = %s, want %s", userID, user.ID)
	}
	if sessionID == "" {
		t.Error("resolved session id should not be empty")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	uc, _, _ := newTestUseCase()

	if _, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPassword := uc.Login(context.Background(), "alice@example.com", "wrong password!!")
	_, unknownEmail := uc.Login(context.Background(), "nobody@example.com", "correct horse battery")

	if wrongPassword == nil || unknownEmail == nil {
		t.Fatal("both login failures should error")
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("wrong password (%v) and unknown email (%v) must read identically", wrongPassword, unknownEmail)
	}
	if !domain.IsDomainError(wrongPassword, domain.ErrCodeUnauthorized) {
		t.Errorf("login failure should be UNAUTHORIZED, got %v", wrongPassword)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	uc, _, _ := newTestUseCase()

	if _, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := uc.Login(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, sessionID, err := uc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve before logout: %v", err)
	}

	if err := uc.Logout(context.Background(), sessionID, userID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, _, err := uc.Resolve(context.Background(), token); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("token should be rejected after logout, got %v", err)
	}
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	uc, _, _ := newTestUseCase()

	if _, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := uc.Login(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, _, err := uc.Resolve(context.Background(), tampered); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("tampered token should be UNAUTHORIZED, got %v", err)
	}

	if _, _, err := uc.Resolve(context.Background(), "not-a-jwt"); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("garbage token should be UNAUTHORIZED, got %v", err)
	}
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	uc, _, sessions := newTestUseCase()

	user, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := uc.Login(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, sessionID, err := uc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Age the session past its expiry behind the token's back.
	stored, err := sessions.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("session Get: %v", err)
	}
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	if err := sessions.Save(context.Background(), stored); err != nil {
		t.Fatalf("session Save: %v", err)
	}

	if _, _, err := uc.Resolve(context.Background(), token); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("expired session should be UNAUTHORIZED, got %v", err)
	}
	_ = user
}

func TestCurrentUser(t *testing.T) {
	uc, _, _ := newTestUseCase()

	user, err := uc.Register(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := uc.CurrentUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("email = %q, want %q", got.Email, user.Email)
	}

	if _, err := uc.CurrentUser(context.Background(), "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("unknown user should be NOT_FOUND, got %v", err)
	}
}
