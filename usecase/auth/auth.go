package auth

import (
	"context"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

const (
	minPasswordLen = 8
	// bcrypt only reads the first 72 bytes of input; longer passwords are
	// rejected instead of silently truncated.
	maxPasswordBytes = 72
)

// Config carries the token-signing settings.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// UseCase implements registration, login, logout, and bearer-token
// resolution. Tokens are HS256 JWTs bound to a Redis-cached session, so
// logout revokes a token before its expiry.
type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	audit    usecase.AuditRecorder
	cfg      Config
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, audit usecase.AuditRecorder, cfg Config, logger *zap.Logger) *UseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		audit:    audit,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register creates a new account. Fails with a conflict when the email is
// already registered and a validation error on malformed email or a password
// outside 8..72 characters.
func (uc *UseCase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "email is not valid")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at most 72 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	uc.recordAuth(ctx, usecase.ActionRegister, user.ID)
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are deliberately indistinguishable.
func (uc *UseCase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.TTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", err
	}

	token, err := uc.issueToken(session)
	if err != nil {
		return "", err
	}

	uc.recordAuth(ctx, usecase.ActionLogin, user.ID)
	return token, nil
}

// Logout revokes the session behind a bearer token.
func (uc *UseCase) Logout(ctx context.Context, sessionID, userID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.recordAuth(ctx, usecase.ActionLogout, userID)
	return nil
}

// CurrentUser returns the account behind an authenticated user id.
func (uc *UseCase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) recordAuth(ctx context.Context, action, userID string) {
	if uc.audit == nil {
		return
	}
	uc.audit.RecordAuth(ctx, action, userID)
}
