package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/taskforge/backend/domain"
)

// issueToken signs an HS256 JWT carrying the user id (sub) and session id
// (sid). Expiry mirrors the session TTL.
func (uc *UseCase) issueToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.UserID,
		"sid": session.ID,
		"iss": uc.cfg.Issuer,
		"iat": session.CreatedAt.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.cfg.Secret))
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Resolve validates a bearer token and returns the user and session ids it
// is bound to. The session must still exist in Redis and belong to the same
// user, otherwise the token is treated as expired.
func (uc *UseCase) Resolve(ctx context.Context, tokenString string) (userID, sessionID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(uc.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", domain.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sub == "" || sid == "" {
		return "", "", domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, sid)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", "", domain.ErrUnauthorized
		}
		return "", "", err
	}
	if session.UserID != sub || session.IsExpired(time.Now()) {
		return "", "", domain.ErrUnauthorized
	}

	return sub, sid, nil
}
