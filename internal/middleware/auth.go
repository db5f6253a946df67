package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
)

// Headers used to hand the resolved identity to downstream handlers.
const (
	HeaderUserID    = "X-User-ID"
	HeaderSessionID = "X-Session-ID"
)

// TokenResolver validates a bearer token and returns the user and session it
// is bound to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (userID, sessionID string, err error)
}

// Auth rejects requests without a valid bearer token and propagates the
// resolved user and session ids through request headers.
func Auth(resolver TokenResolver, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx, "missing bearer token")
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			userID, sessionID, err := resolver.Resolve(stdCtx, tokenString)
			if err != nil {
				logger.Warn("token rejected", zap.Error(err))
				reject(ctx, "invalid or expired token")
				return
			}

			ctx.Request.Header.Set(HeaderUserID, userID)
			ctx.Request.Header.Set(HeaderSessionID, sessionID)

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func reject(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
	ctx.SetBody(body)
}
