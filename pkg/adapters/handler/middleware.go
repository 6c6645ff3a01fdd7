package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/interne/pkg/adapters/session"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/logger"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

const authCookie = "auth_token"

type ctxKey string

const userKey ctxKey = "user"

// UserFromContext returns the user resolved by AuthMiddleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

func actorID(r *http.Request) string {
	if u, ok := UserFromContext(r.Context()); ok {
		return u.ID
	}
	return ""
}

type Middleware struct {
	tokens  *session.Tokens
	revoker ports.TokenRevoker
	users   ports.UserService
}

func NewMiddleware(tokens *session.Tokens, revoker ports.TokenRevoker, users ports.UserService) *Middleware {
	return &Middleware{tokens: tokens, revoker: revoker, users: users}
}

// AuthMiddleware accepts a session token from the auth_token cookie or a
// Bearer header, rejects revoked tokens and loads the user.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := m.tokens.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if revoked {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := m.users.Get(r.Context(), claims.Subject)
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err != nil {
			handleError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(authCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequestLogger writes one access log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
