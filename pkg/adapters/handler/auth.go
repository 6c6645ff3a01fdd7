package handler

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wadjakorntonsri/interne/pkg/adapters/session"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/logger"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type AuthHandler struct {
	users        ports.UserService
	tokens       *session.Tokens
	revoker      ports.TokenRevoker
	limiter      *loginLimiter
	isProduction bool
}

func NewAuthHandler(users ports.UserService, tokens *session.Tokens, revoker ports.TokenRevoker, limiter *loginLimiter, isProduction bool) *AuthHandler {
	return &AuthHandler{
		users:        users,
		tokens:       tokens,
		revoker:      revoker,
		limiter:      limiter,
		isProduction: isProduction,
	}
}

type loginRequest struct {
	InviteCode string `json:"invite_code"`
}

type loginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Login exchanges an invite code for a session token, set both as a
// cookie and in the body for API clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), req.InviteCode)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid invite code")
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	token, claims, err := h.tokens.Issue(user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Expires:  claims.ExpiresAt.Time,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login", zap.String("user_id", user.ID))
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}

// Logout revokes the presented token, if any, and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := tokenFromRequest(r); raw != "" {
		if claims, err := h.tokens.Parse(raw); err == nil {
			if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				handleError(w, r, err)
				return
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// loginLimiter hands out one token bucket per client address.
type loginLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	now      func() time.Time
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// maxVisitors bounds the bucket map. Idle buckets are evicted first; when
// none are idle, unknown keys are refused until one is.
const maxVisitors = 10000

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	return &loginLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (l *loginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		if len(l.visitors) >= maxVisitors {
			l.evictIdle(now)
			if len(l.visitors) >= maxVisitors {
				return false
			}
		}
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictIdle drops buckets that have been quiet long enough to refill
// completely, so forgetting them changes no caller's allowance.
func (l *loginLimiter) evictIdle(now time.Time) {
	if l.limit <= 0 {
		return
	}
	refill := time.Duration(float64(l.burst) / float64(l.limit) * float64(time.Second))
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) >= refill {
			delete(l.visitors, key)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
