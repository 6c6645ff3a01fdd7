package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/interne/pkg/adapters/session"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

type stubUsers struct {
	users map[string]*domain.User
}

func (s stubUsers) Login(_ context.Context, code string) (*domain.User, error) {
	for _, u := range s.users {
		if u.InviteCode == code {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s stubUsers) Get(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s stubUsers) Create(context.Context, string, *string) (*domain.User, error) {
	return nil, nil
}

func (s stubUsers) ImportLegacy(context.Context, string, io.Reader) (int, error) {
	return 0, nil
}

func TestAuthMiddleware(t *testing.T) {
	now := time.Now().UTC()
	tokens := session.NewTokens("testservlet", time.Hour, clock.Fixed(now))
	revoker := session.NewMemoryRevoker(clock.Fixed(now))
	users := stubUsers{users: map[string]*domain.User{"u1": {ID: "u1", Name: "Alice"}}}
	mw := NewMiddleware(tokens, revoker, users)

	valid, _, err := tokens.Issue("u1")
	require.NoError(t, err)
	revoked, claims, err := tokens.Issue("u1")
	require.NoError(t, err)
	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
	ghost, _, err := tokens.Issue("deleted-user")
	require.NoError(t, err)

	tests := []struct {
		name           string
		cookieValue    string
		bearer         string
		expectedStatus int
	}{
		{name: "No Token", expectedStatus: http.StatusUnauthorized},
		{name: "Invalid Cookie", cookieValue: "invalid", expectedStatus: http.StatusUnauthorized},
		{name: "Foreign Signature", cookieValue: generateTestToken(t, "other"), expectedStatus: http.StatusUnauthorized},
		{name: "Valid Cookie", cookieValue: valid, expectedStatus: http.StatusOK},
		{name: "Valid Bearer", bearer: valid, expectedStatus: http.StatusOK},
		{name: "Revoked Token", cookieValue: revoked, expectedStatus: http.StatusUnauthorized},
		{name: "Unknown User", cookieValue: ghost, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/entries", nil)
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: authCookie, Value: tt.cookieValue})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			rr := httptest.NewRecorder()
			handler := mw.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := UserFromContext(r.Context())
				if !ok || u.ID != "u1" {
					w.WriteHeader(http.StatusTeapot)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
			}
		})
	}
}

func generateTestToken(t *testing.T, secret string) string {
	claims := &jwt.RegisteredClaims{
		ID:        "test",
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func TestLoginLimiter(t *testing.T) {
	l := newLoginLimiter(1, 2)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLoginLimiter_Eviction(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l := newLoginLimiter(60, 2) // one token per second, refilled after 2s
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("spent"))
	assert.True(t, l.Allow("spent"))
	assert.False(t, l.Allow("spent"))
	for i := 1; i < maxVisitors; i++ {
		l.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Len(t, l.visitors, maxVisitors)

	// Full and nothing idle: newcomers wait, existing budgets are untouched.
	assert.False(t, l.Allow("newcomer"))
	assert.False(t, l.Allow("spent"))
	assert.Len(t, l.visitors, maxVisitors)

	now = now.Add(3 * time.Second)
	assert.True(t, l.Allow("spent"))
	assert.True(t, l.Allow("newcomer"))
	assert.Len(t, l.visitors, 2)
	assert.Contains(t, l.visitors, "spent")
}

func TestTagList(t *testing.T) {
	var req entryRequest
	require.NoError(t, jsonUnmarshal(`{"tags": "Go, sql,,go"}`, &req))
	assert.Equal(t, tagList{"go", "sql"}, req.Tags)

	require.NoError(t, jsonUnmarshal(`{"tags": ["Go", "sql"]}`, &req))
	assert.Equal(t, tagList{"Go", "sql"}, req.Tags)

	assert.Error(t, jsonUnmarshal(`{"tags": 3}`, &req))
}
