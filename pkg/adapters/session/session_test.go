package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/interne/pkg/core/clock"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour, clock.Fixed(now))

	raw, claims, err := tokens.Issue("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, now.Add(time.Hour).Equal(claims.ExpiresAt.Time))

	parsed, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, "user-1", parsed.Subject)
}

func TestTokens_ParseRejects(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour, clock.Fixed(now))
	raw, _, err := tokens.Issue("user-1")
	require.NoError(t, err)

	later := NewTokens("test-secret", time.Hour, clock.Fixed(now.Add(2*time.Hour)))
	other := NewTokens("other-secret", time.Hour, clock.Fixed(now))

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		tokens *Tokens
		raw    string
	}{
		{"garbage", tokens, "not-a-token"},
		{"expired", later, raw},
		{"wrong secret", other, raw},
		{"missing token id", tokens, noID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tokens.Parse(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	current := now
	r := NewMemoryRevoker(clock.Func(func() time.Time { return current }))

	require.NoError(t, r.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, r.Revoke(ctx, "stale", now.Add(-time.Minute)))

	revoked, err := r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	current = now.Add(time.Hour)
	revoked, err = r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := DialRedis(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	r := NewRedisRevoker(client, clock.Fixed(now))
	require.NoError(t, r.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, r.Revoke(ctx, "stale", now.Add(-time.Minute)))

	assert.True(t, mr.Exists("revoked:a"))
	assert.Equal(t, time.Hour, mr.TTL("revoked:a"))
	assert.False(t, mr.Exists("revoked:stale"))

	revoked, err := r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Hour)
	revoked, err = r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDialRedis_BadURL(t *testing.T) {
	_, err := DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
