package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

func TestUserService_CreateAndLogin(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	email := "  alice@example.com "
	u, err := env.users.Create(ctx, " Alice ", &email)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	require.NotNil(t, u.Email)
	assert.Equal(t, "alice@example.com", *u.Email)
	assert.NotEmpty(t, u.InviteCode)

	got, err := env.users.Login(ctx, "  "+u.InviteCode+"\n")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = env.users.Login(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.users.Login(ctx, "wrong")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.users.Create(ctx, "", nil)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Name is required", ve.Fields["name"])
}

const legacyDump = `[
  {"url": "https://a.example", "title": "A", "duration": "3", "interval": "weeks", "visited": 2,
   "createdAt": "2024-01-01T10:00:00Z", "updatedAt": "2024-01-02 10:00:00", "dismissedAt": "2025-03-09T12:00:00Z"},
  {"url": "https://b.example", "title": "B", "duration": 5, "interval": "fortnights", "visited": -4,
   "createdAt": "not a date", "dismissedAt": ""},
  {"url": "https://c.example", "title": "C", "duration": "0", "interval": "hours"}
]`

func TestUserService_ImportLegacy(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	alice := env.user(t, "Alice")

	n, err := env.users.ImportLegacy(ctx, alice.ID, strings.NewReader(legacyDump))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	exported, err := env.exports.Export(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, exported.Entries, 3)

	byURL := map[string]domain.ExportedEntry{}
	for _, e := range exported.Entries {
		byURL[e.URL] = e
	}

	a := byURL["https://a.example"]
	assert.Equal(t, int64(3), a.Duration)
	assert.Equal(t, domain.IntervalWeeks, a.Interval)
	require.NotNil(t, a.DismissedAt)
	assert.Equal(t, 2025, a.DismissedAt.Year())
	assert.Equal(t, 2024, a.CreatedAt.Year())
	count, err := env.repo.VisitCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	b := byURL["https://b.example"]
	assert.Equal(t, int64(5), b.Duration)
	assert.Equal(t, domain.IntervalDays, b.Interval)
	assert.Nil(t, b.DismissedAt)
	assert.True(t, env.now.Equal(b.CreatedAt))
	count, err = env.repo.VisitCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	c := byURL["https://c.example"]
	assert.Equal(t, int64(1), c.Duration)
	assert.Equal(t, domain.IntervalHours, c.Interval)
}

func TestUserService_ImportLegacyDurationBounds(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		want     int64
	}{
		{"huge string", `"30000000000000000"`, domain.MaxDuration},
		{"huge number", `30000000000000000`, domain.MaxDuration},
		{"beyond int64", `"99999999999999999999999"`, domain.MaxDuration},
		{"just above maximum", `1001`, domain.MaxDuration},
		{"maximum", `"1000"`, 1000},
		{"negative", `-7`, domain.MinDuration},
		{"below int64", `"-99999999999999999999999"`, domain.MinDuration},
		{"garbage", `"soon"`, domain.MinDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newEnv(t)
			alice := env.user(t, "Alice")

			dump := `[{"url": "https://a.example", "title": "A", "interval": "years", "duration": ` + tt.duration + `}]`
			_, err := env.users.ImportLegacy(ctx, alice.ID, strings.NewReader(dump))
			require.NoError(t, err)

			exported, err := env.exports.Export(ctx, alice.ID)
			require.NoError(t, err)
			require.Len(t, exported.Entries, 1)
			assert.Equal(t, tt.want, exported.Entries[0].Duration)

			_, err = env.entries.List(ctx, alice.ID, "all")
			require.NoError(t, err)
		})
	}
}

func TestUserService_ImportLegacyErrors(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	alice := env.user(t, "Alice")

	_, err := env.users.ImportLegacy(ctx, "nobody", strings.NewReader(legacyDump))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.users.ImportLegacy(ctx, alice.ID, strings.NewReader(`{"not": "a list"}`))
	assert.Error(t, err)

	_, err = env.users.ImportLegacy(ctx, alice.ID, strings.NewReader(`[{"url": "x", "duration": true}]`))
	assert.Error(t, err)

	views, err := env.entries.List(ctx, alice.ID, "all")
	require.NoError(t, err)
	assert.Empty(t, views)
}
