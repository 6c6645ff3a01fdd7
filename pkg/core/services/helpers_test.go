package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/interne/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

var start = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	now         time.Time
	repo        *sqlite.SQLiteRepository
	entries     *EntryService
	collections *CollectionService
	users       *UserService
	tags        *TagService
	exports     *ExportService
}

func newEnv(t *testing.T) *fixture {
	t.Helper()
	e := &fixture{now: start}
	clk := clock.Func(func() time.Time { return e.now })

	repo, err := sqlite.NewSQLiteRepository("file:"+uuid.NewString()+"?mode=memory&cache=shared", sqlite.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	e.repo = repo
	e.entries = NewEntryService(repo, clk)
	e.collections = NewCollectionService(repo, clk)
	e.users = NewUserService(repo, clk)
	e.tags = NewTagService(repo)
	e.exports = NewExportService(repo, clk)
	return e
}

func (e *fixture) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), name, nil)
	require.NoError(t, err)
	return u
}

func (e *fixture) entry(t *testing.T, owner string, in domain.EntryInput) *domain.Entry {
	t.Helper()
	if in.URL == "" {
		in.URL = "https://example.com/" + uuid.NewString()
	}
	if in.Title == "" {
		in.Title = "Example"
	}
	if in.Duration == 0 {
		in.Duration = 3
	}
	if in.Interval == "" {
		in.Interval = "days"
	}
	created, err := e.entries.Create(context.Background(), owner, in)
	require.NoError(t, err)
	return created
}

func viewIDs(views []domain.EntryView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}
