package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func field(t *testing.T, out, label string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	t.Fatalf("%q not found in %q", label, out)
	return ""
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(dir, "cli.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	out, err = run(t, "create-user", "Alice", "alice@example.com")
	require.NoError(t, err)
	userID := field(t, out, "ID:")
	assert.NotEmpty(t, field(t, out, "Invite code:"))

	dump := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(dump, []byte(`[
		{"url": "https://a.example", "title": "A", "duration": "2", "interval": "weeks", "visited": 1},
		{"url": "https://b.example", "title": "B", "duration": 1, "interval": "days"}
	]`), 0o600))

	out, err = run(t, "import", dump, userID)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 entries")

	out, err = run(t, "export", userID)
	require.NoError(t, err)
	var exported domain.Export
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Len(t, exported.Entries, 2)

	_, err = run(t, "export", "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, "import", dump, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, "create-user")
	assert.Error(t, err)
}
