package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_PairedUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(MigrationFiles, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.Equal(t, ups, downs)
}

func TestMigrationFiles_LedgerTableShape(t *testing.T) {
	data, err := fs.ReadFile(MigrationFiles, "001_create_webhook_events.up.sql")
	require.NoError(t, err)

	ddl := string(data)
	for _, want := range []string{
		"UNIQUE (event_key)",
		"attempt_count >= 1",
		"expires_at >= first_seen_at",
		"ON webhook_events (expires_at)",
	} {
		require.Contains(t, ddl, want)
	}
}
