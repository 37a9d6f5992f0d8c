package database

import (
	"strings"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	migrations, err := source.FindMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	first := migrations[0]
	assert.Equal(t, "0001_init.sql", first.Id)
	assert.NotEmpty(t, first.Up)
	assert.NotEmpty(t, first.Down)

	up := strings.Join(first.Up, "\n")
	for _, table := range []string{"clients", "client_aliases", "meeting_series", "meetings", "client_context", "client_integrations"} {
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, up, "document_id              TEXT NOT NULL UNIQUE")
	assert.Contains(t, up, "USING GIN (search_vector)")
	assert.Contains(t, up, "UNIQUE (client_id, integration_type)")
}
