package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lorenamitrea/LocalLibrary/pkg/config"
	"github.com/lorenamitrea/LocalLibrary/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InMemory(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseDebug = true
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx := WithLogging(context.Background())
	_, err = migrations.BringUpToDate(ctx, db)
	require.NoError(t, err)

	var roles int
	err = db.NewRaw("SELECT COUNT(*) FROM roles").Scan(ctx, &roles)
	require.NoError(t, err)
	assert.Equal(t, 2, roles)
}

func TestNew_EnforcesForeignKeys(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "library.db")
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = migrations.BringUpToDate(ctx, db)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO books (title, isbn, author_id, language_id) VALUES ('Orphan', '9780306406157', 999, 999)")
	assert.Error(t, err)

	var mode string
	err = db.NewRaw("PRAGMA journal_mode").Scan(ctx, &mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}
