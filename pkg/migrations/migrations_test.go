package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
)

func newDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestBringUpToDate_SeedsRoles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newDB(t)

	_, err := BringUpToDate(ctx, db)
	require.NoError(t, err)

	var perms []string
	err = db.NewRaw(`
		SELECT r.name || '/' || p.resource || ':' || p.operation
		FROM permissions p JOIN roles r ON r.id = p.role_id
		ORDER BY r.name
	`).Scan(ctx, &perms)
	require.NoError(t, err)
	assert.Equal(t, []string{"librarian/bookinstances:mark_returned"}, perms)

	var patrons int
	err = db.NewRaw(`SELECT COUNT(*) FROM roles WHERE name = 'patron'`).Scan(ctx, &patrons)
	require.NoError(t, err)
	assert.Equal(t, 1, patrons)

	_, err = BringUpToDate(ctx, db)
	require.NoError(t, err, "a second run has nothing to apply")
}

func TestRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newDB(t)

	_, err := BringUpToDate(ctx, db)
	require.NoError(t, err)

	migrator := migrate.NewMigrator(db, Migrations)
	_, err = migrator.Rollback(ctx)
	require.NoError(t, err)

	var tables []string
	err = db.NewRaw(`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'books') ORDER BY name`).Scan(ctx, &tables)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
