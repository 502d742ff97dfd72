package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var up, down int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			up++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			down++
		}
	}
	require.Equal(t, up, down)
	require.GreaterOrEqual(t, up, 2)
}

func TestMigrationsHavePartialUniqueIndexes(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS, "migrations/000001_create_principals.up.sql")
	require.NoError(t, err)
	sql := string(b)

	require.Contains(t, sql, "idx_users_email ON users (email) WHERE deleted_at IS NULL")
	require.Contains(t, sql, "idx_admins_email ON admins (email) WHERE deleted_at IS NULL")
}
