package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// Dialect names a supported SQL backend
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type migration struct {
	name string
	sql  string
}

// loadMigrations returns the embedded schema files of a dialect in name order
func loadMigrations(dialect Dialect) ([]migration, error) {
	dir := path.Join("migrations", string(dialect))

	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s migrations: %w", dialect, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := fs.ReadFile(migrationFiles, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, migration{name: entry.Name(), sql: string(data)})
	}

	return migrations, nil
}

// DialectFromURL picks the backend for a DATABASE_URL value.
// sqlite://, file: and :memory: select SQLite, everything else PostgreSQL.
func DialectFromURL(dbURL string) Dialect {
	switch {
	case strings.HasPrefix(dbURL, "sqlite://"),
		strings.HasPrefix(dbURL, "file:"),
		dbURL == ":memory:":
		return DialectSQLite
	default:
		return DialectPostgres
	}
}

// SQLiteDSN strips the sqlite:// scheme from a DATABASE_URL value
func SQLiteDSN(dbURL string) string {
	return strings.TrimPrefix(dbURL, "sqlite://")
}
