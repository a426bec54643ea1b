package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const migrationsTable = "schema_migrations"

// Migration is one "<version>_<name>.up.sql" file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator applies pending up migrations from a directory in version order.
type Migrator struct {
	client *Client
	dir    string
}

// NewMigrator creates a migrator reading from dir.
func NewMigrator(client *Client, dir string) *Migrator {
	return &Migrator{client: client, dir: dir}
}

// LoadMigrations reads the up migrations sorted by version. Files without a
// numeric prefix are skipped.
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory %s: %w", m.dir, err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", name, err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Up applies every migration not yet recorded and returns how many ran. Each
// migration runs in its own transaction together with its bookkeeping row.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	db := m.client.DB()

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
    version INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return 0, fmt.Errorf("create %s table: %w", migrationsTable, err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	migrations, err := m.LoadMigrations()
	if err != nil {
		return 0, err
	}

	dialect := goqu.Dialect("postgres")
	count := 0
	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}

		insert, _, err := dialect.Insert(migrationsTable).
			Rows(goqu.Record{"version": mig.Version, "name": mig.Name}).
			ToSQL()
		if err != nil {
			return count, fmt.Errorf("build migration record for %s: %w", mig.Name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return count, fmt.Errorf("begin migration %s: %w", mig.Name, err)
		}
		if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
			tx.Rollback()
			return count, fmt.Errorf("apply migration %s: %w", mig.Name, err)
		}
		if _, err := tx.ExecContext(ctx, insert); err != nil {
			tx.Rollback()
			return count, fmt.Errorf("record migration %s: %w", mig.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return count, fmt.Errorf("commit migration %s: %w", mig.Name, err)
		}
		count++
	}
	return count, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	query, _, err := goqu.Dialect("postgres").From(migrationsTable).Select("version").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build applied versions query: %w", err)
	}

	rows, err := m.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query applied versions: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
