package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var (
	migrationFileNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern         = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
)

var errEmptyMigration = errors.New("migration has no SQL statements")

type migration struct {
	version int
	name    string
	body    string
}

// migrator applies forward-only SQL files once each and records them in schema_migrations.
type migrator struct {
	database *gorm.DB
	files    fs.FS
}

func newMigrator(database *gorm.DB, files fs.FS) *migrator {
	return &migrator{database: database, files: files}
}

func (m *migrator) apply() error {
	if err := m.database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := m.load()
	if err != nil {
		return err
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return err
	}

	for _, next := range pending {
		if applied[strconv.Itoa(next.version)] {
			continue
		}
		if err := m.run(next); err != nil {
			return err
		}
	}
	return nil
}

func (m *migrator) load() ([]migration, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	loaded := make([]migration, 0, len(entries))
	owners := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFileNamePattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		if previous, exists := owners[version]; exists {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, previous, entry.Name())
		}
		owners[version] = entry.Name()

		body, err := fs.ReadFile(m.files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		loaded = append(loaded, migration{version: version, name: entry.Name(), body: string(body)})
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].version < loaded[j].version
	})
	return loaded, nil
}

func (m *migrator) appliedVersions() (map[string]bool, error) {
	versions := make([]string, 0)
	if err := m.database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

func (m *migrator) run(next migration) error {
	statements := splitStatements(next.body)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", next.name, errEmptyMigration)
	}

	return m.database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			exists, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", next.name, err)
			}
			if exists {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", next.name, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			strconv.Itoa(next.version),
			next.name,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", next.name, err)
		}
		return nil
	})
}

func splitStatements(body string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(body, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded lets ADD COLUMN statements be replayed against databases that
// already carry the column.
func columnAlreadyAdded(tx *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if len(matches) != 3 {
		return false, nil
	}
	table := unquoteIdentifier(matches[1])
	column := unquoteIdentifier(matches[2])

	names := make([]string, 0)
	query := fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, strings.ReplaceAll(table, "'", "''"))
	if err := tx.Raw(query).Scan(&names).Error; err != nil {
		return false, fmt.Errorf("load columns of %s: %w", table, err)
	}
	for _, name := range names {
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
