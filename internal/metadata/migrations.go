package metadata

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration is a versioned schema change.
type Migration struct {
	Version int64
	Name    string
	Up      func(*sql.Tx) error
}

// Migrator applies pending migrations in version order.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// NewMigrator creates a migrator for db.
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// AddMigration registers a migration.
func (m *Migrator) AddMigration(migration Migration) {
	m.migrations = append(m.migrations, migration)
	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

// RunMigrations applies every migration newer than the recorded version.
func (m *Migrator) RunMigrations() error {
	if _, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	current, err := m.CurrentVersion()
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, migration := range m.migrations {
		if migration.Version <= current {
			continue
		}
		if err := m.run(migration); err != nil {
			return fmt.Errorf("run migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

// CurrentVersion returns the highest applied migration version.
func (m *Migrator) CurrentVersion() (int64, error) {
	var version int64
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func (m *Migrator) run(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := migration.Up(tx); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
		return err
	}

	return tx.Commit()
}

// migrations returns the schema history of the metadata database.
func migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_vm_metadata",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE vm_metadata (
						bundle_path TEXT PRIMARY KEY,
						name TEXT NOT NULL,
						cloned_from TEXT NOT NULL DEFAULT '',
						created_at DATETIME NOT NULL
					)
				`)
				return err
			},
		},
		{
			Version: 2,
			Name:    "index_vm_metadata_name",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`CREATE INDEX idx_vm_metadata_name ON vm_metadata(name)`)
				return err
			},
		},
	}
}
