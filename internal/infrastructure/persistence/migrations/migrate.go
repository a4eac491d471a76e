// Package migrations provides database migration functionality
// using golang-migrate for schema versioning
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator handles database migrations
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a migrator over its own connection to databaseURL, so closing
// it leaves the application's pool alone
func New(databaseURL string, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		logger:  logger.Named("migrations"),
	}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	start := time.Now()
	m.logger.Info("Running database migrations")

	currentVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to run",
				zap.Uint("current_version", currentVersion),
			)
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := m.Version()

	m.logger.Info("Migrations completed successfully",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Down rolls back one migration
func (m *Migrator) Down() error {
	m.logger.Info("Rolling back one migration")

	if err := m.migrate.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	m.logger.Info("Migration rolled back successfully")
	return nil
}

// Version returns the current migration version
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Force sets a specific migration version
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version",
		zap.Int("version", version),
	)

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version: %w", err)
	}
	return nil
}

// Close closes the migrator
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()

	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}

	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}

	return nil
}

// MigrationStatus represents the status of migrations
type MigrationStatus struct {
	Version uint      `json:"version"`
	Dirty   bool      `json:"dirty"`
	Pending []Pending `json:"pending"`
}

// Pending represents a pending migration
type Pending struct {
	Version uint   `json:"version"`
	Name    string `json:"name"`
}

// Status returns the current version and the embedded migrations above it
func (m *Migrator) Status() (*MigrationStatus, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	available, err := Available()
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{Version: version, Dirty: dirty, Pending: []Pending{}}
	for _, p := range available {
		if p.Version > version {
			status.Pending = append(status.Pending, p)
		}
	}

	return status, nil
}

// Available lists the embedded up migrations in version order
func Available() ([]Pending, error) {
	entries, err := fs.ReadDir(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var out []Pending
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad migration file name %q: %w", name, err)
		}
		out = append(out, Pending{Version: uint(v), Name: strings.TrimSuffix(rest, ".up.sql")})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
