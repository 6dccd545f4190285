package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5:// scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations
type Migrator struct {
	databaseURL string
	logger      zerolog.Logger
}

// NewMigrator creates a new migrator for the given pgx5:// database URL
func NewMigrator(databaseURL string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		databaseURL: databaseURL,
		logger:      logger,
	}
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	instance, err := migrate.NewWithSourceInstance("iofs", source, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise migrations: %w", err)
	}
	return instance, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	instance, err := m.open()
	if err != nil {
		return err
	}
	defer m.close(instance)

	if err := instance.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	m.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migrations applied")
	return nil
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	instance, err := m.open()
	if err != nil {
		return err
	}
	defer m.close(instance)

	if err := instance.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

func (m *Migrator) close(instance *migrate.Migrate) {
	srcErr, dbErr := instance.Close()
	if srcErr != nil {
		m.logger.Warn().Err(srcErr).Msg("Failed to close migration source")
	}
	if dbErr != nil {
		m.logger.Warn().Err(dbErr).Msg("Failed to close migration database")
	}
}
