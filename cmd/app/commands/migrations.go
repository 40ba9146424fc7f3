package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migrateDatabase "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/envkeys/internal/database"
)

// RunMigrations applies all pending migrations from migrationsDir/{postgresql,mysql}
// through the already opened db. Both PostgreSQL drivers share the postgresql
// migrations. Returns nil when there is nothing to apply.
func RunMigrations(logger *slog.Logger, db *sql.DB, driver, migrationsDir string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	dialect, err := database.Dialect(driver)
	if err != nil {
		return err
	}

	var instance migrateDatabase.Driver
	if dialect == database.DialectPostgreSQL {
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	} else {
		instance, err = mysql.WithInstance(db, &mysql.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Not closed: closing the migrate instance would close db, which the container owns.
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir+"/"+dialect, dialect, instance)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("migrations completed successfully",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}
