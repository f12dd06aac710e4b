package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrations is a set of embedded golang-migrate files.
type Migrations struct {
	FS    fs.FS
	Dir   string
	Table string
}

// Up applies every pending migration and returns the resulting version.
// An already up-to-date schema is not an error.
func (m *Migrations) Up(conn *sql.DB) (uint, error) {
	src, err := iofs.New(m.FS, m.Dir)
	if err != nil {
		return 0, fmt.Errorf("migration source: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(conn, &pgxmigrate.Config{
		MigrationsTable: m.Table,
	})
	if err != nil {
		return 0, fmt.Errorf("migration driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return 0, fmt.Errorf("migration init: %w", err)
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
