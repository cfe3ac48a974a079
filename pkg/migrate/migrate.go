package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DefaultDir = "pkg/migrate/migrations"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// versionLayoutLen is the length of a YYYYMMDDHHMMSS migration version.
const versionLayoutLen = 14

// DialectFor maps a configured DB driver name onto the goose dialect.
func DialectFor(driver string) string {
	switch driver {
	case "sqlite", "sqlite3":
		return DialectSQLite
	default:
		return DialectPostgres
	}
}

func prepare(db *sql.DB, dialect, dir string) error {
	switch {
	case db == nil:
		return errors.New("migrate: nil database")
	case dir == "":
		return errors.New("migrate: migrations dir is required")
	}
	if dialect == "" {
		dialect = DialectPostgres
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %q: %w", dialect, err)
	}
	return nil
}

// Run executes a goose command (up, down, status, ...) against db. Status
// output goes to stdout.
func Run(ctx context.Context, db *sql.DB, dialect, dir, command string, args ...string) error {
	if err := prepare(db, dialect, dir); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// ParseVersion validates a YYYYMMDDHHMMSS version string.
func ParseVersion(raw string) (int64, error) {
	if len(raw) != versionLayoutLen {
		return 0, fmt.Errorf("version %q must be %d digits (YYYYMMDDHHMMSS)", raw, versionLayoutLen)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("version %q must be numeric (YYYYMMDDHHMMSS)", raw)
	}
	return version, nil
}

// MigrateToVersion moves the schema up or down until it sits at version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir, version string) error {
	target, err := ParseVersion(version)
	if err != nil {
		return err
	}
	if err := prepare(db, dialect, dir); err != nil {
		return err
	}
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("current schema version: %w", err)
	}

	step, apply := "up-to", goose.UpToContext
	switch {
	case current == target:
		return nil
	case current > target:
		step, apply = "down-to", goose.DownToContext
	}
	if err := apply(ctx, db, dir, target); err != nil {
		return fmt.Errorf("goose %s %d: %w", step, target, err)
	}
	return nil
}
