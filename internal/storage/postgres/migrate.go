package postgres

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending up migrations. An already up-to-date
// schema is not an error.
func RunMigrations(dsn string, migrationsPath string, log *slog.Logger) error {
	const op = "postgres.RunMigrations"
	// The migrate pgx/v5 driver registers the pgx5:// scheme.
	dsn = strings.Replace(dsn, "postgres://", "pgx5://", 1)
	migrator, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema is up to date", "op", op)
			return nil
		}
		return err
	}
	log.Info("database migrations applied", "op", op)
	return nil
}
