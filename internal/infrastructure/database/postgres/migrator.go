package postgres

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/wattwise/HomeAudit-Intelligence/internal/config"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
)

// Migrate applies all pending schema migrations from the configured
// migration directory.  A database that is already up to date is not an
// error.
func Migrate(cfg config.DatabaseConfig, log logging.Logger) error {
	if log == nil {
		log = logging.NewNopLogger()
	}

	m, err := migrate.New("file://"+cfg.MigrationPath, cfg.DSN())
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to initialize migrator")
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil {
			log.Warn("migration source close failed", logging.Err(sourceErr))
		}
		if dbErr != nil {
			log.Warn("migration db close failed", logging.Err(dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema already up to date")
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "schema migration failed")
	}

	version, dirty, _ := m.Version()
	log.Info("database schema migrated",
		logging.Any("version", version),
		logging.Bool("dirty", dirty))
	return nil
}
