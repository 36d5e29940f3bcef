package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"userboard/pkg/logger"
)

// Константы для сообщений миграций.
const (
	LogMigrationsApplied   = "schema migrations applied"
	LogMigrationsNoChange  = "schema is up to date"
	ErrOpenMigrations      = "failed to open migration source"
	ErrApplyMigrations     = "failed to apply migrations"
	LogCloseMigrationsFail = "failed to close migration instance"
)

// MigrateDSN применяет все невыполненные миграции из migrationsPath к базе dsn.
// Отсутствие новых миграций не считается ошибкой.
func MigrateDSN(ctx context.Context, dsn string, migrationsPath string) error {
	log := logger.Log(ctx).With(zap.String("path", migrationsPath))

	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		log.Error(ctx, ErrOpenMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrOpenMigrations, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn(ctx, LogCloseMigrationsFail, zap.Error(srcErr))
		}
		if dbErr != nil {
			log.Warn(ctx, LogCloseMigrationsFail, zap.Error(dbErr))
		}
	}()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info(ctx, LogMigrationsNoChange)
	case err != nil:
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	default:
		log.Info(ctx, LogMigrationsApplied)
	}
	return nil
}
