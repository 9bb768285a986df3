package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/db"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"gorm.io/gorm/clause"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite databases are built with AutoMigrate since
// the SQL files target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		ctx = logg.WithField(ctx, "env", cfg.App.Env)
		logg.Info(ctx, "running gorm AutoMigrate (dev auto-run, sqlite)")
		return AutoMigrate(ctx, client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	runner, err := NewRunner(sqlDB, DefaultDir, logg)
	if err != nil {
		return err
	}
	if err := runner.Run(ctx, "up"); err != nil {
		return err
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrate creates every table from the gorm models and seeds the order
// statuses with their conventional ids.
func AutoMigrate(ctx context.Context, client *db.Client) error {
	conn := client.DB().WithContext(ctx)
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for i, name := range enums.SeededOrderStatuses {
		status := models.Status{Base: models.Base{ID: uint(i + 1)}, Name: string(name), Message: string(name)}
		if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&status).Error; err != nil {
			return fmt.Errorf("seed status %s: %w", name, err)
		}
	}
	return nil
}
