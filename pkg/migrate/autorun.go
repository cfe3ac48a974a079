package migrate

import (
	"context"
	"fmt"

	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled.
//
// The SQL migrations use Postgres-only DDL (enum types, regex CHECKs), so a
// sqlite-backed dev database is built from the models instead and seeded with
// the permission groups.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("sqlite automigrate: %w", err)
		}
		return SeedGroups(ctx, client, cfg.Provisioning.ExtraGroups...)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DialectFor(cfg.DB.Driver), DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// SeedGroups inserts the role groups plus any extra names, skipping existing rows.
func SeedGroups(ctx context.Context, client *db.Client, extra ...string) error {
	seen := map[string]struct{}{}
	rows := make([]models.Group, 0, len(extra)+4)
	for _, name := range append(enums.RequiredGroups(), extra...) {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, models.Group{ID: uuid.New(), Name: name})
	}
	err := client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}
	return nil
}
