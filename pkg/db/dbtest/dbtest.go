// Package dbtest opens throwaway sqlite databases migrated with every model.
package dbtest

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blazetaller/taller-backend/pkg/db/models"
)

// Open returns an isolated in-memory database with the full schema applied.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// SeedGroups inserts the named permission groups.
func SeedGroups(t testing.TB, conn *gorm.DB, names ...string) []models.Group {
	t.Helper()

	groups := make([]models.Group, 0, len(names))
	for _, name := range names {
		group := models.Group{ID: uuid.New(), Name: name}
		if err := conn.Create(&group).Error; err != nil {
			t.Fatalf("seed group %q: %v", name, err)
		}
		groups = append(groups, group)
	}
	return groups
}
