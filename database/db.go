package database

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/surafel-47/blog-mmcy/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultCategories are created on first start when the table is empty.
var DefaultCategories = []models.Category{
	{Name: "Technology", Description: "Software, hardware and the web"},
	{Name: "Lifestyle", Description: "Everyday life and wellbeing"},
	{Name: "Travel", Description: "Places, trips and guides"},
	{Name: "Food", Description: "Recipes and restaurants"},
	{Name: "Business", Description: "Work, money and markets"},
}

// ConnectDB opens a connection for driver using dsn. SQLite is limited to a
// single open connection so concurrent writers queue instead of failing
// with "database is locked".
func ConnectDB(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	slog.Info("database connection established", "driver", driver)
	return db, nil
}

func ProcessMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Favorite{},
		&models.HistoryEntry{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	slog.Info("database migrations complete")
	return nil
}

// SeedDefaults creates the viewer and editor roles and, when no category
// exists yet, the default categories. It is safe to call on every start.
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	roles := []models.Role{
		{Name: models.RoleViewer, Description: "Can read posts and leave comments"},
		{Name: models.RoleEditor, Description: "Can also write posts and read audit logs"},
	}
	for i := range roles {
		if err := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&roles[i]).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roles[i].Name, err)
		}
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	categories := make([]models.Category, len(DefaultCategories))
	copy(categories, DefaultCategories)
	if err := db.WithContext(ctx).Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
