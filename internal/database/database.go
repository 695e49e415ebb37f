package database

import (
	"fmt"

	"appstore/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens a GORM connection for the configured driver.
// TranslateError is enabled so driver-level duplicate-key and foreign-key
// violations surface as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema and registers the explicit join model so the
// downloads table carries its composite primary key.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "DownloadedApps", &models.Download{}); err != nil {
		return fmt.Errorf("failed to set up downloads join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.App{}, "DownloadedByUsers", &models.Download{}); err != nil {
		return fmt.Errorf("failed to set up downloads join table: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.App{},
		&models.Report{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
