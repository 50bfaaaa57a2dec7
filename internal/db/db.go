package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	config "github.com/Keoroanthony/go-comic-rental/configs"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

// Open connects to the configured store and migrates the schema. The returned
// handle is passed explicitly to handlers; there is no package-level DB.
func Open(cfg config.DBConfig, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(&log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("database connected and migrated")
	return gdb, nil
}

// Migrate creates the four tables with their cascading foreign keys.
// Parents are listed first so constraints resolve on every dialect.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.Customer{},
		&models.ComicBook{},
		&models.Rental{},
		&models.RentalDetail{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenMemory opens a private in-memory SQLite store with foreign keys on.
// A single connection keeps the shared-cache database alive and serializes
// writers the way the production store does.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}
