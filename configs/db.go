package configs

import (
	"fmt"
	"strings"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store. Duplicate key errors are
// translated to gorm.ErrDuplicatedKey.
func Open(driver, source string, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(source)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(source))
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	gormLevel, evLevel := logger.Warn, zerolog.WarnLevel
	if log.GetLevel() <= zerolog.DebugLevel {
		gormLevel, evLevel = logger.Info, zerolog.DebugLevel
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.New(zerologWriter{log: log, level: evLevel}, logger.Config{LogLevel: gormLevel, IgnoreRecordNotFoundError: true}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// one writer at a time; sqlite serialises writes anyway
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteDSN turns foreign key enforcement on, which sqlite leaves off.
func sqliteDSN(source string) string {
	if strings.Contains(source, "_foreign_keys") || strings.Contains(source, "foreign_keys") {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + "_foreign_keys=on"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Dish{},
		&entity.CartItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Review{},
	)
}

type zerologWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w zerologWriter) Printf(format string, args ...any) {
	w.log.WithLevel(w.level).Str("component", "gorm").Msgf(format, args...)
}
