package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-service/internal/config"
	"pos-service/internal/repository/mysql"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DSN returns DATABASE_DSN when set, otherwise builds a MySQL DSN from the
// MYSQL_* parts.
func DSN(cfg config.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.Params,
	)
}

func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		dialector = gormmysql.Open(DSN(cfg))
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DATABASE_DSN is required for postgres")
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	return gdb, nil
}

// Migrate applies the SQL files under migrations/<driver> when cfg.Migrations
// is set and falls back to gorm AutoMigrate otherwise.
func Migrate(gdb *gorm.DB, cfg config.DBConfig) error {
	if !cfg.Migrations {
		return mysql.AutoMigrate(gdb)
	}

	m, err := migrate.New("file://migrations/"+cfg.Driver, MigrationURL(cfg))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	v, dirty, _ := m.Version()
	logrus.WithFields(logrus.Fields{"version": v, "dirty": dirty}).Info("migrations applied")
	return nil
}

// MigrationURL converts the connection settings into the URL form
// golang-migrate expects.
func MigrationURL(cfg config.DBConfig) string {
	dsn := DSN(cfg)
	if cfg.Driver != DriverMySQL {
		return dsn
	}
	if !strings.Contains(dsn, "multiStatements=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "multiStatements=true"
	}
	return "mysql://" + dsn
}
