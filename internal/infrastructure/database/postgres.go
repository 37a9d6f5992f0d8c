package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-archive/pkg/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// NewPostgresDB opens the archive database using GORM and verifies the
// connection. The connect is retried with exponential backoff up to
// cfg.Database.ConnectAttempts times; queries issued later are never retried.
func NewPostgresDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// GORM's default logger writes to stdout, which the stdio transport owns
	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}
	gormLogger := logger.New(stdlog.New(os.Stderr, "\r\n", stdlog.LstdFlags), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	var db *gorm.DB
	connect := func() error {
		conn, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to get database object: %w", err))
		}

		// Connection pool settings
		sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
		sqlDB.SetConnMaxLifetime(time.Hour)

		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}

		db = conn
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	attempts := cfg.Database.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	}

	if err := backoff.RetryNotify(connect, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx), notify); err != nil {
		return nil, err
	}

	log.Info("database connected")
	return db, nil
}

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies the embedded SQL migrations and returns how many ran
func Migrate(db *gorm.DB, log *zap.Logger) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate up: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrationSource(), migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("migrations applied", zap.Int("count", n))
	return n, nil
}

// Rollback reverts up to steps applied migrations, newest first
func Rollback(db *gorm.DB, log *zap.Logger, steps int) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate down: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrationSource(), migrate.Down, steps)
	if err != nil {
		return 0, fmt.Errorf("failed to roll back migrations: %w", err)
	}

	log.Info("migrations rolled back", zap.Int("count", n))
	return n, nil
}

// AppliedMigrations lists the migrations recorded in the database
func AppliedMigrations(db *gorm.DB) ([]*migrate.MigrationRecord, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	return migrate.GetMigrationRecords(sqlDB, "postgres")
}

// Ping checks the connection
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("database is not open")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
