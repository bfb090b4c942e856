package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm handle backing the SQL job repository.
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// New connects to postgres with the pool settings from cfg.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, config: cfg}, nil
}

// NewSQLite opens a file-backed sqlite database for single-node deployments.
// sqlite allows one writer, so the pool is pinned to a single connection.
func NewSQLite(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{
		DB:     db,
		config: &config.DatabaseConfig{MaxConnections: 1, MaxIdleConns: 1},
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(&models.Job{})
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_queue_jobs_finished ON queue_jobs(queue, state, finished_at)",
		"CREATE INDEX IF NOT EXISTS idx_queue_jobs_created ON queue_jobs(queue, created_at)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("failed to create index", slog.String("query", query), slog.String("error", err.Error()))
		}
	}

	return nil
}

// Initialize connects to postgres and prepares the schema, preferring SQL
// migrations and falling back to gorm AutoMigrate.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	migrationDB, err := OpenMigrationDB(cfg.Database.URL())
	if err != nil {
		return nil, err
	}
	defer migrationDB.Close()

	if err := RunMigrationsIfEnabled(ctx, migrationDB, cfg.Database.AutoMigrate); err != nil {
		slog.Warn("migration runner failed, falling back to AutoMigrate", slog.String("error", err.Error()))

		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("failed to create some indexes", slog.String("error", err.Error()))
	}

	slog.Info("database initialized")

	return db, nil
}

// InitializeSQLite opens the sqlite queue store and auto-migrates it.
func InitializeSQLite(path string) (*DB, error) {
	db, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("failed to create some indexes", slog.String("error", err.Error()))
	}

	return db, nil
}
