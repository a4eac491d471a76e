// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/migrations"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	connMaxIdleTime        = 5 * time.Minute
	slowQueryThreshold     = 200 * time.Millisecond
)

// ConnectionManager owns the pooled PostgreSQL connection
type ConnectionManager struct {
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewConnectionManager opens the database, sizes the pool and verifies the
// connection with a ping
func NewConnectionManager(ctx context.Context, cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	log = log.Named("postgres")

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:                 NewGORMLogger(log, cfg.Database.LogLevel),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen, maxIdle, lifetime := poolSettings(cfg.Database)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection manager initialized",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", maxIdle),
		zap.Duration("conn_max_lifetime", lifetime),
	)

	return &ConnectionManager{config: cfg, logger: log, db: db, sqlDB: sqlDB}, nil
}

func poolSettings(db config.DatabaseConfig) (int, int, time.Duration) {
	maxOpen, maxIdle, lifetime := defaultMaxOpenConns, defaultMaxIdleConns, defaultConnMaxLifetime
	if db.MaxOpenConns > 0 {
		maxOpen = db.MaxOpenConns
	}
	if db.MaxIdleConns > 0 {
		maxIdle = db.MaxIdleConns
	}
	if db.ConnMaxLifetime > 0 {
		lifetime = db.ConnMaxLifetime
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	return maxOpen, maxIdle, lifetime
}

// Migrate applies the embedded schema migrations
func (cm *ConnectionManager) Migrate() error {
	m, err := migrations.New(cm.config.GetMigrationURL(), cm.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			cm.logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

// GetDB returns the main database connection
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// SQLDB returns the pooled connection under gorm
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.sqlDB
}

// HealthCheck performs a health check on the database connection
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the pool
func (cm *ConnectionManager) Close() error {
	if cm.sqlDB == nil {
		return nil
	}
	if err := cm.sqlDB.Close(); err != nil {
		cm.logger.Error("Failed to close database", zap.Error(err))
		return err
	}
	return nil
}

// NewGORMLogger routes gorm's logging through zap
func NewGORMLogger(log *zap.Logger, level string) logger.Interface {
	return logger.New(
		&GORMLogWriter{logger: log},
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// GORMLogWriter implements GORM's Writer interface for query logging
type GORMLogWriter struct {
	logger *zap.Logger
}

// Printf implements the Writer interface
func (w *GORMLogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	case strings.Contains(msg, "error"), strings.Contains(msg, "ERROR"):
		w.logger.Error("GORM error", zap.String("message", msg))
	default:
		w.logger.Debug("GORM log", zap.String("message", msg))
	}
}
