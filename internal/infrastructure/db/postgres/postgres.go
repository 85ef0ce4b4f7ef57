package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a Postgres
// connection. The DSN carries the role: the session-scoped and service-role
// pools differ only in the user they connect as.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a gorm connection, verifies connectivity with a ping, and
// returns the handle. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return db, nil
}

// VerifyServiceRole probes the users table once with a minimal query to catch
// a misconfigured service-role connection at startup. Failures are logged,
// never returned; privileged entities surface their own errors on first use.
func VerifyServiceRole(ctx context.Context, db *gorm.DB, log zerolog.Logger) {
	var rows []map[string]any
	if err := db.WithContext(ctx).Table("users").Select("id").Limit(1).Find(&rows).Error; err != nil {
		log.Warn().Err(err).Msg("service role self-check failed")
		return
	}
	log.Debug().Msg("service role connection verified")
}
