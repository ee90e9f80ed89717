// Package bootstrap wires the process-level dependencies shared by the
// server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo data.
	SeedDemo bool
}

// InitRuntime connects to the database and Redis and optionally seeds demo data.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if opts.SeedDemo {
		if err := seedIfEmpty(context.Background(), cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}

// seedIfEmpty seeds only development databases that have no users yet.
func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		middleware.Logger.Warn("demo seeding skipped in production")
		return nil
	}

	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("demo seeding skipped, database not empty", slog.Int64("users", users))
		return nil
	}

	_, err := seed.NewSeeder(db, seed.Options{
		Users:    20,
		Posts:    120,
		Comments: 200,
		Follows:  60,
	}).Run(ctx)
	return err
}
