package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/db"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/platform/neo4jdb"
)

type Clients struct {
	Neo4j *neo4jdb.Client
	Redis redis.UniversalClient
	DB    *gorm.DB
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) Clients {
	log.Info("Wiring clients...")
	var out Clients

	// Neo4j
	if cfg.Neo4jEnabled() {
		client, err := neo4jdb.New(neo4jdb.Config{
			URI:         cfg.Neo4j.URI,
			User:        cfg.Neo4j.User,
			Password:    cfg.Neo4j.Password,
			Database:    cfg.Neo4j.Database,
			Timeout:     cfg.Neo4j.Timeout,
			MaxPoolSize: cfg.Neo4j.MaxPoolSize,
		}, log)
		if err != nil {
			log.Warn("Neo4j unavailable, serving the static catalogue", "error", err)
		} else {
			out.Neo4j = client
		}
	} else {
		log.Info("Neo4j not configured, serving the static catalogue")
	}

	// Redis
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable, catalogue cache disabled", "error", err)
			_ = rdb.Close()
		} else {
			out.Redis = rdb
		}
	}

	// Reference tables
	if cfg.Reference.Driver != "" {
		gdb, err := db.Open(cfg.Reference.Driver, cfg.Reference.DSN, log)
		if err != nil {
			log.Warn("Reference database unavailable, using embedded profiles", "error", err)
		} else if err := db.AutoMigrateAll(gdb); err != nil {
			log.Warn("Reference database migration failed, using embedded profiles", "error", err)
		} else {
			out.DB = gdb
		}
	}
	return out
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
