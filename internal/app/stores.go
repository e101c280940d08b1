package app

import (
	"context"

	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

type Stores struct {
	Store    graph.Store
	Fallback *graph.FallbackStore
	// Ping checks the primary store; nil when only the catalogue is available.
	Ping func(context.Context) error
}

// wireStores layers the graph stores: Neo4j (validated at startup) behind a circuit breaker
// that falls back to the catalogue, optionally fronted by the Redis cache.
func wireStores(ctx context.Context, log *logger.Logger, cfg *config.Config, clients Clients, snap *catalog.Snapshot) Stores {
	log.Info("Wiring stores...")
	var out Stores

	var primary graph.Store
	if clients.Neo4j != nil {
		neo, err := graph.NewNeo4jStore(clients.Neo4j, log)
		if err != nil {
			log.Error("Neo4j store init failed", "error", err)
		} else {
			out.Ping = neo.Ping
			if err := graph.Validate(ctx, neo); err != nil {
				log.Error("Neo4j prerequisite graph is invalid, serving the static catalogue", "error", err)
			} else {
				primary = neo
			}
		}
	}

	out.Fallback = graph.NewFallbackStore(primary, graph.NewSnapshotStore(snap), graph.BreakerSettings{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Timeout:          cfg.Breaker.Timeout,
		Interval:         cfg.Breaker.Interval,
	}, log)
	out.Store = out.Fallback

	if clients.Redis != nil {
		out.Store = graph.NewCachedStore(out.Fallback, clients.Redis, cfg.Redis.CacheTTL, cfg.Redis.KeyPrefix, log)
	}
	return out
}
