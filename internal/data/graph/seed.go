package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/platform/neo4jdb"
)

type SeedOptions struct {
	// Reset removes every existing :Course node before loading.
	Reset bool
}

// Seed writes the catalogue's courses and PREREQUISITE edges into Neo4j and returns the counts
// read back afterwards.
func Seed(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, snap *catalog.Snapshot, opts SeedOptions) (catalog.Stats, error) {
	if client == nil || client.Driver == nil {
		return catalog.Stats{}, fmt.Errorf("graph seed: neo4j client required")
	}
	if snap == nil {
		return catalog.Stats{}, fmt.Errorf("graph seed: snapshot required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	nodes := make([]map[string]any, 0, len(snap.Courses))
	for _, c := range snap.Courses {
		nodes = append(nodes, map[string]any{
			"id":          c.ID,
			"label":       c.Label,
			"difficulty":  string(c.Difficulty),
			"credits":     c.Credits,
			"course_type": c.CourseType,
		})
	}
	rels := make([]map[string]any, 0, len(snap.Edges))
	for _, e := range snap.Edges {
		rels = append(rels, map[string]any{"from": e.From, "to": e.To})
	}

	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	// Schema helpers are best-effort; restricted users may not be allowed to create them.
	if res, err := session.Run(ctx, `CREATE CONSTRAINT course_id_unique IF NOT EXISTS FOR (c:Course) REQUIRE c.id IS UNIQUE`, nil); err != nil {
		log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if opts.Reset {
			res, err := tx.Run(ctx, `MATCH (c:Course) DETACH DELETE c`, nil)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		if len(nodes) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:Course {id: n.id})
SET c += n
`, map[string]any{"nodes": nodes})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		if len(rels) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Course {id: r.from})
MATCH (b:Course {id: r.to})
MERGE (a)-[:PREREQUISITE]->(b)
`, map[string]any{"rels": rels})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("graph seed: write: %w", err)
	}

	store, err := NewNeo4jStore(client, log)
	if err != nil {
		return catalog.Stats{}, err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("graph seed: verify: %w", err)
	}
	log.Info("neo4j graph seeded", "courses", stats.TotalCourses, "relationships", stats.TotalRelationships)
	return stats, nil
}
