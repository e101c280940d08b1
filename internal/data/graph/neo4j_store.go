package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/platform/neo4jdb"
)

const courseFields = `c.id AS id, c.label AS label, c.difficulty AS difficulty, c.credits AS credits, c.course_type AS course_type`

// Neo4jStore reads the (:Course)-[:PREREQUISITE]->(:Course) graph. Every call opens its own
// read session; the driver owns pooling.
type Neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger) (*Neo4jStore, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("graph: neo4j client required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Neo4jStore{client: client, log: log.With("store", "Neo4jStore")}, nil
}

func (s *Neo4jStore) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	recs, err := s.read(ctx, "ListCourses", `
MATCH (c:Course)
RETURN `+courseFields+`
ORDER BY c.id
`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Course, 0, len(recs))
	for _, rec := range recs {
		out = append(out, courseFromRecord(rec))
	}
	return out, nil
}

func (s *Neo4jStore) GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
	recs, err := s.read(ctx, "GetCourse", `
MATCH (c:Course {id: $id})
OPTIONAL MATCH (p:Course)-[:PREREQUISITE]->(c)
RETURN `+courseFields+`,
       c.description AS description,
       c.knowledge_points AS knowledge_points,
       collect(DISTINCT p.id) AS prerequisites
`, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrCourseNotFound
	}
	rec := recs[0]
	detail := &catalog.CourseDetail{
		Course:          courseFromRecord(rec),
		Prerequisites:   asInt64s(get(rec, "prerequisites")),
		KnowledgePoints: asStrings(get(rec, "knowledge_points")),
		Description:     asString(get(rec, "description")),
	}
	if detail.Description == "" {
		detail.Description = detail.Label
	}
	return detail, nil
}

func (s *Neo4jStore) HasCourse(ctx context.Context, id int64) (bool, error) {
	recs, err := s.read(ctx, "HasCourse", `MATCH (c:Course {id: $id}) RETURN count(c) AS n`, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return len(recs) > 0 && asInt64(get(recs[0], "n")) > 0, nil
}

func (s *Neo4jStore) DirectPrerequisites(ctx context.Context, id int64) ([]int64, error) {
	recs, err := s.read(ctx, "DirectPrerequisites", `
MATCH (p:Course)-[:PREREQUISITE]->(c:Course {id: $id})
RETURN DISTINCT p.id AS id
ORDER BY id
`, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(recs))
	for _, rec := range recs {
		out = append(out, asInt64(get(rec, "id")))
	}
	return out, nil
}

func (s *Neo4jStore) Search(ctx context.Context, keyword string, mode SearchMode) ([]catalog.Course, error) {
	where := "c.label CONTAINS $keyword"
	if mode == SearchExact {
		where = "c.label = $keyword"
	}
	recs, err := s.read(ctx, "Search", `
MATCH (c:Course)
WHERE `+where+`
RETURN `+courseFields+`
ORDER BY c.id
`, map[string]any{"keyword": keyword})
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Course, 0, len(recs))
	for _, rec := range recs {
		out = append(out, courseFromRecord(rec))
	}
	return out, nil
}

func (s *Neo4jStore) Stats(ctx context.Context) (catalog.Stats, error) {
	recs, err := s.read(ctx, "Stats", `
MATCH (c:Course)
WITH count(c) AS courses
OPTIONAL MATCH (:Course)-[r:PREREQUISITE]->(:Course)
RETURN courses, count(r) AS relationships
`, nil)
	if err != nil {
		return catalog.Stats{}, err
	}
	if len(recs) == 0 {
		return catalog.Stats{}, nil
	}
	return catalog.Stats{
		TotalCourses:       int(asInt64(get(recs[0], "courses"))),
		TotalRelationships: int(asInt64(get(recs[0], "relationships"))),
	}, nil
}

func (s *Neo4jStore) Edges(ctx context.Context) ([]catalog.PrerequisiteEdge, error) {
	recs, err := s.read(ctx, "Edges", `
MATCH (a:Course)-[:PREREQUISITE]->(b:Course)
RETURN a.id AS from, b.id AS to
ORDER BY from, to
`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.PrerequisiteEdge, 0, len(recs))
	for _, rec := range recs {
		out = append(out, catalog.PrerequisiteEdge{From: asInt64(get(rec, "from")), To: asInt64(get(rec, "to"))})
	}
	return out, nil
}

// Ping reports whether the server is reachable.
func (s *Neo4jStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *Neo4jStore) read(ctx context.Context, op, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.client.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.client.Timeout)
		defer cancel()
	}
	ctx, span := otel.Tracer("smartpath/graph").Start(ctx, "neo4j."+op)
	span.SetAttributes(attribute.String("db.system", "neo4j"), attribute.String("db.operation", op))
	defer span.End()

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Debug("neo4j read failed", "op", op, "error", err)
		return nil, fmt.Errorf("graph: neo4j %s: %w", op, err)
	}
	recs, _ := out.([]*neo4j.Record)
	return recs, nil
}

func courseFromRecord(rec *neo4j.Record) catalog.Course {
	return catalog.Course{
		ID:         asInt64(get(rec, "id")),
		Label:      asString(get(rec, "label")),
		Difficulty: catalog.Tier(asString(get(rec, "difficulty"))),
		Credits:    asFloat(get(rec, "credits")),
		CourseType: asString(get(rec, "course_type")),
	}
}

func get(rec *neo4j.Record, key string) any {
	if rec == nil {
		return nil
	}
	v, _ := rec.Get(key)
	return v
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		return 0
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asStrings(v any) []string {
	out := []string{}
	items, _ := v.([]any)
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asInt64s(v any) []int64 {
	out := []int64{}
	items, _ := v.([]any)
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, asInt64(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
