// Package graph provides read-only access to the course prerequisite graph. Neo4j is the
// primary backend; the static catalogue serves identical queries when Neo4j is absent or failing.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
)

var ErrCourseNotFound = errors.New("graph: course not found")

type SearchMode string

const (
	SearchExact SearchMode = "exact"
	SearchFuzzy SearchMode = "fuzzy"
)

// ParseSearchMode maps the request value onto a mode. Empty means fuzzy.
func ParseSearchMode(raw string) (SearchMode, error) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SearchFuzzy:
		return SearchFuzzy, nil
	case SearchExact:
		return SearchExact, nil
	default:
		return "", fmt.Errorf("graph: unknown search mode %q", raw)
	}
}

// Store is the read surface the learning engines and the HTTP layer depend on.
// Course lists are ordered by id and prerequisite ids ascend.
type Store interface {
	ListCourses(ctx context.Context) ([]catalog.Course, error)
	GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error)
	HasCourse(ctx context.Context, id int64) (bool, error)
	DirectPrerequisites(ctx context.Context, id int64) ([]int64, error)
	Search(ctx context.Context, keyword string, mode SearchMode) ([]catalog.Course, error)
	Stats(ctx context.Context) (catalog.Stats, error)
	Edges(ctx context.Context) ([]catalog.PrerequisiteEdge, error)
}

func matches(label, keyword string, mode SearchMode) bool {
	if mode == SearchExact {
		return label == keyword
	}
	return strings.Contains(label, keyword)
}
