// Package snapshot loads and validates the static course catalogue: courses, PREREQUISITE
// edges and course profiles. The catalogue backs demo mode, tests and graph seeding.
package snapshot

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

var ErrInvalidSnapshot = errors.New("snapshot: invalid catalogue")

// Default returns the embedded catalogue. It is validated on every call.
func Default() (*catalog.Snapshot, error) {
	return Parse(embeddedCatalog)
}

func LoadFile(path string) (*catalog.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML (JSON is accepted too) and validates the result.
func Parse(raw []byte) (*catalog.Snapshot, error) {
	var snap catalog.Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if err := Validate(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Validate rejects duplicate or blank courses, dangling or self edges, cycles and malformed
// profiles. Every problem found is reported, joined, and wrapped in ErrInvalidSnapshot.
func Validate(snap *catalog.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	var problems []error

	ids := make(map[int64]struct{}, len(snap.Courses))
	labels := make(map[string]int64, len(snap.Courses))
	nodes := make([]int64, 0, len(snap.Courses))
	for _, c := range snap.Courses {
		if _, dup := ids[c.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate course id %d", c.ID))
			continue
		}
		ids[c.ID] = struct{}{}
		nodes = append(nodes, c.ID)
		label := strings.TrimSpace(c.Label)
		if label == "" {
			problems = append(problems, fmt.Errorf("course %d has empty label", c.ID))
		} else if other, dup := labels[label]; dup {
			problems = append(problems, fmt.Errorf("courses %d and %d share label %q", other, c.ID, label))
		} else {
			labels[label] = c.ID
		}
		if c.Credits < 0 || math.IsNaN(c.Credits) {
			problems = append(problems, fmt.Errorf("course %d has invalid credits %v", c.ID, c.Credits))
		}
	}

	problems = append(problems, ValidateEdges(ids, snap.Edges)...)

	if _, err := catalog.TopoSort(nodes, snap.Edges); err != nil {
		problems = append(problems, err)
	}

	seenProfile := map[int64]struct{}{}
	for _, p := range snap.Profiles {
		if _, ok := ids[p.CourseID]; !ok {
			problems = append(problems, fmt.Errorf("profile references unknown course %d", p.CourseID))
		}
		if _, dup := seenProfile[p.CourseID]; dup {
			problems = append(problems, fmt.Errorf("duplicate profile for course %d", p.CourseID))
		}
		seenProfile[p.CourseID] = struct{}{}
		if id, ok := labels[strings.TrimSpace(p.Label)]; p.Label != "" && (!ok || id != p.CourseID) {
			problems = append(problems, fmt.Errorf("profile label %q does not match course %d", p.Label, p.CourseID))
		}
		if err := ValidateIRT(p.IRT); err != nil {
			problems = append(problems, fmt.Errorf("course %d: %w", p.CourseID, err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(problems...))
}

// ValidateEdges reports edges that loop on themselves or reference unknown courses.
func ValidateEdges(ids map[int64]struct{}, edges []catalog.PrerequisiteEdge) []error {
	var problems []error
	for _, e := range edges {
		if e.From == e.To {
			problems = append(problems, fmt.Errorf("course %d lists itself as prerequisite", e.From))
			continue
		}
		if _, ok := ids[e.From]; !ok {
			problems = append(problems, fmt.Errorf("edge %d->%d: unknown prerequisite %d", e.From, e.To, e.From))
		}
		if _, ok := ids[e.To]; !ok {
			problems = append(problems, fmt.Errorf("edge %d->%d: unknown course %d", e.From, e.To, e.To))
		}
	}
	return problems
}

func ValidateIRT(p *catalog.IRTParams) error {
	if p == nil {
		return nil
	}
	if math.IsNaN(p.BaseDifficulty) || p.BaseDifficulty < -3 || p.BaseDifficulty > 3 {
		return fmt.Errorf("irt difficulty %v outside [-3,3]", p.BaseDifficulty)
	}
	if math.IsNaN(p.Discrimination) || p.Discrimination <= 0 {
		return fmt.Errorf("irt discrimination %v must be > 0", p.Discrimination)
	}
	return nil
}
