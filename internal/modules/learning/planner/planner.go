// Package planner turns the prerequisite chains of a target course into one study order.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/pathfind"
)

// DefaultMaxDepth bounds the chains considered when planning.
const DefaultMaxDepth = 5

var ErrCyclicPrerequisites = errors.New("planner: prerequisites form a cycle")

type Planner struct {
	src      pathfind.Source
	finder   *pathfind.Finder
	maxDepth int
}

// New builds a planner over src. maxDepth <= 0 selects DefaultMaxDepth.
func New(src pathfind.Source, maxDepth int) *Planner {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Planner{src: src, finder: pathfind.New(src), maxDepth: maxDepth}
}

func (p *Planner) MaxDepth() int { return p.maxDepth }

// Plan returns the courses to study before target, each after its own prerequisites, with
// target last. Completed courses are left out; courses that become ready together go in
// ascending id order. Course existence is the caller's concern.
func (p *Planner) Plan(ctx context.Context, target int64, completed []int64) ([]int64, error) {
	paths, err := p.finder.FindPaths(ctx, target, p.maxDepth)
	if err != nil {
		return nil, err
	}
	done := catalog.IDSet(completed)
	remaining := map[int64]struct{}{}
	for _, path := range paths {
		for _, id := range path {
			if id == target {
				continue
			}
			if _, ok := done[id]; ok {
				continue
			}
			remaining[id] = struct{}{}
		}
	}
	if len(remaining) == 0 {
		return []int64{target}, nil
	}

	nodes := catalog.SortedIDs(remaining)
	var edges []catalog.PrerequisiteEdge
	for _, id := range nodes {
		prereqs, err := p.src.DirectPrerequisites(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, pre := range prereqs {
			if _, ok := remaining[pre]; ok {
				edges = append(edges, catalog.PrerequisiteEdge{From: pre, To: id})
			}
		}
	}

	order, err := catalog.TopoSort(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCyclicPrerequisites, err)
	}
	return append(order, target), nil
}

// PrerequisitesMet reports whether every id in prereqs is completed, listing the missing ones
// in the order given.
func PrerequisitesMet(prereqs []int64, completed map[int64]struct{}) (bool, []int64) {
	missing := []int64{}
	for _, id := range prereqs {
		if _, ok := completed[id]; !ok {
			missing = append(missing, id)
		}
	}
	return len(missing) == 0, missing
}
