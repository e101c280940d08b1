// Package pathfind enumerates prerequisite chains that lead into a course.
package pathfind

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidDepth = errors.New("pathfind: max depth must be >= 0")

// Path is a chain of course ids from the furthest prerequisite to the target, inclusive.
type Path []int64

// Edges is the number of PREREQUISITE edges the path walks.
func (p Path) Edges() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Source is the slice of the graph store the finder reads.
type Source interface {
	HasCourse(ctx context.Context, id int64) (bool, error)
	DirectPrerequisites(ctx context.Context, id int64) ([]int64, error)
}

type Finder struct {
	src Source
}

func New(src Source) *Finder {
	return &Finder{src: src}
}

// FindPaths returns every simple chain of 1..maxDepth edges that ends at target, walking
// incoming PREREQUISITE edges. Partial chains are included: for A->B->C the answer for C is
// [B C] and [A B C]. A target without prerequisites yields exactly [[target]]; an unknown
// target yields nothing.
//
// Paths are ordered by edge count; paths of equal length keep discovery order, which visits
// prerequisites in ascending id.
func (f *Finder) FindPaths(ctx context.Context, target int64, maxDepth int) ([]Path, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, maxDepth)
	}
	ok, err := f.src.HasCourse(ctx, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Path{}, nil
	}

	w := &walker{ctx: ctx, src: f.src, maxDepth: maxDepth, memo: map[int64][]int64{}}
	direct, err := w.prereqs(target)
	if err != nil {
		return nil, err
	}
	if len(direct) == 0 {
		return []Path{{target}}, nil
	}

	onPath := map[int64]bool{target: true}
	if err := w.walk(target, Path{target}, 0, onPath); err != nil {
		return nil, err
	}
	if len(w.paths) == 0 {
		return []Path{}, nil
	}
	sort.SliceStable(w.paths, func(i, j int) bool { return len(w.paths[i]) < len(w.paths[j]) })
	return w.paths, nil
}

type walker struct {
	ctx      context.Context
	src      Source
	maxDepth int
	memo     map[int64][]int64
	paths    []Path
}

func (w *walker) prereqs(id int64) ([]int64, error) {
	if ids, ok := w.memo[id]; ok {
		return ids, nil
	}
	ids, err := w.src.DirectPrerequisites(w.ctx, id)
	if err != nil {
		return nil, err
	}
	ids = append([]int64(nil), ids...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	w.memo[id] = ids
	return ids, nil
}

// walk extends suffix (which starts at node) backwards by one prerequisite at a time.
// Nodes already on the chain are skipped so malformed cyclic data cannot recurse forever.
func (w *walker) walk(node int64, suffix Path, depth int, onPath map[int64]bool) error {
	if depth >= w.maxDepth {
		return nil
	}
	if w.ctx != nil {
		if err := w.ctx.Err(); err != nil {
			return err
		}
	}
	prereqs, err := w.prereqs(node)
	if err != nil {
		return err
	}
	for _, p := range prereqs {
		if onPath[p] {
			continue
		}
		path := make(Path, 0, len(suffix)+1)
		path = append(path, p)
		path = append(path, suffix...)
		w.paths = append(w.paths, path)

		onPath[p] = true
		if err := w.walk(p, path, depth+1, onPath); err != nil {
			return err
		}
		delete(onPath, p)
	}
	return nil
}
