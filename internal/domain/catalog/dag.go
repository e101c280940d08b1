package catalog

import (
	"container/heap"
	"errors"
	"fmt"
)

var ErrCycle = errors.New("catalog: cycle detected in prerequisite graph")

// TopoSort orders nodes so every node comes after its prerequisites (Kahn). Edges with an
// endpoint outside nodes are ignored, so callers can pass the full edge set to sort an induced
// subgraph. Among nodes that are ready at the same time the smallest id goes first.
//
// On a cycle it returns the nodes it could order together with an error wrapping ErrCycle that
// names the stuck nodes.
func TopoSort(nodes []int64, edges []PrerequisiteEdge) ([]int64, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	in := make(map[int64]struct{}, len(nodes))
	for _, n := range nodes {
		in[n] = struct{}{}
	}

	deg := make(map[int64]int, len(in))
	out := make(map[int64][]int64, len(in))
	for n := range in {
		deg[n] = 0
	}
	seenEdge := map[PrerequisiteEdge]struct{}{}
	for _, e := range edges {
		if _, ok := in[e.From]; !ok {
			continue
		}
		if _, ok := in[e.To]; !ok {
			continue
		}
		if _, dup := seenEdge[e]; dup {
			continue
		}
		seenEdge[e] = struct{}{}
		deg[e.To]++
		out[e.From] = append(out[e.From], e.To)
	}

	ready := &idHeap{}
	for n, d := range deg {
		if d == 0 {
			heap.Push(ready, n)
		}
	}

	order := make([]int64, 0, len(in))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int64)
		order = append(order, n)
		for _, next := range out[n] {
			deg[next]--
			if deg[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}

	if len(order) != len(in) {
		stuck := make(map[int64]struct{}, len(in)-len(order))
		for n, d := range deg {
			if d > 0 {
				stuck[n] = struct{}{}
			}
		}
		return order, fmt.Errorf("%w: courses %v", ErrCycle, SortedIDs(stuck))
	}
	return order, nil
}

type idHeap []int64

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(int64)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
