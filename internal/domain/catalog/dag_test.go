package catalog

import (
	"errors"
	"reflect"
	"testing"
)

func TestTopoSortRespectsEdgesNotIDs(t *testing.T) {
	// 9 must come before 2 even though 2 < 9.
	edges := []PrerequisiteEdge{{From: 9, To: 2}, {From: 2, To: 5}, {From: 1, To: 5}}
	got, err := TopoSort([]int64{5, 2, 9, 1}, edges)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	if want := []int64{1, 9, 2, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got=%v want=%v", got, want)
	}
}

func TestTopoSortIndependentNodesAscending(t *testing.T) {
	got, err := TopoSort([]int64{30, 10, 20}, nil)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	if want := []int64{10, 20, 30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got=%v want=%v", got, want)
	}
}

func TestTopoSortIgnoresEdgesOutsideSubgraph(t *testing.T) {
	edges := []PrerequisiteEdge{{From: 1, To: 2}, {From: 2, To: 3}, {From: 1, To: 2}}
	got, err := TopoSort([]int64{3, 1}, edges)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	if want := []int64{1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got=%v want=%v", got, want)
	}
}

func TestTopoSortDetectsCycle(t *testing.T) {
	edges := []PrerequisiteEdge{{From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 2}}
	got, err := TopoSort([]int64{1, 2, 3}, edges)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got=%v", err)
	}
	if want := []int64{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected partial order: got=%v want=%v", got, want)
	}
}
