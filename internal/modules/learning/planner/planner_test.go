package planner

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/data/snapshot"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
)

func storeOf(ids []int64, edges ...catalog.PrerequisiteEdge) *graph.SnapshotStore {
	snap := &catalog.Snapshot{Edges: edges}
	for _, id := range ids {
		snap.Courses = append(snap.Courses, catalog.Course{ID: id})
	}
	return graph.NewSnapshotStore(snap)
}

func TestPlanFollowsDependenciesNotIDs(t *testing.T) {
	// 9 -> 2 -> 5 -> 7: numeric order would put 2 before 9.
	s := storeOf([]int64{2, 5, 7, 9},
		catalog.PrerequisiteEdge{From: 9, To: 2},
		catalog.PrerequisiteEdge{From: 2, To: 5},
		catalog.PrerequisiteEdge{From: 5, To: 7},
	)
	got, err := New(s, 0).Plan(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := []int64{9, 2, 5, 7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("plan: got=%v want=%v", got, want)
	}
}

func TestPlanSkipsCompleted(t *testing.T) {
	s := storeOf([]int64{1, 2, 3, 4},
		catalog.PrerequisiteEdge{From: 1, To: 3},
		catalog.PrerequisiteEdge{From: 2, To: 3},
		catalog.PrerequisiteEdge{From: 3, To: 4},
	)
	p := New(s, 5)

	got, err := p.Plan(context.Background(), 4, []int64{2})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := []int64{1, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("plan: got=%v want=%v", got, want)
	}

	got, err = p.Plan(context.Background(), 4, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := []int64{4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("all prerequisites completed: got=%v want=%v", got, want)
	}

	got, _ = p.Plan(context.Background(), 1, nil)
	if want := []int64{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("root course: got=%v want=%v", got, want)
	}
}

func TestPlanRejectsCycle(t *testing.T) {
	s := storeOf([]int64{1, 2, 3},
		catalog.PrerequisiteEdge{From: 1, To: 2},
		catalog.PrerequisiteEdge{From: 2, To: 1},
		catalog.PrerequisiteEdge{From: 2, To: 3},
	)
	_, err := New(s, 5).Plan(context.Background(), 3, nil)
	if !errors.Is(err, ErrCyclicPrerequisites) {
		t.Fatalf("expected ErrCyclicPrerequisites, got=%v", err)
	}
}

func TestPlanPropertiesOnCatalogue(t *testing.T) {
	snap, err := snapshot.Default()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	s := graph.NewSnapshotStore(snap)
	p := New(s, DefaultMaxDepth)
	ctx := context.Background()
	completedSets := [][]int64{nil, {1, 5}, {6, 9, 4}}

	for _, c := range snap.Courses {
		for _, completed := range completedSets {
			plan, err := p.Plan(ctx, c.ID, completed)
			if err != nil {
				t.Fatalf("Plan(%d): %v", c.ID, err)
			}
			if plan[len(plan)-1] != c.ID {
				t.Fatalf("Plan(%d) must end with target: %v", c.ID, plan)
			}
			done := catalog.IDSet(completed)
			pos := map[int64]int{}
			for i, id := range plan {
				if _, ok := done[id]; ok && id != c.ID {
					t.Fatalf("Plan(%d) contains completed %d: %v", c.ID, id, plan)
				}
				pos[id] = i
			}
			for _, id := range plan {
				prereqs, _ := s.DirectPrerequisites(ctx, id)
				for _, pre := range prereqs {
					if j, ok := pos[pre]; ok && j > pos[id] {
						t.Fatalf("Plan(%d): %d scheduled after dependent %d: %v", c.ID, pre, id, plan)
					}
				}
			}
		}
	}
}

func TestPrerequisitesMet(t *testing.T) {
	ok, missing := PrerequisitesMet([]int64{1, 4, 6}, catalog.IDSet([]int64{4}))
	if ok || !reflect.DeepEqual(missing, []int64{1, 6}) {
		t.Fatalf("got ok=%v missing=%v", ok, missing)
	}
	ok, missing = PrerequisitesMet(nil, nil)
	if !ok || len(missing) != 0 {
		t.Fatalf("no prerequisites: got ok=%v missing=%v", ok, missing)
	}
}
