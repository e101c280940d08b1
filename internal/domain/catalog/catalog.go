// Package catalog holds the reference data model shared by the graph store, the learning
// engines and the HTTP layer: courses, prerequisite edges and per-course knowledge profiles.
//
// Everything here is loaded once at process start and treated as read-only afterwards.
package catalog

import "sort"

// Tier is the informational difficulty band stored on a course. It does not take part in scoring.
type Tier string

type Course struct {
	ID         int64   `json:"id" yaml:"id"`
	Label      string  `json:"label" yaml:"label"`
	Difficulty Tier    `json:"difficulty,omitempty" yaml:"difficulty"`
	Credits    float64 `json:"credits,omitempty" yaml:"credits"`
	CourseType string  `json:"course_type,omitempty" yaml:"course_type"`
}

type CourseDetail struct {
	Course
	Prerequisites   []int64  `json:"prerequisites"`
	KnowledgePoints []string `json:"knowledge_points"`
	Description     string   `json:"description,omitempty"`
}

// PrerequisiteEdge says From must be studied before To.
type PrerequisiteEdge struct {
	From int64 `json:"from" yaml:"from"`
	To   int64 `json:"to" yaml:"to"`
}

type Stats struct {
	TotalCourses       int `json:"total_courses"`
	TotalRelationships int `json:"total_relationships"`
}

// IRTParams are fixed per-course item parameters. BaseDifficulty lives on the ability scale [-3,3].
type IRTParams struct {
	BaseDifficulty float64 `json:"difficulty" yaml:"difficulty"`
	Discrimination float64 `json:"discrimination" yaml:"discrimination"`
}

// CourseProfile maps a course to the knowledge domains it exercises and its IRT parameters.
// IRT is nil for courses that have a domain mapping but no calibrated parameters.
type CourseProfile struct {
	CourseID int64      `json:"course_id" yaml:"course_id"`
	Label    string     `json:"label" yaml:"label"`
	Domains  []string   `json:"domains" yaml:"domains"`
	IRT      *IRTParams `json:"irt,omitempty" yaml:"irt"`
}

// Snapshot is the complete static catalogue.
type Snapshot struct {
	Courses  []Course           `json:"courses" yaml:"courses"`
	Edges    []PrerequisiteEdge `json:"relationships" yaml:"relationships"`
	Profiles []CourseProfile    `json:"profiles" yaml:"profiles"`
}

// SortedIDs returns the keys of set in ascending order.
func SortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IDSet builds a lookup set from ids.
func IDSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
