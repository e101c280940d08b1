package catalog

import (
	"sort"
	"strings"
)

// KnowledgeVector maps a knowledge domain to mastery in [0,1]. Built per request, never stored.
type KnowledgeVector map[string]float64

// Domains returns the vector's domain names sorted alphabetically.
func (v KnowledgeVector) Domains() []string {
	out := make([]string, 0, len(v))
	for d := range v {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ProfileIndex is an immutable lookup over course profiles, keyed by course id with a secondary
// label index. Safe for concurrent readers.
type ProfileIndex struct {
	byID    map[int64]CourseProfile
	byLabel map[string]int64
	domains []string
}

// NewProfileIndex normalises profiles: domain names are trimmed, de-duplicated and sorted.
// Later duplicates of a course id replace earlier ones.
func NewProfileIndex(profiles []CourseProfile) *ProfileIndex {
	idx := &ProfileIndex{
		byID:    make(map[int64]CourseProfile, len(profiles)),
		byLabel: make(map[string]int64, len(profiles)),
	}
	allDomains := map[string]struct{}{}
	for _, p := range profiles {
		seen := map[string]struct{}{}
		domains := make([]string, 0, len(p.Domains))
		for _, d := range p.Domains {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			domains = append(domains, d)
			allDomains[d] = struct{}{}
		}
		sort.Strings(domains)
		p.Domains = domains
		if p.IRT != nil {
			irt := *p.IRT
			p.IRT = &irt
		}
		idx.byID[p.CourseID] = p
		if label := strings.TrimSpace(p.Label); label != "" {
			idx.byLabel[label] = p.CourseID
		}
	}
	idx.domains = make([]string, 0, len(allDomains))
	for d := range allDomains {
		idx.domains = append(idx.domains, d)
	}
	sort.Strings(idx.domains)
	return idx
}

func (i *ProfileIndex) ByID(id int64) (CourseProfile, bool) {
	if i == nil {
		return CourseProfile{}, false
	}
	p, ok := i.byID[id]
	return p, ok
}

func (i *ProfileIndex) ByLabel(label string) (CourseProfile, bool) {
	if i == nil {
		return CourseProfile{}, false
	}
	id, ok := i.byLabel[strings.TrimSpace(label)]
	if !ok {
		return CourseProfile{}, false
	}
	return i.ByID(id)
}

// AllDomains lists every domain referenced by any profile, sorted.
func (i *ProfileIndex) AllDomains() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.domains...)
}

func (i *ProfileIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byID)
}
