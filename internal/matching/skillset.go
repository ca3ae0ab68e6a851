// internal/matching/skillset.go
package matching

import (
	"sort"
	"strings"
)

// SkillSet is a set of normalized (lowercase, trimmed) skill tokens.
type SkillSet map[string]struct{}

// Normalize converts raw skill tokens into a SkillSet. Tokens are trimmed,
// lowercased and deduplicated; blank tokens are dropped. It never fails:
// malformed tokens are silently discarded because the dictionary lookup
// downstream handles unresolved skills on its own.
func Normalize(raw []string) SkillSet {
	set := make(SkillSet, len(raw))
	for _, token := range raw {
		skill := strings.ToLower(strings.TrimSpace(token))
		if skill == "" {
			continue
		}
		set[skill] = struct{}{}
	}
	return set
}

func NewSkillSet(skills ...string) SkillSet {
	return Normalize(skills)
}

func (s SkillSet) Len() int {
	return len(s)
}

func (s SkillSet) Contains(skill string) bool {
	_, ok := s[skill]
	return ok
}

// Intersect returns the skills present in both sets.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	out := make(SkillSet)
	for skill := range s {
		if other.Contains(skill) {
			out[skill] = struct{}{}
		}
	}
	return out
}

// Diff returns the skills present in s but not in other.
func (s SkillSet) Diff(other SkillSet) SkillSet {
	out := make(SkillSet)
	for skill := range s {
		if !other.Contains(skill) {
			out[skill] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members as a sorted slice. Output ordering must be
// deterministic so that identical inputs produce identical results.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for skill := range s {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}
