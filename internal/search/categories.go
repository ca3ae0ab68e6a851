// internal/search/categories.go
package search

import (
	"context"
	"sort"
	"time"

	stderrors "skillmatch/internal/common/errors"
	"skillmatch/internal/store"
)

// SkillCategoryGroup is one category with its member skills, as the frontend
// consumes it at startup.
type SkillCategoryGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// CategoryLister is the store slice the categories endpoint needs.
type CategoryLister interface {
	AllWithCategory(ctx context.Context) ([]store.SkillCategory, error)
}

// SkillCategories returns every dictionary skill grouped by category, sorted
// by category then skill. Results are cached under a static key.
func (s *Service) SkillCategories(ctx context.Context, lister CategoryLister) ([]SkillCategoryGroup, error) {
	key := store.CategoriesKey()
	if s.cacheCfg.Enabled && s.cache != nil {
		var groups []SkillCategoryGroup
		if found, err := s.cache.GetJSON(ctx, key, &groups); err == nil && found {
			return groups, nil
		}
	}

	entries, err := lister.AllWithCategory(ctx)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeCategoriesLookupFailed, "skill categories lookup failed", err)
	}

	byCategory := make(map[string][]string)
	for _, e := range entries {
		byCategory[e.Category] = append(byCategory[e.Category], e.Skill)
	}

	groups := make([]SkillCategoryGroup, 0, len(byCategory))
	for category, skills := range byCategory {
		sort.Strings(skills)
		groups = append(groups, SkillCategoryGroup{Category: category, Skills: skills})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })

	if s.cacheCfg.Enabled && s.cache != nil {
		ttl := time.Duration(s.cacheCfg.StaticTTL) * time.Second
		if err := s.cache.SetJSON(ctx, key, groups, ttl); err != nil {
			s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return groups, nil
}
