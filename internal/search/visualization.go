// internal/search/visualization.go
package search

import (
	"context"
	"math/rand"
)

// visualizationSeed keeps repeated renders of the same skill list identical.
const visualizationSeed = 42

// SkillPoint is one plotted skill in the 2D visualization the frontend draws
// alongside search results. Coordinates are placeholder projections until a
// real dimensionality reduction lands.
type SkillPoint struct {
	Skill  string  `json:"skill"`
	IsCore bool    `json:"isCore"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// BuildVisualization plots each requested skill on a fixed-seed 0..100 grid.
// IsCore marks skills the embedding dictionary knows about.
func BuildVisualization(ctx context.Context, skills []string, lookup DictionaryResolver) ([]SkillPoint, error) {
	resolved := map[string][]float32{}
	if lookup != nil && len(skills) > 0 {
		var err error
		resolved, err = lookup.ResolveMany(ctx, skills)
		if err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewSource(visualizationSeed))
	points := make([]SkillPoint, len(skills))
	for i, skill := range skills {
		_, known := resolved[skill]
		points[i] = SkillPoint{
			Skill:  skill,
			IsCore: known,
			X:      rng.Float64() * 100,
			Y:      rng.Float64() * 100,
		}
	}
	return points, nil
}
