// internal/matching/vector.go
package matching

import (
	"context"
	"errors"
)

// ErrNoVectorAvailable is returned when no skill in a query resolves to a
// dictionary embedding. It is not fatal: callers degrade to skill-only
// scoring (vector similarity 0) instead of failing the search.
var ErrNoVectorAvailable = errors.New("no skill resolved to an embedding")

// DictionaryLookup resolves skill names to their embedding vectors. Names
// missing from the dictionary are simply absent from the result, not an
// error. Implementations must resolve all names in one round trip.
type DictionaryLookup interface {
	ResolveMany(ctx context.Context, names []string) (map[string][]float32, error)
}

// BuildQueryVector resolves each skill to its dictionary embedding and
// aggregates the resolved vectors into their arithmetic mean. Skills with no
// dictionary entry are excluded; vectors whose dimensionality deviates from
// the first resolved vector are skipped. When nothing resolves, the result
// is ErrNoVectorAvailable.
func BuildQueryVector(ctx context.Context, skills SkillSet, lookup DictionaryLookup) ([]float32, error) {
	if skills.Len() == 0 {
		return nil, ErrNoVectorAvailable
	}

	resolved, err := lookup.ResolveMany(ctx, skills.Sorted())
	if err != nil {
		return nil, err
	}

	var sum []float64
	count := 0
	for _, skill := range skills.Sorted() {
		vec, ok := resolved[skill]
		if !ok || len(vec) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(vec))
		}
		if len(vec) != len(sum) {
			continue
		}
		for i, v := range vec {
			sum[i] += float64(v)
		}
		count++
	}

	if count == 0 {
		return nil, ErrNoVectorAvailable
	}

	mean := make([]float32, len(sum))
	for i, v := range sum {
		mean[i] = float32(v / float64(count))
	}
	return mean, nil
}
