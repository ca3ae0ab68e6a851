// internal/matching/ranker.go
package matching

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Candidate is one shortlist item: a posting or a candidate profile together
// with the raw similarity the external vector search attached to it. It is
// read-only to the ranker.
type Candidate struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Skills           []string `json:"skills"`
	ExperienceYears  int      `json:"experienceYears"`
	VectorSimilarity float64  `json:"-"`
}

// RankedMatch pairs a shortlist item with its scoring result.
type RankedMatch struct {
	Candidate Candidate
	Score     Result
}

// RankRequest carries everything one ranking pass needs.
type RankRequest struct {
	Skills    []string
	Mode      Mode
	Shortlist []Candidate
	Weights   Weights

	// Limit truncates the ranked output; zero means no truncation. The
	// ranker never fetches additional candidates itself.
	Limit int

	// Parallelism bounds the scoring fan-out; zero means GOMAXPROCS.
	Parallelism int
}

// Rank scores every shortlist item and orders the results by hybrid score
// descending, ties broken by vector score descending, then by stable input
// order. Scoring is fanned out across goroutines; the final sort is the
// single ordering authority, so completion order does not matter.
func Rank(ctx context.Context, req RankRequest) ([]RankedMatch, error) {
	roles, err := ResolveRoles(req.Mode)
	if err != nil {
		return nil, err
	}

	searchSkills := Normalize(req.Skills)

	ranked := make([]RankedMatch, len(req.Shortlist))

	limit := req.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, cand := range req.Shortlist {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sctx := Context{
				VectorSimilarity: cand.VectorSimilarity,
				SearchSkills:     searchSkills,
				TargetSkills:     Normalize(cand.Skills),
				ExtraPenalty:     roles.ExtraPenalty,
			}
			ranked[i] = RankedMatch{Candidate: cand, Score: Calculate(sctx, req.Weights)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.HybridScore != ranked[j].Score.HybridScore {
			return ranked[i].Score.HybridScore > ranked[j].Score.HybridScore
		}
		return ranked[i].Score.VectorScore > ranked[j].Score.VectorScore
	})

	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	return ranked, nil
}
