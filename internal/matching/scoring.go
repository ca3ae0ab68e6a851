// internal/matching/scoring.go
package matching

import "math"

// Weights is the hybrid score weight vector. It is supplied via configuration
// rather than compiled in, so scoring behavior is tunable without a rebuild.
// The weighted combination is re-clamped into [0,100], so the weights need
// not sum to 1.
type Weights struct {
	Vector   float64 `mapstructure:"vector" json:"vector"`
	Overlap  float64 `mapstructure:"overlap" json:"overlap"`
	Coverage float64 `mapstructure:"coverage" json:"coverage"`
	Extra    float64 `mapstructure:"extra" json:"extra"`
}

// Default weight vectors, one per direction. Seeker searches reward breadth
// with the extra term; recruiter searches trade the extra bonus for a higher
// coverage weight and treat target-side overspec as a penalty.
var (
	DefaultSeekerWeights    = Weights{Vector: 0.40, Overlap: 0.30, Coverage: 0.20, Extra: 0.10}
	DefaultRecruiterWeights = Weights{Vector: 0.40, Overlap: 0.30, Coverage: 0.30, Extra: 0.10}
)

// Context is the immutable input of one scoring call. It is constructed
// fresh per (searcher, shortlist item) pair and safe to share across
// concurrent calls.
type Context struct {
	// VectorSimilarity is the raw cosine similarity from the external vector
	// search, already converted from distance (1 - distance). Values outside
	// [0,1] are clamped, not rejected.
	VectorSimilarity float64

	// SearchSkills is the searcher-side skill set, TargetSkills the skill set
	// of the shortlist item. Both must already be normalized.
	SearchSkills SkillSet
	TargetSkills SkillSet

	// ExtraPenalty carries the role assignment from ResolveRoles: when set,
	// the extra term measures target-side overspec and is emitted negative.
	ExtraPenalty bool
}

// Result is the immutable output of one scoring call. All numeric fields are
// on a 0-100 scale, rounded to two decimals. ExtraRatio is nil when its
// divisor set is empty; it is signed, negative under the penalty role.
type Result struct {
	HybridScore   float64  `json:"hybridScore"`
	VectorScore   float64  `json:"vectorScore"`
	OverlapRatio  float64  `json:"overlapRatio"`
	CoverageRatio float64  `json:"coverageRatio"`
	ExtraRatio    *float64 `json:"extraRatio,omitempty"`

	// MatchedSkills, ExtraSkills and MissingSkills partition the union of
	// search and target skills: matched ∪ extra = search, matched ∪ missing
	// = target. Slices are sorted for deterministic output.
	MatchedSkills []string `json:"matchedSkills"`
	ExtraSkills   []string `json:"extraSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// Calculate computes the hybrid score of one shortlist item. It is a pure
// function over its arguments: no I/O, no shared state, safe to call from
// any number of goroutines.
func Calculate(ctx Context, w Weights) Result {
	matched := ctx.SearchSkills.Intersect(ctx.TargetSkills)
	extra := ctx.SearchSkills.Diff(ctx.TargetSkills)
	missing := ctx.TargetSkills.Diff(ctx.SearchSkills)

	vectorScore := clamp(ctx.VectorSimilarity*100, 0, 100)

	var overlapRatio float64
	if n := ctx.SearchSkills.Len(); n > 0 {
		overlapRatio = 100 * float64(matched.Len()) / float64(n)
	}

	var coverageRatio float64
	if n := ctx.TargetSkills.Len(); n > 0 {
		coverageRatio = 100 * float64(matched.Len()) / float64(n)
	}

	var extraRatio *float64
	if ctx.ExtraPenalty {
		if n := ctx.TargetSkills.Len(); n > 0 {
			v := round2(-100 * float64(missing.Len()) / float64(n))
			extraRatio = &v
		}
	} else {
		if n := ctx.SearchSkills.Len(); n > 0 {
			v := round2(100 * float64(extra.Len()) / float64(n))
			extraRatio = &v
		}
	}

	var extraTerm float64
	if extraRatio != nil {
		extraTerm = *extraRatio
	}

	hybrid := clamp(
		w.Vector*vectorScore+
			w.Overlap*overlapRatio+
			w.Coverage*coverageRatio+
			w.Extra*extraTerm,
		0, 100)

	return Result{
		HybridScore:   round2(hybrid),
		VectorScore:   round2(vectorScore),
		OverlapRatio:  round2(overlapRatio),
		CoverageRatio: round2(coverageRatio),
		ExtraRatio:    extraRatio,
		MatchedSkills: matched.Sorted(),
		ExtraSkills:   extra.Sorted(),
		MissingSkills: missing.Sorted(),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
