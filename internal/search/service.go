// internal/search/service.go
package search

import (
	"context"
	"errors"
	"time"

	"skillmatch/internal/common/config"
	stderrors "skillmatch/internal/common/errors"
	"skillmatch/internal/common/logger"
	"skillmatch/internal/common/metrics"
	"skillmatch/internal/common/observability"
	"skillmatch/internal/matching"
	"skillmatch/internal/store"
)

// DictionaryResolver is the slice of the skill dictionary this package needs.
type DictionaryResolver interface {
	ResolveMany(ctx context.Context, names []string) (map[string][]float32, error)
}

// ShortlistSearcher produces the pre-ranking shortlist for one search domain.
// TopK is the vector path; TopKBySkills is the degraded path used when no
// query vector could be built.
type ShortlistSearcher interface {
	TopK(ctx context.Context, queryVec []float32, threshold float64, limit int) ([]store.MatchRow, error)
	TopKBySkills(ctx context.Context, skills []string, limit int) ([]store.MatchRow, error)
}

// Request is one search call.
type Request struct {
	Mode       string            `json:"mode"`
	Skills     []string          `json:"skills"`
	Experience string            `json:"experience,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Weights    *matching.Weights `json:"weights,omitempty"`
}

// Match is one ranked search result with its full score breakdown.
type Match struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Skills        []string `json:"skills"`
	Experience    string   `json:"experience"`
	HybridScore   float64  `json:"hybridScore"`
	VectorScore   float64  `json:"vectorScore"`
	OverlapRatio  float64  `json:"overlapRatio"`
	CoverageRatio float64  `json:"coverageRatio"`
	ExtraRatio    *float64 `json:"extraRatio,omitempty"`
	MatchedSkills []string `json:"matchedSkills"`
	ExtraSkills   []string `json:"extraSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// Response is the full search result payload.
type Response struct {
	Mode             string       `json:"mode"`
	Matches          []Match      `json:"matches"`
	Visualization    []SkillPoint `json:"vectorVisualization"`
	TotalShortlisted int          `json:"totalShortlisted"`

	// Degraded is set when no query vector could be built and the shortlist
	// fell back to plain skill overlap.
	Degraded bool `json:"degraded"`
}

// Service runs the search pipeline: normalize, build query vector, shortlist,
// rank, decorate. Vector unavailability degrades the search; shortlist
// failure fails it.
type Service struct {
	searchCfg config.SearchConfig
	cacheCfg  config.CacheConfig

	dictionary DictionaryResolver
	recruits   ShortlistSearcher
	candidates ShortlistSearcher
	cache      *store.Cache
	obs        *observability.Observability
	logger     logger.Logger
}

func NewService(
	searchCfg config.SearchConfig,
	cacheCfg config.CacheConfig,
	dictionary DictionaryResolver,
	recruits ShortlistSearcher,
	candidates ShortlistSearcher,
	cache *store.Cache,
	obs *observability.Observability,
	log logger.Logger,
) *Service {
	return &Service{
		searchCfg:  searchCfg,
		cacheCfg:   cacheCfg,
		dictionary: dictionary,
		recruits:   recruits,
		candidates: candidates,
		cache:      cache,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "search"}),
	}
}

func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	mode, err := matching.ParseMode(req.Mode)
	if err != nil {
		metrics.SearchesFailed.WithLabelValues(req.Mode, string(stderrors.ErrCodeInvalidMode)).Inc()
		return nil, stderrors.Wrap(stderrors.ErrCodeInvalidMode, "unknown search mode", err)
	}
	roles, err := matching.ResolveRoles(mode)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeInvalidMode, "unknown search mode", err)
	}

	weights := s.searchCfg.WeightsFor(mode)
	if req.Weights != nil {
		weights = *req.Weights
	}
	limit := s.clampLimit(req.Limit)

	cacheKey := store.SearchKey(string(mode), req.Skills, req.Experience,
		[4]float64{weights.Vector, weights.Overlap, weights.Coverage, weights.Extra}, limit)
	if cached, ok := s.cachedResponse(ctx, cacheKey); ok {
		return cached, nil
	}

	if timeout := s.searchCfg.QueryTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Millisecond)
		defer cancel()
	}

	resp, err := s.search(ctx, req, mode, roles, weights, limit)
	if err != nil {
		stdErr := stderrors.Normalize(err)
		metrics.SearchesFailed.WithLabelValues(string(mode), string(stdErr.Code)).Inc()
		if s.obs != nil {
			s.obs.RecordSearch(ctx, string(mode), "failed")
		}
		return nil, stdErr
	}

	elapsed := time.Since(start)
	metrics.SearchesTotal.WithLabelValues(string(mode)).Inc()
	metrics.SearchDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	if s.obs != nil {
		s.obs.RecordSearch(ctx, string(mode), "ok")
		s.obs.RecordSearchDuration(ctx, elapsed, string(mode))
	}

	s.storeResponse(ctx, cacheKey, resp)

	s.logger.Info("search completed", map[string]interface{}{
		"mode":        string(mode),
		"skills":      len(req.Skills),
		"matches":     len(resp.Matches),
		"shortlisted": resp.TotalShortlisted,
		"degraded":    resp.Degraded,
		"elapsedMs":   elapsed.Milliseconds(),
	})
	return resp, nil
}

func (s *Service) search(ctx context.Context, req Request, mode matching.Mode, roles matching.Roles, weights matching.Weights, limit int) (*Response, error) {
	backend := s.recruits
	if roles.TargetDomain == matching.DomainCandidate {
		backend = s.candidates
	}

	degraded := false
	skills := matching.Normalize(req.Skills)
	queryVec, err := matching.BuildQueryVector(ctx, skills, s.dictionary)
	switch {
	case errors.Is(err, matching.ErrNoVectorAvailable):
		degraded = true
		s.logger.Warn("no embedding for any requested skill, degrading to skill-only search", map[string]interface{}{
			"mode":   string(mode),
			"skills": req.Skills,
		})
	case err != nil:
		return nil, stderrors.Wrap(stderrors.ErrCodeDictionaryLookupFailed, "skill dictionary lookup failed", err)
	}

	var rows []store.MatchRow
	if degraded {
		rows, err = backend.TopKBySkills(ctx, skills.Sorted(), s.searchCfg.ShortlistLimit)
	} else {
		threshold := s.searchCfg.ThresholdFor(roles.TargetDomain)
		rows, err = backend.TopK(ctx, queryVec, threshold, s.searchCfg.ShortlistLimit)
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.Wrap(stderrors.ErrCodeQueryTimeout, "shortlist query timed out", err)
		}
		return nil, stderrors.Wrap(stderrors.ErrCodeShortlistFailed, "shortlist query failed", err)
	}
	metrics.ShortlistSize.WithLabelValues(string(mode), s.searchCfg.Backend).Observe(float64(len(rows)))

	rows = filterByExperience(rows, ParseExperienceRange(req.Experience))

	shortlist := make([]matching.Candidate, len(rows))
	expByID := make(map[string]string, len(rows))
	for i, row := range rows {
		expByID[row.ID] = row.Experience
		if degraded {
			// Skill-only scoring: whatever the fallback query reported as a
			// score is not a cosine similarity.
			row.Similarity = 0
		}
		shortlist[i] = matching.Candidate{
			ID:               row.ID,
			Title:            row.Title,
			Company:          row.Company,
			Skills:           row.Skills,
			ExperienceYears:  ParseExperienceRange(row.Experience).MinYears,
			VectorSimilarity: row.Similarity,
		}
	}

	ranked, err := matching.Rank(ctx, matching.RankRequest{
		Skills:      req.Skills,
		Mode:        mode,
		Shortlist:   shortlist,
		Weights:     weights,
		Limit:       limit,
		Parallelism: s.searchCfg.Parallelism,
	})
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeInternal, "ranking failed", err)
	}

	visualization, err := BuildVisualization(ctx, req.Skills, s.dictionary)
	if err != nil {
		// The plot is decoration; a lookup hiccup here must not fail the search.
		s.logger.Warn("visualization lookup failed", map[string]interface{}{"error": err.Error()})
		visualization = nil
	}

	matches := make([]Match, len(ranked))
	for i, rm := range ranked {
		matches[i] = Match{
			ID:            rm.Candidate.ID,
			Title:         rm.Candidate.Title,
			Company:       rm.Candidate.Company,
			Skills:        rm.Candidate.Skills,
			Experience:    expByID[rm.Candidate.ID],
			HybridScore:   rm.Score.HybridScore,
			VectorScore:   rm.Score.VectorScore,
			OverlapRatio:  rm.Score.OverlapRatio,
			CoverageRatio: rm.Score.CoverageRatio,
			ExtraRatio:    rm.Score.ExtraRatio,
			MatchedSkills: rm.Score.MatchedSkills,
			ExtraSkills:   rm.Score.ExtraSkills,
			MissingSkills: rm.Score.MissingSkills,
		}
	}

	return &Response{
		Mode:             string(mode),
		Matches:          matches,
		Visualization:    visualization,
		TotalShortlisted: len(rows),
		Degraded:         degraded,
	}, nil
}

func (s *Service) clampLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.searchCfg.DefaultLimit
	}
	if s.searchCfg.MaxLimit > 0 && limit > s.searchCfg.MaxLimit {
		limit = s.searchCfg.MaxLimit
	}
	return limit
}

func (s *Service) cachedResponse(ctx context.Context, key string) (*Response, bool) {
	if !s.cacheCfg.Enabled || s.cache == nil {
		return nil, false
	}
	var resp Response
	found, err := s.cache.GetJSON(ctx, key, &resp)
	if err != nil {
		s.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &resp, true
}

func (s *Service) storeResponse(ctx context.Context, key string, resp *Response) {
	if !s.cacheCfg.Enabled || s.cache == nil {
		return
	}
	ttl := time.Duration(s.cacheCfg.SearchTTL) * time.Second
	if err := s.cache.SetJSON(ctx, key, resp, ttl); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func filterByExperience(rows []store.MatchRow, filter ExperienceRange) []store.MatchRow {
	if filter.IsUnbounded() {
		return rows
	}
	out := rows[:0:0]
	for _, row := range rows {
		if ParseExperienceRange(row.Experience).Overlaps(filter) {
			out = append(out, row)
		}
	}
	return out
}
