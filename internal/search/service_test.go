// internal/search/service_test.go
package search

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmatch/internal/common/config"
	stderrors "skillmatch/internal/common/errors"
	"skillmatch/internal/common/logger"
	"skillmatch/internal/matching"
	"skillmatch/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeDictionary struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeDictionary) ResolveMany(_ context.Context, names []string) (map[string][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]float32)
	for _, name := range names {
		if vec, ok := f.vectors[name]; ok {
			out[name] = vec
		}
	}
	return out, nil
}

type fakeSearcher struct {
	rows         []store.MatchRow
	err          error
	topKCalls    int
	bySkillCalls int
}

func (f *fakeSearcher) TopK(_ context.Context, _ []float32, _ float64, _ int) ([]store.MatchRow, error) {
	f.topKCalls++
	return f.rows, f.err
}

func (f *fakeSearcher) TopKBySkills(_ context.Context, _ []string, _ int) ([]store.MatchRow, error) {
	f.bySkillCalls++
	return f.rows, f.err
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		Backend:            "pgvector",
		RecruitThreshold:   0.3,
		CandidateThreshold: 0.3,
		ShortlistLimit:     50,
		DefaultLimit:       10,
		MaxLimit:           100,
		SeekerWeights:      matching.DefaultSeekerWeights,
		RecruiterWeights:   matching.DefaultRecruiterWeights,
	}
}

func newTestService(t *testing.T, dict *fakeDictionary, recruits, candidates ShortlistSearcher) *Service {
	return NewService(testSearchConfig(), config.CacheConfig{}, dict, recruits, candidates, nil, nil, logger.NewTestLogger(t))
}

func shortlistRows() []store.MatchRow {
	return []store.MatchRow{
		{ID: "r-1", Title: "Backend Engineer", Company: "Acme", Skills: []string{"go", "postgres"}, Experience: "3-5 Years", Similarity: 0.9},
		{ID: "r-2", Title: "Frontend Engineer", Company: "Globex", Skills: []string{"react"}, Experience: "0-2 Years", Similarity: 0.5},
	}
}

// ==========================
// Search
// ==========================

func TestService_Search_Seeker(t *testing.T) {
	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.1, 0.2}}}
	recruits := &fakeSearcher{rows: shortlistRows()}
	candidates := &fakeSearcher{}
	svc := newTestService(t, dict, recruits, candidates)

	resp, err := svc.Search(context.Background(), Request{Mode: "SEEKER", Skills: []string{"go", "postgres"}})
	require.NoError(t, err)

	assert.Equal(t, "SEEKER", resp.Mode)
	assert.False(t, resp.Degraded)
	assert.Equal(t, 2, resp.TotalShortlisted)
	assert.Equal(t, 1, recruits.topKCalls)
	assert.Zero(t, candidates.topKCalls)

	require.Len(t, resp.Matches, 2)
	// r-1 matches both skills and has the higher similarity.
	assert.Equal(t, "r-1", resp.Matches[0].ID)
	assert.Equal(t, []string{"go", "postgres"}, resp.Matches[0].MatchedSkills)
	assert.Equal(t, "3-5 Years", resp.Matches[0].Experience)
	assert.Greater(t, resp.Matches[0].HybridScore, resp.Matches[1].HybridScore)

	require.Len(t, resp.Visualization, 2)
	assert.True(t, resp.Visualization[0].IsCore)
	assert.False(t, resp.Visualization[1].IsCore)
}

func TestService_Search_RecruiterUsesCandidateBackend(t *testing.T) {
	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.5}}}
	recruits := &fakeSearcher{}
	candidates := &fakeSearcher{rows: shortlistRows()}
	svc := newTestService(t, dict, recruits, candidates)

	resp, err := svc.Search(context.Background(), Request{Mode: "RECRUITER", Skills: []string{"go"}})
	require.NoError(t, err)

	assert.Equal(t, 1, candidates.topKCalls)
	assert.Zero(t, recruits.topKCalls)

	// Recruiter mode emits the extra term as a target-side penalty.
	require.NotEmpty(t, resp.Matches)
	for _, m := range resp.Matches {
		if m.ExtraRatio != nil {
			assert.LessOrEqual(t, *m.ExtraRatio, 0.0)
		}
	}
}

func TestService_Search_DegradesWithoutVectors(t *testing.T) {
	dict := &fakeDictionary{vectors: map[string][]float32{}}
	recruits := &fakeSearcher{rows: shortlistRows()}
	svc := newTestService(t, dict, recruits, &fakeSearcher{})

	resp, err := svc.Search(context.Background(), Request{Mode: "SEEKER", Skills: []string{"cobol"}})
	require.NoError(t, err)

	assert.True(t, resp.Degraded)
	assert.Equal(t, 1, recruits.bySkillCalls)
	assert.Zero(t, recruits.topKCalls)
	require.NotEmpty(t, resp.Matches)
	assert.Zero(t, resp.Matches[0].VectorScore)
}

func TestService_Search_InvalidMode(t *testing.T) {
	svc := newTestService(t, &fakeDictionary{}, &fakeSearcher{}, &fakeSearcher{})

	_, err := svc.Search(context.Background(), Request{Mode: "ADMIN", Skills: []string{"go"}})
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeInvalidMode, stdErr.Code)
}

func TestService_Search_ShortlistFailure(t *testing.T) {
	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.5}}}
	recruits := &fakeSearcher{err: errors.New("connection refused")}
	svc := newTestService(t, dict, recruits, &fakeSearcher{})

	_, err := svc.Search(context.Background(), Request{Mode: "SEEKER", Skills: []string{"go"}})
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeShortlistFailed, stdErr.Code)
}

func TestService_Search_DictionaryFailure(t *testing.T) {
	dict := &fakeDictionary{err: errors.New("connection refused")}
	svc := newTestService(t, dict, &fakeSearcher{}, &fakeSearcher{})

	_, err := svc.Search(context.Background(), Request{Mode: "SEEKER", Skills: []string{"go"}})
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeDictionaryLookupFailed, stdErr.Code)
}

func TestService_Search_ExperienceFilter(t *testing.T) {
	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.5}}}
	recruits := &fakeSearcher{rows: shortlistRows()}
	svc := newTestService(t, dict, recruits, &fakeSearcher{})

	resp, err := svc.Search(context.Background(), Request{
		Mode:       "SEEKER",
		Skills:     []string{"go"},
		Experience: "0-2 Years",
	})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "r-2", resp.Matches[0].ID)
}

func TestService_Search_LimitClamped(t *testing.T) {
	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.5}}}
	recruits := &fakeSearcher{rows: shortlistRows()}
	svc := newTestService(t, dict, recruits, &fakeSearcher{})

	resp, err := svc.Search(context.Background(), Request{Mode: "SEEKER", Skills: []string{"go"}, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Matches, 1)
	assert.Equal(t, 2, resp.TotalShortlisted)
}

func TestService_Search_CacheHitSkipsBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.5}}}
	recruits := &fakeSearcher{rows: shortlistRows()}
	cache := store.NewCache(client, logger.NewTestLogger(t))
	cacheCfg := config.CacheConfig{Enabled: true, SearchTTL: 60, StaticTTL: 600}

	svc := NewService(testSearchConfig(), cacheCfg, dict, recruits, &fakeSearcher{}, cache, nil, logger.NewTestLogger(t))

	req := Request{Mode: "SEEKER", Skills: []string{"go"}}
	first, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, recruits.topKCalls)
	assert.Equal(t, first.Matches, second.Matches)
}

// ==========================
// SkillCategories / Statistics
// ==========================

type fakeCategoryLister struct {
	entries []store.SkillCategory
	err     error
}

func (f *fakeCategoryLister) AllWithCategory(context.Context) ([]store.SkillCategory, error) {
	return f.entries, f.err
}

func TestService_SkillCategories(t *testing.T) {
	svc := newTestService(t, &fakeDictionary{}, &fakeSearcher{}, &fakeSearcher{})
	lister := &fakeCategoryLister{entries: []store.SkillCategory{
		{Skill: "java", Category: "Programming Language"},
		{Skill: "docker", Category: "DevOps"},
		{Skill: "go", Category: "Programming Language"},
	}}

	groups, err := svc.SkillCategories(context.Background(), lister)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "DevOps", groups[0].Category)
	assert.Equal(t, []string{"go", "java"}, groups[1].Skills)
}

func TestService_SkillCategories_Error(t *testing.T) {
	svc := newTestService(t, &fakeDictionary{}, &fakeSearcher{}, &fakeSearcher{})
	lister := &fakeCategoryLister{err: errors.New("boom")}

	_, err := svc.SkillCategories(context.Background(), lister)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeCategoriesLookupFailed, stdErr.Code)
}

type fakeFrequencyReader struct {
	postings   []store.SkillFrequency
	candidates []store.SkillFrequency
	err        error
}

func (f *fakeFrequencyReader) TopSkillsForPostings(context.Context, int) ([]store.SkillFrequency, error) {
	return f.postings, f.err
}

func (f *fakeFrequencyReader) TopSkillsForCandidates(context.Context, int) ([]store.SkillFrequency, error) {
	return f.candidates, f.err
}

func TestService_Statistics(t *testing.T) {
	svc := newTestService(t, &fakeDictionary{}, &fakeSearcher{}, &fakeSearcher{})
	reader := &fakeFrequencyReader{
		postings:   []store.SkillFrequency{{Skill: "java", Count: 12}},
		candidates: []store.SkillFrequency{{Skill: "go", Count: 7}},
	}

	seeker, err := svc.Statistics(context.Background(), reader, StatisticsRequest{Mode: "SEEKER"})
	require.NoError(t, err)
	assert.Equal(t, []store.SkillFrequency{{Skill: "java", Count: 12}}, seeker.TopSkills)

	recruiter, err := svc.Statistics(context.Background(), reader, StatisticsRequest{Mode: "RECRUITER"})
	require.NoError(t, err)
	assert.Equal(t, []store.SkillFrequency{{Skill: "go", Count: 7}}, recruiter.TopSkills)
}

func TestService_Statistics_InvalidMode(t *testing.T) {
	svc := newTestService(t, &fakeDictionary{}, &fakeSearcher{}, &fakeSearcher{})

	_, err := svc.Statistics(context.Background(), &fakeFrequencyReader{}, StatisticsRequest{Mode: "nope"})
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeInvalidMode, stdErr.Code)
}

func TestService_Search_Timeout(t *testing.T) {
	cfg := testSearchConfig()
	cfg.QueryTimeout = 50

	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.5}}}
	recruits := &fakeSearcher{rows: shortlistRows()}
	svc := NewService(cfg, config.CacheConfig{}, dict, recruits, &fakeSearcher{}, nil, nil, logger.NewTestLogger(t))

	_, err := svc.Search(context.Background(), Request{Mode: "SEEKER", Skills: []string{"go"}})
	assert.NoError(t, err)
}
