package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmatch/internal/common/config"
	"skillmatch/internal/common/logger"
	"skillmatch/internal/matching"
	"skillmatch/internal/search"
	"skillmatch/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeDictionary struct {
	vectors map[string][]float32
}

func (f *fakeDictionary) ResolveMany(_ context.Context, names []string) (map[string][]float32, error) {
	out := make(map[string][]float32)
	for _, name := range names {
		if vec, ok := f.vectors[name]; ok {
			out[name] = vec
		}
	}
	return out, nil
}

type fakeSearcher struct {
	rows []store.MatchRow
	err  error
}

func (f *fakeSearcher) TopK(context.Context, []float32, float64, int) ([]store.MatchRow, error) {
	return f.rows, f.err
}

func (f *fakeSearcher) TopKBySkills(context.Context, []string, int) ([]store.MatchRow, error) {
	return f.rows, f.err
}

type fakeCategoryLister struct {
	entries []store.SkillCategory
	err     error
}

func (f *fakeCategoryLister) AllWithCategory(context.Context) ([]store.SkillCategory, error) {
	return f.entries, f.err
}

type fakeFrequencyReader struct {
	top []store.SkillFrequency
	err error
}

func (f *fakeFrequencyReader) TopSkillsForPostings(context.Context, int) ([]store.SkillFrequency, error) {
	return f.top, f.err
}

func (f *fakeFrequencyReader) TopSkillsForCandidates(context.Context, int) ([]store.SkillFrequency, error) {
	return f.top, f.err
}

type serverFixture struct {
	server   *Server
	recruits *fakeSearcher
}

func newTestServer(t *testing.T, opts ...func(*serverFixture)) *serverFixture {
	log := logger.NewTestLogger(t)

	fx := &serverFixture{
		recruits: &fakeSearcher{rows: []store.MatchRow{
			{ID: "r-1", Title: "Backend Engineer", Company: "Acme", Skills: []string{"go", "postgres"}, Experience: "3-5 Years", Similarity: 0.9},
		}},
	}
	for _, opt := range opts {
		opt(fx)
	}

	searchCfg := config.SearchConfig{
		Backend:            "pgvector",
		RecruitThreshold:   0.3,
		CandidateThreshold: 0.3,
		ShortlistLimit:     50,
		DefaultLimit:       10,
		MaxLimit:           100,
		SeekerWeights:      matching.DefaultSeekerWeights,
		RecruiterWeights:   matching.DefaultRecruiterWeights,
	}
	dict := &fakeDictionary{vectors: map[string][]float32{"go": {0.1, 0.2}}}
	svc := search.NewService(searchCfg, config.CacheConfig{}, dict, fx.recruits, &fakeSearcher{}, nil, nil, log)

	categories := &fakeCategoryLister{entries: []store.SkillCategory{
		{Skill: "go", Category: "Programming Language"},
	}}
	stats := &fakeFrequencyReader{top: []store.SkillFrequency{{Skill: "go", Count: 3}}}
	health := map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}

	fx.server = New(config.ServerConfig{Address: ":0"}, svc, categories, stats, health, log)
	return fx
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// ==========================
// POST /api/v1/search
// ==========================

func TestHandleSearch(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodPost, "/api/v1/search",
		`{"mode": "SEEKER", "skills": ["go", "postgres"]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp search.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SEEKER", resp.Mode)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "r-1", resp.Matches[0].ID)
	assert.Equal(t, []string{"go", "postgres"}, resp.Matches[0].MatchedSkills)
}

func TestHandleSearch_WeightOverride(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodPost, "/api/v1/search",
		`{"mode": "SEEKER", "skills": ["go"], "weights": {"vector": 1, "overlap": 0, "coverage": 0, "extra": 0}}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp search.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	// With a pure-vector weight vector, hybrid equals the vector score.
	assert.Equal(t, resp.Matches[0].VectorScore, resp.Matches[0].HybridScore)
}

func TestHandleSearch_ValidationErrors(t *testing.T) {
	fx := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing skills", `{"mode": "SEEKER"}`},
		{"empty skills", `{"mode": "SEEKER", "skills": []}`},
		{"bad mode", `{"mode": "ADMIN", "skills": ["go"]}`},
		{"extra field", `{"mode": "SEEKER", "skills": ["go"], "admin": true}`},
		{"limit too large", `{"mode": "SEEKER", "skills": ["go"], "limit": 1000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, fx.server, http.MethodPost, "/api/v1/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleSearch_ShortlistFailure(t *testing.T) {
	fx := newTestServer(t, func(fx *serverFixture) {
		fx.recruits = &fakeSearcher{err: errors.New("connection refused")}
	})

	rec := doRequest(t, fx.server, http.MethodPost, "/api/v1/search",
		`{"mode": "SEEKER", "skills": ["go"]}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			Retryable bool   `json:"retryable"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SHORTLIST_FAILED", body.Error.Code)
}

// ==========================
// GET /api/v1/skills/categories
// ==========================

func TestHandleSkillCategories(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodGet, "/api/v1/skills/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []search.SkillCategoryGroup `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Programming Language", body.Categories[0].Category)
}

// ==========================
// POST /api/v1/search/statistics
// ==========================

func TestHandleStatistics(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodPost, "/api/v1/search/statistics",
		`{"mode": "SEEKER", "topN": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp search.StatisticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []store.SkillFrequency{{Skill: "go", Count: 3}}, resp.TopSkills)
}

func TestHandleStatistics_BadMode(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodPost, "/api/v1/search/statistics",
		`{"mode": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// GET /healthz
// ==========================

func TestHandleHealth(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestHandleHealth_Unhealthy(t *testing.T) {
	fx := newTestServer(t)
	fx.server.health["redis"] = func(context.Context) error { return errors.New("dial tcp: refused") }

	rec := doRequest(t, fx.server, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unhealthy"`)
}

// ==========================
// Request ID middleware
// ==========================

func TestRequestID(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec2 := httptest.NewRecorder()
	fx.server.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, "caller-supplied", rec2.Header().Get("X-Request-ID"))
}

// ==========================
// GET /metrics
// ==========================

func TestMetricsEndpoint(t *testing.T) {
	fx := newTestServer(t)

	rec := doRequest(t, fx.server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
