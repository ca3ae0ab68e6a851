// internal/search/elastic.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"skillmatch/internal/common/logger"
	"skillmatch/internal/store"
)

var ErrSearchBackendUnavailable = errors.New("SEARCH_BACKEND_UNAVAILABLE")

// ElasticSearcher is the alternative ShortlistSearcher backed by an
// Elasticsearch kNN index. One instance serves one index, so a pgvector-less
// deployment runs two of them, one per search domain.
type ElasticSearcher struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticSearcher(client *elasticsearch.Client, index string, log logger.Logger) *ElasticSearcher {
	return &ElasticSearcher{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "elastic_searcher", "index": index}),
	}
}

// esDocument mirrors the indexed document shape.
type esDocument struct {
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
}

func (e *ElasticSearcher) TopK(ctx context.Context, queryVec []float32, threshold float64, limit int) ([]store.MatchRow, error) {
	queryBody := map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "skills_vector",
			"query_vector":   queryVec,
			"k":              limit,
			"num_candidates": limit * 4,
			"similarity":     threshold,
		},
		"_source": []string{"title", "company", "skills", "experience"},
	}
	return e.search(ctx, queryBody, limit, true)
}

func (e *ElasticSearcher) TopKBySkills(ctx context.Context, skills []string, limit int) ([]store.MatchRow, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"terms": map[string]interface{}{
				"skills": skills,
			},
		},
		"_source": []string{"title", "company", "skills", "experience"},
	}
	return e.search(ctx, queryBody, limit, false)
}

func (e *ElasticSearcher) search(ctx context.Context, queryBody map[string]interface{}, limit int, scoreIsSimilarity bool) ([]store.MatchRow, error) {
	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  strings.NewReader(string(body)),
		Size:  &limit,
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchBackendUnavailable, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Score  float64    `json:"_score"`
				Source esDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	rows := make([]store.MatchRow, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		similarity := 0.0
		if scoreIsSimilarity {
			similarity = hit.Score
		}
		rows = append(rows, store.MatchRow{
			ID:         hit.ID,
			Title:      hit.Source.Title,
			Company:    hit.Source.Company,
			Skills:     hit.Source.Skills,
			Experience: hit.Source.Experience,
			Similarity: similarity,
		})
	}
	return rows, nil
}
