// internal/store/candidate.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"skillmatch/internal/common/logger"
)

// CandidateStore shortlists candidate profiles for recruiter-mode searches
// using the pgvector index on candidate_skill_embedding.
type CandidateStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCandidateStore(db *sql.DB, log logger.Logger) *CandidateStore {
	return &CandidateStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "candidate"}),
	}
}

func (s *CandidateStore) TopK(ctx context.Context, queryVec []float32, threshold float64, limit int) ([]MatchRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ci.id, ci.headline, ci.current_company, ci.skills, ci.experience,
		       1 - (cse.skills_vector <=> CAST($1 AS vector)) AS similarity
		FROM candidate_info ci
		JOIN candidate_skill_embedding cse ON cse.candidate_id = ci.id
		WHERE 1 - (cse.skills_vector <=> CAST($1 AS vector)) >= $2
		ORDER BY cse.skills_vector <=> CAST($1 AS vector)
		LIMIT $3`, EncodeVector(queryVec), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("candidate similarity query: %w", err)
	}
	defer rows.Close()

	return scanMatchRows(rows)
}

func (s *CandidateStore) TopKBySkills(ctx context.Context, skills []string, limit int) ([]MatchRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ci.id, ci.headline, ci.current_company, ci.skills, ci.experience, 0 AS similarity
		FROM candidate_info ci
		WHERE ci.skills && $1
		ORDER BY cardinality(ARRAY(SELECT unnest(ci.skills) INTERSECT SELECT unnest($1::text[]))) DESC, ci.id
		LIMIT $2`, pq.Array(skills), limit)
	if err != nil {
		return nil, fmt.Errorf("candidate skill-overlap query: %w", err)
	}
	defer rows.Close()

	return scanMatchRows(rows)
}
