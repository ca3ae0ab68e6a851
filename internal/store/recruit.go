// internal/store/recruit.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"skillmatch/internal/common/logger"
)

// RecruitStore shortlists job postings for seeker-mode searches using the
// pgvector index on recruit_skill_embedding.
type RecruitStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRecruitStore(db *sql.DB, log logger.Logger) *RecruitStore {
	return &RecruitStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "recruit"}),
	}
}

// TopK returns the postings closest to the query vector, filtered by a
// minimum cosine similarity. pgvector's <=> operator is cosine distance, so
// similarity is 1 - distance and ordering by distance ascending yields the
// most similar postings first.
func (s *RecruitStore) TopK(ctx context.Context, queryVec []float32, threshold float64, limit int) ([]MatchRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ri.id, ri.title, ri.company, ri.skills, ri.experience,
		       1 - (rse.skills_vector <=> CAST($1 AS vector)) AS similarity
		FROM recruit_info ri
		JOIN recruit_skill_embedding rse ON rse.recruit_id = ri.id
		WHERE 1 - (rse.skills_vector <=> CAST($1 AS vector)) >= $2
		ORDER BY rse.skills_vector <=> CAST($1 AS vector)
		LIMIT $3`, EncodeVector(queryVec), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("recruit similarity query: %w", err)
	}
	defer rows.Close()

	return scanMatchRows(rows)
}

// TopKBySkills is the degraded shortlist used when no query vector could be
// built: postings are ranked by how many of the requested skills they list.
func (s *RecruitStore) TopKBySkills(ctx context.Context, skills []string, limit int) ([]MatchRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ri.id, ri.title, ri.company, ri.skills, ri.experience, 0 AS similarity
		FROM recruit_info ri
		WHERE ri.skills && $1
		ORDER BY cardinality(ARRAY(SELECT unnest(ri.skills) INTERSECT SELECT unnest($1::text[]))) DESC, ri.id
		LIMIT $2`, pq.Array(skills), limit)
	if err != nil {
		return nil, fmt.Errorf("recruit skill-overlap query: %w", err)
	}
	defer rows.Close()

	return scanMatchRows(rows)
}

func scanMatchRows(rows *sql.Rows) ([]MatchRow, error) {
	var out []MatchRow
	for rows.Next() {
		var row MatchRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Company, pq.Array(&row.Skills), &row.Experience, &row.Similarity); err != nil {
			return nil, fmt.Errorf("shortlist scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
