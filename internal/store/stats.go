// internal/store/stats.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"skillmatch/internal/common/logger"
)

// SkillFrequency is one entry of a top-skills ranking.
type SkillFrequency struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// StatsStore aggregates skill demand and supply figures across the corpus.
type StatsStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStatsStore(db *sql.DB, log logger.Logger) *StatsStore {
	return &StatsStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "stats"}),
	}
}

// TopSkillsForPostings returns the most requested skills across job postings.
func (s *StatsStore) TopSkillsForPostings(ctx context.Context, topN int) ([]SkillFrequency, error) {
	return s.topSkills(ctx, `
		WITH exploded AS (
			SELECT lower(unnest(skills)) AS skill
			FROM recruit_info
		)
		SELECT skill, COUNT(*) AS cnt
		FROM exploded
		GROUP BY skill
		ORDER BY cnt DESC, skill
		LIMIT $1`, topN)
}

// TopSkillsForCandidates returns the most offered skills across candidate
// profiles.
func (s *StatsStore) TopSkillsForCandidates(ctx context.Context, topN int) ([]SkillFrequency, error) {
	return s.topSkills(ctx, `
		WITH exploded AS (
			SELECT lower(unnest(skills)) AS skill
			FROM candidate_info
		)
		SELECT skill, COUNT(*) AS cnt
		FROM exploded
		GROUP BY skill
		ORDER BY cnt DESC, skill
		LIMIT $1`, topN)
}

func (s *StatsStore) topSkills(ctx context.Context, query string, topN int) ([]SkillFrequency, error) {
	rows, err := s.db.QueryContext(ctx, query, topN)
	if err != nil {
		return nil, fmt.Errorf("top skills query: %w", err)
	}
	defer rows.Close()

	var out []SkillFrequency
	for rows.Next() {
		var sf SkillFrequency
		if err := rows.Scan(&sf.Skill, &sf.Count); err != nil {
			return nil, fmt.Errorf("top skills scan: %w", err)
		}
		out = append(out, sf)
	}
	return out, rows.Err()
}
