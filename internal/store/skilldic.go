// internal/store/skilldic.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"skillmatch/internal/common/logger"
)

// SkillDictionaryStore reads the skill embedding dictionary from Postgres.
// Every known skill carries one precomputed embedding shared by both search
// directions.
type SkillDictionaryStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSkillDictionaryStore(db *sql.DB, log logger.Logger) *SkillDictionaryStore {
	return &SkillDictionaryStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "skill_dictionary"}),
	}
}

// ResolveMany looks up embeddings for a batch of skill names in one query.
// Skills without a dictionary entry are simply absent from the result map;
// the keys of the result are the caller's original spellings.
func (s *SkillDictionaryStore) ResolveMany(ctx context.Context, names []string) (map[string][]float32, error) {
	if len(names) == 0 {
		return map[string][]float32{}, nil
	}

	normalized := make([]string, 0, len(names))
	original := make(map[string][]string, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, seen := original[key]; !seen {
			normalized = append(normalized, key)
		}
		original[key] = append(original[key], name)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT lower(skill), embedding::text
		FROM skill_embedding_dic
		WHERE lower(skill) = ANY($1)`, pq.Array(normalized))
	if err != nil {
		return nil, fmt.Errorf("dictionary lookup: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float32, len(names))
	for rows.Next() {
		var skill, vecText string
		if err := rows.Scan(&skill, &vecText); err != nil {
			return nil, fmt.Errorf("dictionary scan: %w", err)
		}
		vec, err := ParseVector(vecText)
		if err != nil {
			s.logger.Warn("skipping dictionary entry with malformed embedding", map[string]interface{}{
				"skill": skill,
				"error": err.Error(),
			})
			continue
		}
		for _, orig := range original[skill] {
			out[orig] = vec
		}
	}
	return out, rows.Err()
}

// SkillCategory pairs a dictionary skill with its category label.
type SkillCategory struct {
	Skill    string `json:"skill"`
	Category string `json:"category"`
}

// AllWithCategory returns every dictionary skill that has a category label.
func (s *SkillDictionaryStore) AllWithCategory(ctx context.Context) ([]SkillCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT skill, category
		FROM skill_embedding_dic
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category, skill`)
	if err != nil {
		return nil, fmt.Errorf("categories lookup: %w", err)
	}
	defer rows.Close()

	var out []SkillCategory
	for rows.Next() {
		var sc SkillCategory
		if err := rows.Scan(&sc.Skill, &sc.Category); err != nil {
			return nil, fmt.Errorf("categories scan: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
