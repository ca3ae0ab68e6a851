// internal/search/stats.go
package search

import (
	"context"
	"time"

	stderrors "skillmatch/internal/common/errors"
	"skillmatch/internal/matching"
	"skillmatch/internal/store"
)

const defaultStatsTopN = 10

// StatisticsRequest asks for the skill demand/supply ranking on the side the
// given mode searches: seekers see posting demand, recruiters see candidate
// supply.
type StatisticsRequest struct {
	Mode string `json:"mode"`
	TopN int    `json:"topN,omitempty"`
}

type StatisticsResponse struct {
	Mode      string                 `json:"mode"`
	TopSkills []store.SkillFrequency `json:"topSkills"`
}

// FrequencyReader is the store slice the statistics endpoint needs.
type FrequencyReader interface {
	TopSkillsForPostings(ctx context.Context, topN int) ([]store.SkillFrequency, error)
	TopSkillsForCandidates(ctx context.Context, topN int) ([]store.SkillFrequency, error)
}

func (s *Service) Statistics(ctx context.Context, reader FrequencyReader, req StatisticsRequest) (*StatisticsResponse, error) {
	mode, err := matching.ParseMode(req.Mode)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeInvalidMode, "unknown search mode", err)
	}
	roles, err := matching.ResolveRoles(mode)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeInvalidMode, "unknown search mode", err)
	}

	topN := req.TopN
	if topN <= 0 {
		topN = defaultStatsTopN
	}

	key := store.StatisticsKey(string(mode), topN)
	if s.cacheCfg.Enabled && s.cache != nil {
		var cached StatisticsResponse
		if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	var top []store.SkillFrequency
	if roles.TargetDomain == matching.DomainCandidate {
		top, err = reader.TopSkillsForCandidates(ctx, topN)
	} else {
		top, err = reader.TopSkillsForPostings(ctx, topN)
	}
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeStatisticsQueryFailed, "skill statistics query failed", err)
	}

	resp := &StatisticsResponse{Mode: string(mode), TopSkills: top}
	if s.cacheCfg.Enabled && s.cache != nil {
		ttl := time.Duration(s.cacheCfg.StaticTTL) * time.Second
		if err := s.cache.SetJSON(ctx, key, resp, ttl); err != nil {
			s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return resp, nil
}
