// internal/common/config/config.go
package config

import (
	"fmt"

	"skillmatch/internal/matching"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	// Index names for the kNN backend, one per search domain.
	RecruitIndex   string `mapstructure:"recruit_index"`
	CandidateIndex string `mapstructure:"candidate_index"`
}

// --- Search Configuration ---

// SearchConfig drives the scoring and shortlist pipeline. The weight vectors
// are configuration by design: scoring behavior must be tunable without a
// rebuild.
type SearchConfig struct {
	// Backend selects the shortlist searcher: "pgvector" (default) or
	// "elasticsearch".
	Backend string `mapstructure:"backend"`

	// SimilarityThreshold is the minimum raw cosine similarity a shortlist
	// item must reach, per domain.
	RecruitThreshold   float64 `mapstructure:"recruit_threshold"`
	CandidateThreshold float64 `mapstructure:"candidate_threshold"`

	// ShortlistLimit bounds how many items the vector search returns before
	// ranking; DefaultLimit/MaxLimit bound the ranked result size.
	ShortlistLimit int `mapstructure:"shortlist_limit"`
	DefaultLimit   int `mapstructure:"default_limit"`
	MaxLimit       int `mapstructure:"max_limit"`

	// Parallelism bounds the scoring fan-out; zero means GOMAXPROCS.
	Parallelism int `mapstructure:"parallelism"`

	QueryTimeout int `mapstructure:"query_timeout"` // milliseconds

	SeekerWeights    matching.Weights `mapstructure:"seeker_weights"`
	RecruiterWeights matching.Weights `mapstructure:"recruiter_weights"`
}

// WeightsFor returns the configured weight vector for a mode.
func (s SearchConfig) WeightsFor(mode matching.Mode) matching.Weights {
	if mode == matching.ModeRecruiter {
		return s.RecruiterWeights
	}
	return s.SeekerWeights
}

// ThresholdFor returns the configured similarity threshold for a domain.
func (s SearchConfig) ThresholdFor(domain matching.Domain) float64 {
	if domain == matching.DomainCandidate {
		return s.CandidateThreshold
	}
	return s.RecruitThreshold
}

type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	SearchTTL  int  `mapstructure:"search_ttl"`  // seconds
	StaticTTL  int  `mapstructure:"static_ttl"`  // seconds, categories and stats
	DefaultTTL int  `mapstructure:"default_ttl"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
