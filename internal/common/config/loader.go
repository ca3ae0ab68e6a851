// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"skillmatch/internal/matching"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV overrides like DATABASE_POSTGRES_HOST
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overrides, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	// Try multiple paths for running from different directories.
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}

	// Fall back to the project root, located via go.mod.
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			_ = godotenv.Load(filepath.Join(dir, ".env"))
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "skillmatch"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 5000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Search.Backend == "" {
		cfg.Search.Backend = "pgvector"
	}
	if cfg.Search.RecruitThreshold == 0 {
		cfg.Search.RecruitThreshold = 0.3
	}
	if cfg.Search.CandidateThreshold == 0 {
		cfg.Search.CandidateThreshold = 0.3
	}
	if cfg.Search.ShortlistLimit == 0 {
		cfg.Search.ShortlistLimit = 50
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.QueryTimeout == 0 {
		cfg.Search.QueryTimeout = 5000
	}
	if cfg.Search.SeekerWeights == (matching.Weights{}) {
		cfg.Search.SeekerWeights = matching.DefaultSeekerWeights
	}
	if cfg.Search.RecruiterWeights == (matching.Weights{}) {
		cfg.Search.RecruiterWeights = matching.DefaultRecruiterWeights
	}

	if cfg.Cache.SearchTTL == 0 {
		cfg.Cache.SearchTTL = 60
	}
	if cfg.Cache.StaticTTL == 0 {
		cfg.Cache.StaticTTL = 600
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 300
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Search.Backend {
	case "pgvector", "elasticsearch":
	default:
		return fmt.Errorf("unknown search backend: %q", cfg.Search.Backend)
	}

	if cfg.Search.Backend == "elasticsearch" && len(cfg.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch backend selected but no addresses configured")
	}

	for _, w := range []matching.Weights{cfg.Search.SeekerWeights, cfg.Search.RecruiterWeights} {
		if w.Vector < 0 || w.Overlap < 0 || w.Coverage < 0 || w.Extra < 0 {
			return fmt.Errorf("scoring weights must be non-negative: %+v", w)
		}
	}

	if cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}

	return nil
}
