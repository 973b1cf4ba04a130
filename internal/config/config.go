// Package config provides loading and fail-fast validation of the analysis configuration.
//
// Missing or malformed configuration is a hard startup error. There are no
// built-in fallback tables or scoring weights: running with partially
// defaulted weights would silently change ranking semantics.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// weightSumTolerance is the allowed floating-point drift when checking that
// the five scoring weights sum to 1.0.
const weightSumTolerance = 1e-6

// Config is the full analysis configuration loaded from a JSON file.
type Config struct {
	// Catalog holds connection settings for the external skill catalog.
	Catalog CatalogConfig `json:"catalog" validate:"required"`

	// ShortForms expands short abbreviations before matching, e.g. "js" -> "JavaScript".
	ShortForms map[string]string `json:"short_forms" validate:"required,min=1"`

	// Aliases maps free-form technology terms to canonical catalog skill names,
	// e.g. "reactjs" -> "React.js".
	Aliases map[string]string `json:"aliases" validate:"required,min=1"`

	// Extensions maps file extensions (with leading dot) to technologies,
	// e.g. ".ts" -> "TypeScript".
	Extensions map[string]string `json:"extensions" validate:"required,min=1"`

	// SpecialFiles maps filename substrings to technologies,
	// e.g. "package-lock" -> "Node.js".
	SpecialFiles map[string]string `json:"special_files" validate:"required,min=1"`

	// Hierarchy lists skill implications: matching the key skill also implies
	// each listed skill at the given fractional weight,
	// e.g. "React Native" -> {"JavaScript": 0.7}.
	Hierarchy map[string]map[string]float64 `json:"hierarchy"`

	// CategoryInference optionally credits a skill matching the category name
	// of each directly matched skill.
	CategoryInference CategoryInferenceConfig `json:"category_inference"`

	Scoring     ScoringConfig     `json:"scoring" validate:"required"`
	Explanation ExplanationConfig `json:"explanation" validate:"required"`
	Evidence    EvidenceConfig    `json:"evidence" validate:"required"`
}

// CatalogConfig holds skill-catalog client settings.
type CatalogConfig struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	APIKey  string `json:"api_key,omitempty"`
}

// CategoryInferenceConfig gates the optional category-level generalization pass.
type CategoryInferenceConfig struct {
	Enabled bool    `json:"enabled"`
	Weight  float64 `json:"weight" validate:"gte=0,lte=1"`
}

// ScoringConfig holds the weights and bounds for confidence scoring.
type ScoringConfig struct {
	Weights ComponentWeights `json:"weights" validate:"required"`

	// BaseScore is the floor confidence granted to any skill with at least
	// one accepted match.
	BaseScore float64 `json:"base_score" validate:"gte=0,lte=100"`
	MaxScore  float64 `json:"max_score" validate:"gt=0,lte=100"`

	// MinScore drops skills scoring below it from the final output.
	MinScore int `json:"min_score" validate:"gte=0,lte=100"`

	// MaxResults caps the final ranked list; 0 means unbounded.
	MaxResults int `json:"max_results" validate:"gte=0"`
}

// ComponentWeights weights the five score components. They must sum to 1.0.
type ComponentWeights struct {
	Language       float64 `json:"language" validate:"gte=0,lte=1"`
	Commit         float64 `json:"commit" validate:"gte=0,lte=1"`
	PR             float64 `json:"pr" validate:"gte=0,lte=1"`
	ProjectQuality float64 `json:"project_quality" validate:"gte=0,lte=1"`
	Recency        float64 `json:"recency" validate:"gte=0,lte=1"`
}

// Sum returns the total of all five weights.
func (w ComponentWeights) Sum() float64 {
	return w.Language + w.Commit + w.PR + w.ProjectQuality + w.Recency
}

// ExplanationConfig holds the thresholds that drive explanation clauses.
type ExplanationConfig struct {
	StrongUsage   float64 `json:"strong_usage" validate:"gt=0,lte=100"`
	ModerateUsage float64 `json:"moderate_usage" validate:"gt=0,lte=100"`
	ActiveCommits float64 `json:"active_commits" validate:"gt=0,lte=100"`
	SignificantPR float64 `json:"significant_pr" validate:"gt=0,lte=100"`
	QualityRepos  float64 `json:"quality_repos" validate:"gt=0,lte=100"`
	RecentWork    float64 `json:"recent_work" validate:"gt=0,lte=100"`
	OngoingWork   float64 `json:"ongoing_work" validate:"gt=0,lte=100"`
}

// EvidenceConfig caps evidence collection per source and overall.
type EvidenceConfig struct {
	MaxRepos       int `json:"max_repos" validate:"gt=0"`
	MaxPRs         int `json:"max_prs" validate:"gt=0"`
	MaxCommitRepos int `json:"max_commit_repos" validate:"gt=0"`
	MaxStars       int `json:"max_stars" validate:"gt=0"`
	MaxTotal       int `json:"max_total" validate:"gt=0"`
}

// Load reads, schema-checks, and validates a configuration file.
// Any problem is a hard error; the pipeline must not run without a
// complete configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse schema-checks and validates raw configuration JSON.
func Parse(data []byte) (*Config, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks semantic invariants that struct tags cannot express.
func (c *Config) Validate() error {
	if sum := c.Scoring.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("config error: scoring weights must sum to 1.0, got %.6f", sum)
	}

	if c.Scoring.BaseScore > c.Scoring.MaxScore {
		return fmt.Errorf("config error: base_score %.1f exceeds max_score %.1f",
			c.Scoring.BaseScore, c.Scoring.MaxScore)
	}

	if c.Explanation.ModerateUsage >= c.Explanation.StrongUsage {
		return fmt.Errorf("config error: moderate_usage threshold must be below strong_usage")
	}
	if c.Explanation.OngoingWork >= c.Explanation.RecentWork {
		return fmt.Errorf("config error: ongoing_work threshold must be below recent_work")
	}

	if c.CategoryInference.Enabled && c.CategoryInference.Weight <= 0 {
		return fmt.Errorf("config error: category_inference.weight must be positive when enabled")
	}

	for skill, implied := range c.Hierarchy {
		for name, weight := range implied {
			if weight < 0 || weight > 1 {
				return fmt.Errorf("config error: hierarchy weight for %q -> %q must be in [0,1], got %v",
					skill, name, weight)
			}
		}
	}

	return nil
}
