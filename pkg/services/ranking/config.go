package ranking

import (
	"fmt"
	"math"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const weightSumTolerance = 1e-9

// ConfigurationError is fatal: a broken configuration would silently corrupt
// every rank, so the batch must not start.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid ranking configuration: %s", e.Reason)
}

type weightsConfig struct {
	Growth    float64 `mapstructure:"growth" validate:"gte=0"`
	Balance   float64 `mapstructure:"balance" validate:"gte=0"`
	Stability float64 `mapstructure:"stability" validate:"gte=0"`
}

type bandConfig struct {
	Name string  `mapstructure:"name" validate:"required"`
	Min  float64 `mapstructure:"min" validate:"gte=0"`
	Max  float64 `mapstructure:"max"`
}

type Config struct {
	Weights         weightsConfig `mapstructure:"weights"`
	Bands           []bandConfig  `mapstructure:"bands" validate:"min=1,dive"`
	UndefinedPolicy string        `mapstructure:"undefined_policy" validate:"oneof=worst-case exclude"`
}

// LoadConfig reads a ranking configuration file and validates it.
// Any validation failure is a ConfigurationError.
func LoadConfig(path string) (*domain.RankingConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("undefined_policy", string(domain.PolicyWorstCase))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse ranking config: %w", err)
	}

	return cfg.Build()
}

// Build converts the file shape into a validated domain.RankingConfig.
func (c Config) Build() (*domain.RankingConfig, error) {
	if err := validator.New().Struct(c); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	bands := make([]domain.TurnoverBand, 0, len(c.Bands))
	for _, b := range c.Bands {
		bands = append(bands, domain.TurnoverBand{Name: b.Name, Min: b.Min, Max: b.Max})
	}

	cfg := domain.RankingConfig{
		Weights: domain.Weights{
			Growth:    c.Weights.Growth,
			Balance:   c.Weights.Balance,
			Stability: c.Weights.Stability,
		},
		Bands:           bands,
		UndefinedPolicy: domain.UndefinedMetricPolicy(c.UndefinedPolicy),
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig is the single semantic gate for ranking configuration; both
// the file loader and NewEngine go through it.
func validateConfig(cfg domain.RankingConfig) error {
	if cfg.Weights.Growth < 0 || cfg.Weights.Balance < 0 || cfg.Weights.Stability < 0 {
		return &ConfigurationError{Reason: "weights must be non-negative"}
	}
	sum := cfg.Weights.Growth + cfg.Weights.Balance + cfg.Weights.Stability
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ConfigurationError{Reason: fmt.Sprintf("weights must sum to 1.0, got %v", sum)}
	}
	switch cfg.UndefinedPolicy {
	case domain.PolicyWorstCase, domain.PolicyExclude:
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unknown undefined-metric policy %q", cfg.UndefinedPolicy)}
	}
	if len(cfg.Bands) == 0 {
		return &ConfigurationError{Reason: "at least one turnover band is required"}
	}
	return validateBands(cfg.Bands)
}

func validateBands(bands []domain.TurnoverBand) error {
	if bands[0].Min != 0 {
		return &ConfigurationError{Reason: "first band must start at 0 so zero-turnover organizations are covered"}
	}
	seen := make(map[string]struct{}, len(bands))
	for i, b := range bands {
		if _, dup := seen[b.Name]; dup {
			return &ConfigurationError{Reason: fmt.Sprintf("duplicate band name %q", b.Name)}
		}
		seen[b.Name] = struct{}{}

		last := i == len(bands)-1
		if b.Max <= 0 {
			if !last {
				return &ConfigurationError{Reason: fmt.Sprintf("band %q is unbounded but not last", b.Name)}
			}
			continue
		}
		if b.Max <= b.Min {
			return &ConfigurationError{Reason: fmt.Sprintf("band %q is empty: max %v <= min %v", b.Name, b.Max, b.Min)}
		}
		if !last && bands[i+1].Min != b.Max {
			return &ConfigurationError{
				Reason: fmt.Sprintf("bands %q and %q must be contiguous", b.Name, bands[i+1].Name),
			}
		}
	}
	return nil
}

// DefaultConfig returns the published methodology defaults: the seven fixed
// turnover bands and the 0.4/0.4/0.2 weighting.
func DefaultConfig() domain.RankingConfig {
	return domain.RankingConfig{
		Weights: domain.Weights{Growth: 0.4, Balance: 0.4, Stability: 0.2},
		Bands: []domain.TurnoverBand{
			{Name: "under-500k", Min: 0, Max: 500_000},
			{Name: "500k-1m", Min: 500_000, Max: 1_000_000},
			{Name: "1m-3m", Min: 1_000_000, Max: 3_000_000},
			{Name: "3m-5m", Min: 3_000_000, Max: 5_000_000},
			{Name: "5m-10m", Min: 5_000_000, Max: 10_000_000},
			{Name: "10m-50m", Min: 10_000_000, Max: 50_000_000},
			{Name: "over-50m", Min: 50_000_000, Max: 0},
		},
		UndefinedPolicy: domain.PolicyWorstCase,
	}
}
