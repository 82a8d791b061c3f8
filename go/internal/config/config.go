package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config holds the tunable parameters of the draft engine.
type Config struct {
	Trade        TradeConfig        `yaml:"trade"`
	Strategy     StrategyConfig     `yaml:"strategy"`
	Evaluation   EvaluationConfig   `yaml:"evaluation"`
	AutoPick     AutoPickConfig     `yaml:"autopick"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Outbox       OutboxConfig       `yaml:"outbox"`
	NATS         NATSConfig         `yaml:"nats"`
}

type TradeConfig struct {
	// FairnessThreshold is the largest accepted |from-to| / max(from,to).
	FairnessThreshold float64          `yaml:"fairness_threshold"`
	ValueChart        ValueChartConfig `yaml:"value_chart"`
}

type ValueChartConfig struct {
	Values   []float64 `yaml:"values"`
	TailStep float64   `yaml:"tail_step"`
	Floor    float64   `yaml:"floor"`
}

type StrategyConfig struct {
	DefaultBPAWeight    int                `yaml:"default_bpa_weight"`
	DefaultNeedWeight   int                `yaml:"default_need_weight"`
	FallbackMultiplier  float64            `yaml:"fallback_multiplier"`
	PositionMultipliers map[string]float64 `yaml:"position_multipliers"`
}

type EvaluationConfig struct {
	DefaultCombineScore float64                `yaml:"default_combine_score"`
	Ranges              map[string]RangeConfig `yaml:"ranges"`
}

// RangeConfig is the linear normalization window of one measurement.
type RangeConfig struct {
	Min           float64 `yaml:"min"`
	Max           float64 `yaml:"max"`
	LowerIsBetter bool    `yaml:"lower_is_better"`
}

type AutoPickConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type OrchestratorConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	PickDelay    time.Duration `yaml:"pick_delay"`
	Workers      int           `yaml:"workers"`
}

type OutboxConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
	MinReconnect time.Duration `yaml:"min_reconnect"`
	MaxReconnect time.Duration `yaml:"max_reconnect"`
}

type NATSConfig struct {
	URL                string        `yaml:"url"`
	Stream             string        `yaml:"stream"`
	SubjectPrefix      string        `yaml:"subject_prefix"`
	BreakerMaxFailures uint32        `yaml:"breaker_max_failures"`
	BreakerTimeout     time.Duration `yaml:"breaker_timeout"`
}

// Default returns the embedded configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return &cfg
}

// Load reads the YAML file at path on top of the embedded defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the engine relies on.
func (c *Config) Validate() error {
	if c.Trade.FairnessThreshold <= 0 || c.Trade.FairnessThreshold >= 1 {
		return fmt.Errorf("trade.fairness_threshold must be in (0,1), got %v", c.Trade.FairnessThreshold)
	}
	chart := c.Trade.ValueChart
	if len(chart.Values) == 0 {
		return fmt.Errorf("trade.value_chart.values must not be empty")
	}
	for i := 1; i < len(chart.Values); i++ {
		if chart.Values[i] > chart.Values[i-1] {
			return fmt.Errorf("trade.value_chart.values must be non-increasing (pick %d)", i+1)
		}
	}
	if chart.TailStep < 0 || chart.Floor < 0 {
		return fmt.Errorf("trade.value_chart tail_step and floor must be non-negative")
	}

	if c.Strategy.DefaultBPAWeight < 0 || c.Strategy.DefaultNeedWeight < 0 ||
		c.Strategy.DefaultBPAWeight+c.Strategy.DefaultNeedWeight != 100 {
		return fmt.Errorf("strategy default weights must be non-negative and sum to 100")
	}
	for pos, m := range c.Strategy.PositionMultipliers {
		if m <= 0 {
			return fmt.Errorf("strategy.position_multipliers[%s] must be positive", pos)
		}
	}

	for name, r := range c.Evaluation.Ranges {
		if r.Max <= r.Min {
			return fmt.Errorf("evaluation.ranges[%s]: max must exceed min", name)
		}
	}

	if c.AutoPick.MaxAttempts < 1 {
		return fmt.Errorf("autopick.max_attempts must be at least 1")
	}
	if c.Orchestrator.Workers < 1 {
		return fmt.Errorf("orchestrator.workers must be at least 1")
	}
	return nil
}
