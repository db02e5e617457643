package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/cryptopilot/journal"
	"github.com/rustyeddy/cryptopilot/risk"
	"github.com/rustyeddy/cryptopilot/strategies"
)

// Config represents the complete pilot configuration
type Config struct {
	Engine  Engine        `json:"engine" yaml:"engine"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// Engine contains the sizing, breaker and ranking parameters of a run
type Engine struct {
	StartCapital    float64  `json:"start_capital" yaml:"start_capital"`
	MaxDailyLossPct float64  `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	TakeProfitPct   float64  `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct     float64  `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	Leverage        float64  `json:"leverage" yaml:"leverage"`
	RiskFraction    float64  `json:"risk_fraction" yaml:"risk_fraction"`
	TopN            int      `json:"top_n" yaml:"top_n"`
	Strategies      []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	Concurrency     int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // 0 = one per CPU
	Timeframe       string   `json:"timeframe,omitempty" yaml:"timeframe,omitempty"`
}

// Policy returns the breaker and sizing policy.
func (e Engine) Policy() risk.Policy {
	return risk.Policy{MaxDailyLossPct: e.MaxDailyLossPct, RiskFraction: e.RiskFraction}
}

// Params returns the signal-building parameters for the given balance.
func (e Engine) Params(balance float64) strategies.Params {
	return strategies.Params{
		TakeProfitPct: e.TakeProfitPct,
		StopLossPct:   e.StopLossPct,
		Leverage:      e.Leverage,
		RiskAmount:    risk.RiskAmount(balance, e.RiskFraction),
	}
}

// JournalConfig selects where the balance and trade log are stored
type JournalConfig struct {
	Type        string      `json:"type" yaml:"type"` // memory, sqlite, json or redis
	DBPath      string      `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CapitalFile string      `json:"capital_file,omitempty" yaml:"capital_file,omitempty"`
	TradesFile  string      `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	Redis       RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Options converts the section into journal.Open options.
func (j JournalConfig) Options() journal.Options {
	return journal.Options{
		Type:        j.Type,
		DBPath:      j.DBPath,
		CapitalFile: j.CapitalFile,
		TradesFile:  j.TradesFile,
		Redis: journal.RedisOptions{
			Addr:     j.Redis.Addr,
			Password: j.Redis.Password,
			DB:       j.Redis.DB,
			Prefix:   j.Redis.Prefix,
		},
	}
}

type LogConfig struct {
	Level   string `json:"level" yaml:"level"`
	Console bool   `json:"console,omitempty" yaml:"console,omitempty"`
}

type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unset keys keep their defaults.
	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	e := c.Engine
	if e.StartCapital <= 0 {
		return fmt.Errorf("engine.start_capital must be positive")
	}
	if e.MaxDailyLossPct <= 0 || e.MaxDailyLossPct > 100 {
		return fmt.Errorf("engine.max_daily_loss_pct must be between 0 and 100")
	}
	if e.TakeProfitPct <= 0 {
		return fmt.Errorf("engine.take_profit_pct must be positive")
	}
	if e.StopLossPct <= 0 || e.StopLossPct >= 1 {
		return fmt.Errorf("engine.stop_loss_pct must be between 0 and 1")
	}
	if e.Leverage < 1 {
		return fmt.Errorf("engine.leverage must be at least 1")
	}
	if e.RiskFraction <= 0 || e.RiskFraction > 1 {
		return fmt.Errorf("engine.risk_fraction must be between 0 and 1")
	}
	if e.TopN <= 0 {
		return fmt.Errorf("engine.top_n must be positive")
	}
	if e.Concurrency < 0 {
		return fmt.Errorf("engine.concurrency must not be negative")
	}
	if _, err := strategies.ByNames(e.Strategies); err != nil {
		return fmt.Errorf("engine.strategies: %w", err)
	}

	j := c.Journal
	switch j.Type {
	case journal.TypeMemory:
	case journal.TypeSQLite:
		if j.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case journal.TypeFile:
		if j.CapitalFile == "" || j.TradesFile == "" {
			return fmt.Errorf("journal capital_file and trades_file required for json type")
		}
	case journal.TypeRedis:
		if j.Redis.Addr == "" {
			return fmt.Errorf("journal redis.addr required for redis type")
		}
	default:
		return fmt.Errorf("journal.type must be one of memory, sqlite, json, redis")
	}
	return nil
}

// Default returns a configuration with the documented defaults
func Default() *Config {
	return &Config{
		Engine: Engine{
			StartCapital:    10,
			MaxDailyLossPct: risk.DefaultMaxDailyLossPct,
			TakeProfitPct:   0.25,
			StopLossPct:     0.10,
			Leverage:        20,
			RiskFraction:    risk.DefaultRiskFraction,
			TopN:            5,
			Strategies:      []string{"trend", "mean-reversion", "scalp"},
			Timeframe:       "1h",
		},
		Journal: JournalConfig{
			Type:   journal.TypeSQLite,
			DBPath: "./pilot.db",
		},
		Log: LogConfig{Level: "info"},
	}
}
