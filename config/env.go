package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides. Values here win over the config file.
const (
	EnvStartCapital    = "PILOT_START_CAPITAL"
	EnvMaxDailyLossPct = "PILOT_MAX_DAILY_LOSS_PCT"
	EnvTakeProfitPct   = "PILOT_TAKE_PROFIT_PCT"
	EnvStopLossPct     = "PILOT_STOP_LOSS_PCT"
	EnvLeverage        = "PILOT_LEVERAGE"
	EnvRiskFraction    = "PILOT_RISK_FRACTION"
	EnvTopN            = "PILOT_TOP_N"
	EnvStrategies      = "PILOT_STRATEGIES"
	EnvJournalType     = "PILOT_JOURNAL_TYPE"
	EnvDBPath          = "PILOT_DB_PATH"
	EnvRedisAddr       = "PILOT_REDIS_ADDR"
	EnvRedisPassword   = "PILOT_REDIS_PASSWORD"
	EnvLogLevel        = "PILOT_LOG_LEVEL"
)

var envKeys = []string{
	EnvStartCapital, EnvMaxDailyLossPct, EnvTakeProfitPct, EnvStopLossPct,
	EnvLeverage, EnvRiskFraction, EnvTopN, EnvStrategies, EnvJournalType,
	EnvDBPath, EnvRedisAddr, EnvRedisPassword, EnvLogLevel,
}

// LoadEnv applies PILOT_* overrides from the process environment. Keys the
// environment does not set are taken from the dotenv files, if they exist.
func (c *Config) LoadEnv(files ...string) error {
	env := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range m {
			env[k] = v
		}
	}
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return c.ApplyEnv(env)
}

// ApplyEnv applies the PILOT_* entries of env. Empty values are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	floats := map[string]*float64{
		EnvStartCapital:    &c.Engine.StartCapital,
		EnvMaxDailyLossPct: &c.Engine.MaxDailyLossPct,
		EnvTakeProfitPct:   &c.Engine.TakeProfitPct,
		EnvStopLossPct:     &c.Engine.StopLossPct,
		EnvLeverage:        &c.Engine.Leverage,
		EnvRiskFraction:    &c.Engine.RiskFraction,
	}
	for k, dst := range floats {
		v := strings.TrimSpace(env[k])
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*dst = f
	}

	if v := strings.TrimSpace(env[EnvTopN]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTopN, err)
		}
		c.Engine.TopN = n
	}
	if v := strings.TrimSpace(env[EnvStrategies]); v != "" {
		var names []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				names = append(names, s)
			}
		}
		c.Engine.Strategies = names
	}

	strs := map[string]*string{
		EnvJournalType:   &c.Journal.Type,
		EnvDBPath:        &c.Journal.DBPath,
		EnvRedisAddr:     &c.Journal.Redis.Addr,
		EnvRedisPassword: &c.Journal.Redis.Password,
		EnvLogLevel:      &c.Log.Level,
	}
	for k, dst := range strs {
		if v := env[k]; v != "" {
			*dst = v
		}
	}
	return nil
}
