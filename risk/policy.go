package risk

// Defaults for Policy.
const (
	DefaultMaxDailyLossPct = 15.0
	DefaultRiskFraction    = 0.02
)

// Policy holds the account-level limits applied by a run.
type Policy struct {
	// MaxDailyLossPct is in percent of balance: 15 means 15%.
	MaxDailyLossPct float64

	// RiskFraction is the share of balance risked per trade: 0.02 means 2%.
	RiskFraction float64
}

// DefaultPolicy returns the stock limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxDailyLossPct: DefaultMaxDailyLossPct,
		RiskFraction:    DefaultRiskFraction,
	}
}
