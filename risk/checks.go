package risk

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/cryptopilot/market"
)

// ErrLossLimitExceeded stops a run once today's realized losses reach the
// policy limit. It is an expected halt, not a failure.
var ErrLossLimitExceeded = errors.New("daily loss limit exceeded")

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	DailyLossPct float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Err returns nil for an allowed decision and an error wrapping
// ErrLossLimitExceeded otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	msg := "blocked"
	if len(d.Violations) > 0 {
		msg = d.Violations[0].Msg
	}
	return fmt.Errorf("%w: %s", ErrLossLimitExceeded, msg)
}

// DailyLossPct is the sum of today's losing trades as a percentage of
// balance, rounded to 2 places. Winning trades do not offset losses. A
// non-positive balance counts as a total loss.
func DailyLossPct(pnls []float64, balance float64) float64 {
	if balance <= 0 {
		return 100
	}
	loss := 0.0
	for _, p := range pnls {
		if p < 0 {
			loss += p
		}
	}
	return market.Round(-loss/balance*100, 2)
}

// CheckDailyLoss applies the circuit breaker: a loss at or above the limit
// blocks the run.
func CheckDailyLoss(p Policy, dailyLossPct float64) Decision {
	d := Decision{Allowed: true, DailyLossPct: dailyLossPct}
	if dailyLossPct >= p.MaxDailyLossPct {
		d.add("DAILY_LOSS_LIMIT",
			fmt.Sprintf("daily loss %.2f%% >= limit %.2f%%", dailyLossPct, p.MaxDailyLossPct))
	}
	return d
}
