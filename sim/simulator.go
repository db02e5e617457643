package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/cryptopilot/journal"
	"github.com/rustyeddy/cryptopilot/market"
	"github.com/rustyeddy/cryptopilot/pkg/id"
	"github.com/rustyeddy/cryptopilot/risk"
	"github.com/rustyeddy/cryptopilot/signals"
)

// Simulator fills signals at their take-profit. It never fills at the stop;
// losses only reach the ledger through trades recorded by other means.
type Simulator struct {
	ledger *Ledger
	policy risk.Policy
}

func NewSimulator(l *Ledger, p risk.Policy) *Simulator {
	return &Simulator{ledger: l, policy: p}
}

func (s *Simulator) Ledger() *Ledger { return s.ledger }

// Simulate sizes sig against the current balance, books the trade and
// returns it. Quantity and PnL are kept to 4 places.
func (s *Simulator) Simulate(ctx context.Context, sig signals.Signal) (journal.Trade, error) {
	t, _, err := s.ledger.Apply(ctx, func(balance float64) (journal.Trade, error) {
		return s.trade(sig, balance), nil
	})
	return t, err
}

func (s *Simulator) trade(sig signals.Signal, balance float64) journal.Trade {
	sized := risk.Calculate(risk.Inputs{
		Balance:      balance,
		RiskFraction: s.policy.RiskFraction,
		EntryPrice:   sig.Entry,
		StopPrice:    sig.StopLoss,
	})
	qty := market.Round(sized.Quantity, 4)
	exit := sig.TakeProfit

	at := sig.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	return journal.Trade{
		ID:         id.NewAt(at),
		Symbol:     sig.Symbol,
		Side:       sig.Side,
		EntryPrice: sig.Entry,
		ExitPrice:  exit,
		Quantity:   qty,
		PnL:        market.Round(risk.PnL(sig.Side, sig.Entry, exit, qty), 4),
		Strategy:   sig.Strategy,
		Timestamp:  at,
	}
}

// SimulateAll books sigs one after another in the given order and stops at
// the first storage error.
func (s *Simulator) SimulateAll(ctx context.Context, sigs []signals.Signal) ([]journal.Trade, error) {
	trades := make([]journal.Trade, 0, len(sigs))
	for _, sig := range sigs {
		if err := ctx.Err(); err != nil {
			return trades, err
		}
		t, err := s.Simulate(ctx, sig)
		if err != nil {
			return trades, fmt.Errorf("simulate %s %s: %w", sig.Symbol, sig.Strategy, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// DailyLossPct measures the UTC day containing now against the current
// balance.
func (s *Simulator) DailyLossPct(ctx context.Context, now time.Time) (float64, error) {
	bal, err := s.ledger.Balance(ctx)
	if err != nil {
		return 0, err
	}
	start, end := journal.DayBounds(now)
	trades, err := s.ledger.store.TradesBetween(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("load today's trades: %w", err)
	}
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}
	return risk.DailyLossPct(pnls, bal), nil
}

// CheckBreaker evaluates the daily-loss circuit breaker for now.
func (s *Simulator) CheckBreaker(ctx context.Context, now time.Time) (risk.Decision, error) {
	pct, err := s.DailyLossPct(ctx, now)
	if err != nil {
		return risk.Decision{}, err
	}
	return risk.CheckDailyLoss(s.policy, pct), nil
}
