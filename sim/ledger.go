// Package sim applies selected signals to the capital ledger as simulated
// trades.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/cryptopilot/journal"
	"github.com/rustyeddy/cryptopilot/market"
)

// Ledger is the single writer of the capital balance. Every mutation runs
// read balance, build trade, persist trade and balance under one lock.
type Ledger struct {
	mu    sync.Mutex
	store journal.Store
	start float64
}

// NewLedger wraps store. start is the balance used until the store holds
// one of its own.
func NewLedger(store journal.Store, start float64) *Ledger {
	return &Ledger{store: store, start: start}
}

func (l *Ledger) Store() journal.Store { return l.store }

// Balance returns the persisted balance, or the starting capital for an
// empty store.
func (l *Ledger) Balance(ctx context.Context) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(ctx)
}

func (l *Ledger) balanceLocked(ctx context.Context) (float64, error) {
	b, ok, err := l.store.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	if !ok {
		return l.start, nil
	}
	return b, nil
}

// Apply reads the balance, asks build for the trade it produces and
// persists the trade with balance+PnL. It returns the trade and the new
// balance. Nothing is written when build fails.
func (l *Ledger) Apply(ctx context.Context, build func(balance float64) (journal.Trade, error)) (journal.Trade, float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal, err := l.balanceLocked(ctx)
	if err != nil {
		return journal.Trade{}, 0, err
	}
	t, err := build(bal)
	if err != nil {
		return journal.Trade{}, bal, err
	}

	next := market.Round(bal+t.PnL, 4)
	if err := l.store.Apply(ctx, t, next); err != nil {
		return journal.Trade{}, bal, fmt.Errorf("persist trade %s: %w", t.ID, err)
	}
	return t, next, nil
}
