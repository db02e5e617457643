package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the ledger in process memory. It is the store for dry
// runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	balance float64
	set     bool
	trades  []Trade
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Balance(ctx context.Context) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance, m.set, nil
}

func (m *MemoryStore) Apply(ctx context.Context, t Trade, balance float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, t)
	m.balance = balance
	m.set = true
	return nil
}

func (m *MemoryStore) TradesBetween(ctx context.Context, start, end time.Time) ([]Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Trade
	for _, t := range m.trades {
		if inRange(t.Timestamp, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Trades returns a copy of every recorded trade.
func (m *MemoryStore) Trades() []Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Trade, len(m.trades))
	copy(out, m.trades)
	return out
}

func (m *MemoryStore) Close() error { return nil }
