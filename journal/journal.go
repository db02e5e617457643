// Package journal persists the capital balance and the append-only trade
// log. The engine only sees the Store interface, so it runs the same against
// memory, SQLite, JSON files or Redis.
package journal

import (
	"context"
	"strconv"
	"time"

	"github.com/rustyeddy/cryptopilot/signals"
)

// Trade is one simulated execution. Trades are appended, never edited.
type Trade struct {
	ID         string       `json:"id"`
	Symbol     string       `json:"symbol"`
	Side       signals.Side `json:"side"`
	EntryPrice float64      `json:"entry"`
	ExitPrice  float64      `json:"exit"`
	Quantity   float64      `json:"qty"`
	PnL        float64      `json:"pnl"`
	Strategy   string       `json:"strategy"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Fields flattens the trade into a key-value map.
func (t Trade) Fields() map[string]string {
	return map[string]string{
		"id":          t.ID,
		"symbol":      t.Symbol,
		"side":        string(t.Side),
		"entry_price": f(t.EntryPrice),
		"exit_price":  f(t.ExitPrice),
		"quantity":    f(t.Quantity),
		"pnl":         f(t.PnL),
		"strategy":    t.Strategy,
		"timestamp":   t.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Store is the persisted ledger state.
type Store interface {
	// Balance returns the stored balance. ok is false when nothing has been
	// stored yet and the caller should fall back to its starting capital.
	Balance(ctx context.Context) (balance float64, ok bool, err error)

	// Apply appends t and stores balance as one write. Implementations must
	// not leave the trade recorded without the balance or the reverse.
	Apply(ctx context.Context, t Trade, balance float64) error

	// TradesBetween returns trades with start <= Timestamp < end, oldest
	// first.
	TradesBetween(ctx context.Context, start, end time.Time) ([]Trade, error)

	Close() error
}

// DayBounds returns the UTC calendar day containing t as [start, end).
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
