package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var tradeHeader = []string{"trade_id", "symbol", "side", "entry_price", "exit_price", "quantity", "pnl", "strategy", "timestamp"}

// WriteTradesCSV writes a header row followed by one row per trade.
func WriteTradesCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.Symbol,
			string(t.Side),
			f6(t.EntryPrice),
			f6(t.ExitPrice),
			f6(t.Quantity),
			f6(t.PnL),
			t.Strategy,
			t.Timestamp.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f6(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
