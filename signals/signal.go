// Package signals holds the trade proposal value type and the ranking of a
// candidate pool.
package signals

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/cryptopilot/regime"
)

// Side is the direction of a proposal.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// SideFor maps a trend to the side a strategy trades it with.
func SideFor(t regime.Trend) Side {
	if t == regime.Bullish {
		return Long
	}
	return Short
}

// Signal is an immutable trade proposal. Values are built by the
// strategies package and passed around by copy.
type Signal struct {
	Symbol    string
	Timeframe string
	Strategy  string
	Side      Side

	Entry       float64
	StopLoss    float64
	TakeProfit  float64
	Liquidation float64

	RSI    float64
	Trend  regime.Trend
	Regime regime.Regime

	Confidence   float64
	PositionSize float64
	ForecastPnL  float64
	Score        float64

	// MACDHist is only meaningful when HasMACD is true.
	MACDHist    float64
	HasMACD     bool
	BBBreakout  bool
	VolumeSpike bool
	DailyChange float64

	Timestamp time.Time
}

// Fields flattens the signal into a key-value map for notification and
// report collaborators.
func (s Signal) Fields() map[string]string {
	m := map[string]string{
		"symbol":        s.Symbol,
		"timeframe":     s.Timeframe,
		"strategy":      s.Strategy,
		"side":          string(s.Side),
		"entry":         ff(s.Entry),
		"stop_loss":     ff(s.StopLoss),
		"take_profit":   ff(s.TakeProfit),
		"liquidation":   ff(s.Liquidation),
		"rsi":           ff(s.RSI),
		"trend":         string(s.Trend),
		"regime":        string(s.Regime),
		"confidence":    ff(s.Confidence),
		"position_size": ff(s.PositionSize),
		"forecast_pnl":  ff(s.ForecastPnL),
		"score":         ff(s.Score),
		"bb_breakout":   yesNo(s.BBBreakout),
		"vol_spike":     strconv.FormatBool(s.VolumeSpike),
		"daily_change":  ff(s.DailyChange),
		"timestamp":     s.Timestamp.UTC().Format(time.RFC3339),
	}
	if s.HasMACD {
		m["macd_hist"] = ff(s.MACDHist)
	} else {
		m["macd_hist"] = ""
	}
	return m
}

// Format renders the human-readable block posted by chat adapters.
func Format(s Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] | %s\n", s.Symbol, s.Side, s.Strategy)
	fmt.Fprintf(&b, "Entry: %s | TP: %s | SL: %s\n", ff(s.Entry), ff(s.TakeProfit), ff(s.StopLoss))
	fmt.Fprintf(&b, "Confidence: %s%% | Score: %s\n", ff(s.Confidence), ff(s.Score))
	fmt.Fprintf(&b, "Regime: %s | Trend: %s\n", s.Regime, s.Trend)
	fmt.Fprintf(&b, "Timestamp: %s", s.Timestamp.UTC().Format(time.RFC3339))
	return b.String()
}

func ff(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
