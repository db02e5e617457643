package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrEmptySeries is returned when a series holds no bars at all.
var ErrEmptySeries = errors.New("empty price series")

// Bar represents one OHLCV price bar. Open is carried for completeness but
// nothing in the engine reads it, so a zero Open is accepted.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks that prices are positive and finite and that volume is a
// finite non-negative number.
func (b Bar) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"high", b.High}, {"low", b.Low}, {"close", b.Close}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return fmt.Errorf("%s must be positive and finite, got %v", p.name, p.v)
		}
	}
	if math.IsNaN(b.Open) || math.IsInf(b.Open, 0) || b.Open < 0 {
		return fmt.Errorf("open must be finite and non-negative, got %v", b.Open)
	}
	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
		return fmt.Errorf("volume must be finite and non-negative, got %v", b.Volume)
	}
	return nil
}

// Series is a chronologically ordered run of bars for one instrument.
type Series []Bar

// Validate checks every bar and the chronological order of timestamped bars.
func (s Series) Validate() error {
	if len(s) == 0 {
		return ErrEmptySeries
	}
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bar %d: %w", i, err)
		}
		if i > 0 && !b.Time.IsZero() && !s[i-1].Time.IsZero() && b.Time.Before(s[i-1].Time) {
			return fmt.Errorf("bar %d: time %s before previous %s", i, b.Time, s[i-1].Time)
		}
	}
	return nil
}

// Closes returns the close prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the bar volumes in order.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar. ok is false for an empty series.
func (s Series) Last() (b Bar, ok bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}
