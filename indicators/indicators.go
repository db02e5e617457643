// Package indicators provides batch technical analysis indicators over a
// price sequence. Every function is pure: the same input always yields the
// same output, so callers may evaluate symbols in parallel.
package indicators

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when a sequence is shorter than the warmup
// an indicator needs.
var ErrInsufficientData = errors.New("insufficient data")

// Value is one indicator sample. Valid is false during warmup; V must not be
// read (or treated as zero) in that case.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a defined Value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// None is the absence marker used for warmup entries.
var None = Value{}

// Series is an indicator output aligned 1:1 with its input sequence.
type Series []Value

// Len returns the number of samples, defined or not.
func (s Series) Len() int { return len(s) }

// Last returns the most recent sample, or None for an empty series.
func (s Series) Last() Value {
	if len(s) == 0 {
		return None
	}
	return s[len(s)-1]
}

// Defined returns the defined values in order, dropping warmup entries.
func (s Series) Defined() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v.Valid {
			out = append(out, v.V)
		}
	}
	return out
}

// Leading returns the number of leading undefined samples.
func (s Series) Leading() int {
	for i, v := range s {
		if v.Valid {
			return i
		}
	}
	return len(s)
}

func checkPeriod(n, period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if n < period {
		return fmt.Errorf("%w: need %d values, got %d", ErrInsufficientData, period, n)
	}
	return nil
}
