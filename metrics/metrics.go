// Package metrics records engine activity as Prometheus collectors. A
// Recorder owns its registry; batch runs write it out as a node-exporter
// textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pilot"

type Recorder struct {
	reg *prometheus.Registry

	Runs           prometheus.Counter
	Halts          prometheus.Counter
	SignalsTotal   *prometheus.CounterVec
	SelectedTotal  *prometheus.CounterVec
	TradesTotal    *prometheus.CounterVec
	SymbolsSkipped *prometheus.CounterVec
	Balance        prometheus.Gauge
	DailyLossPct   prometheus.Gauge
	RunSeconds     prometheus.Histogram
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_total", Help: "Engine runs started",
		}),
		Halts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "halts_total", Help: "Runs stopped by the daily loss breaker",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "signals_total", Help: "Signals generated",
		}, []string{"symbol", "strategy"}),
		SelectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "selected_signals_total", Help: "Signals that survived ranking",
		}, []string{"symbol", "strategy"}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "trades_total", Help: "Simulated trades booked",
		}, []string{"symbol", "side"}),
		SymbolsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "symbols_skipped_total", Help: "Symbols that produced no analysis",
		}, []string{"reason"}),
		Balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "balance", Help: "Capital balance after the last run",
		}),
		DailyLossPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "daily_loss_pct", Help: "Realized loss today as a percentage of balance",
		}),
		RunSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "run_duration_seconds", Help: "Wall time of an engine run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	r.reg.MustRegister(r.Runs, r.Halts, r.SignalsTotal, r.SelectedTotal,
		r.TradesTotal, r.SymbolsSkipped, r.Balance, r.DailyLossPct, r.RunSeconds)
	return r
}

// Registry exposes the collectors, e.g. for promhttp.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Run() {
	if r != nil {
		r.Runs.Inc()
	}
}

func (r *Recorder) Halt() {
	if r != nil {
		r.Halts.Inc()
	}
}

func (r *Recorder) Signal(symbol, strategy string) {
	if r != nil {
		r.SignalsTotal.WithLabelValues(symbol, strategy).Inc()
	}
}

func (r *Recorder) Selected(symbol, strategy string) {
	if r != nil {
		r.SelectedTotal.WithLabelValues(symbol, strategy).Inc()
	}
}

func (r *Recorder) Trade(symbol, side string) {
	if r != nil {
		r.TradesTotal.WithLabelValues(symbol, side).Inc()
	}
}

func (r *Recorder) Skip(reason string) {
	if r != nil {
		r.SymbolsSkipped.WithLabelValues(reason).Inc()
	}
}

func (r *Recorder) SetBalance(v float64) {
	if r != nil {
		r.Balance.Set(v)
	}
}

func (r *Recorder) SetDailyLoss(pct float64) {
	if r != nil {
		r.DailyLossPct.Set(pct)
	}
}

func (r *Recorder) ObserveRun(seconds float64) {
	if r != nil {
		r.RunSeconds.Observe(seconds)
	}
}

// WriteTextfile writes every collector to path in the text exposition
// format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
