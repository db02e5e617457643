// Package engine runs one pass of the pipeline: check the daily loss
// breaker, analyse every symbol in parallel, rank the pooled signals and
// book the top ones against the ledger in rank order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/cryptopilot/analysis"
	"github.com/rustyeddy/cryptopilot/config"
	"github.com/rustyeddy/cryptopilot/indicators"
	"github.com/rustyeddy/cryptopilot/journal"
	"github.com/rustyeddy/cryptopilot/metrics"
	"github.com/rustyeddy/cryptopilot/signals"
	"github.com/rustyeddy/cryptopilot/sim"
	"github.com/rustyeddy/cryptopilot/strategies"
)

type Engine struct {
	cfg     config.Engine
	sim     *sim.Simulator
	strats  []strategies.Strategy
	log     zerolog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics records run activity on m. A nil m disables metrics.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock replaces time.Now. Signal timestamps and the breaker's
// "today" both come from it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStrategies overrides the strategies named in the config.
func WithStrategies(s ...strategies.Strategy) Option {
	return func(e *Engine) { e.strats = s }
}

// New builds an engine over store. Balance and trades live in store only,
// so several runs against the same store continue one ledger.
func New(cfg config.Engine, store journal.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg: cfg,
		sim: sim.NewSimulator(sim.NewLedger(store, cfg.StartCapital), cfg.Policy()),
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, o := range opts {
		o(e)
	}

	if e.strats == nil {
		if len(cfg.Strategies) == 0 {
			e.strats = strategies.Defaults()
		} else {
			s, err := strategies.ByNames(cfg.Strategies)
			if err != nil {
				return nil, err
			}
			e.strats = s
		}
	}
	return e, nil
}

// Skip records a symbol that produced no analysis.
type Skip struct {
	Symbol string
	Err    error
}

// Result summarises a run. Signals is the whole pool in input order;
// Selected is the ranked top N that was simulated.
type Result struct {
	Signals  []signals.Signal
	Selected []signals.Signal
	Trades   []journal.Trade
	Skipped  []Skip

	StartBalance float64
	EndBalance   float64
	DailyLossPct float64
	Halted       bool
}

// Run executes one pass over inputs. When the breaker is tripped it returns
// a Result with Halted set and an error wrapping risk.ErrLossLimitExceeded;
// nothing is analysed or traded.
func (e *Engine) Run(ctx context.Context, inputs []analysis.Input) (Result, error) {
	var res Result
	now := e.now()
	started := time.Now()
	e.metrics.Run()
	defer func() { e.metrics.ObserveRun(time.Since(started).Seconds()) }()

	decision, err := e.sim.CheckBreaker(ctx, now)
	if err != nil {
		return res, err
	}
	res.DailyLossPct = decision.DailyLossPct
	e.metrics.SetDailyLoss(decision.DailyLossPct)

	bal, err := e.sim.Ledger().Balance(ctx)
	if err != nil {
		return res, err
	}
	res.StartBalance, res.EndBalance = bal, bal
	e.metrics.SetBalance(bal)

	if !decision.Allowed {
		res.Halted = true
		e.metrics.Halt()
		e.log.Warn().
			Float64("daily_loss_pct", decision.DailyLossPct).
			Float64("limit_pct", e.cfg.MaxDailyLossPct).
			Msg("daily loss limit reached, run halted")
		return res, decision.Err()
	}

	res.Signals, res.Skipped, err = e.analyze(ctx, inputs, e.cfg.Params(bal), now)
	if err != nil {
		return res, err
	}
	for _, s := range res.Signals {
		e.metrics.Signal(s.Symbol, s.Strategy)
	}

	res.Selected = signals.Rank(res.Signals, e.cfg.TopN)
	for i, s := range res.Selected {
		e.metrics.Selected(s.Symbol, s.Strategy)
		e.log.Info().
			Int("rank", i+1).
			Str("symbol", s.Symbol).
			Str("strategy", s.Strategy).
			Str("side", string(s.Side)).
			Float64("score", s.Score).
			Float64("entry", s.Entry).
			Msg("signal selected")
	}

	res.Trades, err = e.sim.SimulateAll(ctx, res.Selected)
	for _, t := range res.Trades {
		e.metrics.Trade(t.Symbol, string(t.Side))
		e.log.Info().
			Str("id", t.ID).
			Str("symbol", t.Symbol).
			Float64("qty", t.Quantity).
			Float64("pnl", t.PnL).
			Msg("trade booked")
	}

	// Re-read even after a failed booking so the result matches the store.
	end, berr := e.sim.Ledger().Balance(ctx)
	if berr == nil {
		res.EndBalance = end
		e.metrics.SetBalance(end)
	}
	if err != nil {
		return res, err
	}
	return res, berr
}

// analyze fans the per-symbol work out and pools the signals in input
// order once every symbol is done. A symbol that fails analysis is skipped;
// only cancellation fails the stage.
func (e *Engine) analyze(ctx context.Context, inputs []analysis.Input, p strategies.Params, now time.Time) ([]signals.Signal, []Skip, error) {
	perSymbol := make([][]signals.Signal, len(inputs))
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perSymbol[i], errs[i] = analysis.Analyze(in, e.strats, p, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("analysis: %w", err)
	}

	var (
		pool    []signals.Signal
		skipped []Skip
	)
	for i, in := range inputs {
		if err := errs[i]; err != nil {
			reason := "invalid_data"
			if errors.Is(err, indicators.ErrInsufficientData) {
				reason = "insufficient_data"
			}
			e.metrics.Skip(reason)
			e.log.Warn().Err(err).Str("symbol", in.Symbol).Str("reason", reason).Msg("symbol skipped")
			skipped = append(skipped, Skip{Symbol: in.Symbol, Err: err})
			continue
		}
		e.log.Debug().Str("symbol", in.Symbol).Int("signals", len(perSymbol[i])).Msg("symbol analysed")
		pool = append(pool, perSymbol[i]...)
	}
	return pool, skipped, nil
}

func (e *Engine) concurrency() int {
	if e.cfg.Concurrency > 0 {
		return e.cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
