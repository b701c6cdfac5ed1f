package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/store"
)

// Options configures a Simulator.
type Options struct {
	// NewSource returns the randomness for one run given its resolved seed.
	NewSource func(seed uint64) Source
	// Now is the wall clock used for elapsed time.
	Now    func() time.Time
	Logger *slog.Logger
	// Limits caps the population and attempt budget a run may request.
	// The zero value means domain.DefaultLimits.
	Limits domain.Limits
}

// DefaultOptions returns PCG randomness, the real clock and the default logger.
func DefaultOptions() Options {
	return Options{
		NewSource: NewSource,
		Now:       time.Now,
		Logger:    slog.Default(),
		Limits:    domain.DefaultLimits,
	}
}

// Simulator runs the full zero-intelligence market pass:
// generate → auction → histogram → statistics.
//
// At most one run is in flight at a time; a second concurrent Run fails
// with domain.ErrRunInProgress. The run itself is single-threaded. State
// from the last completed run can be read from any goroutine.
type Simulator struct {
	opts    Options
	running atomic.Bool

	mu        sync.RWMutex
	runID     string   // current or last run
	auction   *Auction // current or last run, for progress
	maxTrades int
	pop       *store.Population
	ledger    *store.Ledger
	result    *domain.Result
}

// NewSimulator creates an empty Simulator. Zero-valued option fields fall
// back to DefaultOptions.
func NewSimulator(opts Options) *Simulator {
	def := DefaultOptions()
	if opts.NewSource == nil {
		opts.NewSource = def.NewSource
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	if opts.Limits == (domain.Limits{}) {
		opts.Limits = def.Limits
	}
	return &Simulator{opts: opts}
}

// IsRunning reports whether a run is in flight.
func (s *Simulator) IsRunning() bool {
	return s.running.Load()
}

// Progress returns the fraction of match attempts completed by the current
// run, or by the last one when idle. It is 0 before any run.
func (s *Simulator) Progress() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.auction == nil || s.maxTrades == 0 {
		return 0
	}
	return float64(s.auction.Attempts()) / float64(s.maxTrades)
}

// Status reports whether a run is in flight, its progress and the ID of the
// current or last run.
func (s *Simulator) Status() domain.RunStatus {
	running := s.running.Load()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := domain.RunStatus{Running: running, RunID: s.runID}
	if s.auction != nil && s.maxTrades > 0 {
		st.Progress = float64(s.auction.Attempts()) / float64(s.maxTrades)
	}
	return st
}

// Reset discards all agents, trades, histogram data and the last result.
// It fails with domain.ErrRunInProgress while a run is in flight.
func (s *Simulator) Reset() error {
	if !s.running.CompareAndSwap(false, true) {
		return domain.ErrRunInProgress
	}
	defer s.running.Store(false)

	s.clear()
	s.opts.Logger.Info("simulation reset")
	return nil
}

func (s *Simulator) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runID = ""
	s.auction = nil
	s.maxTrades = 0
	s.pop = nil
	s.ledger = nil
	s.result = nil
}

// Run executes one full simulation pass from scratch and publishes its
// result. An invalid configuration is rejected before anything is cleared.
// Too few trades for price statistics is not an error: the result is
// published with StatsErr set. If ctx is cancelled between match attempts,
// the partial run is discarded and ctx.Err() is returned.
func (s *Simulator) Run(ctx context.Context, cfg domain.MarketConfig) (*domain.Result, error) {
	run, err := s.begin(cfg)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, run)
}

// Outcome is what a background run started with Start resolves to.
type Outcome struct {
	RunID  string
	Config domain.MarketConfig
	Result *domain.Result
	Err    error
}

// Start validates cfg and claims the simulator synchronously, then runs the
// pass on a new goroutine. The returned channel receives exactly one
// Outcome and is then closed.
func (s *Simulator) Start(ctx context.Context, cfg domain.MarketConfig) (string, <-chan Outcome, error) {
	run, err := s.begin(cfg)
	if err != nil {
		return "", nil, err
	}

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		result, err := s.execute(ctx, run)
		done <- Outcome{RunID: run.id, Config: run.cfg, Result: result, Err: err}
	}()
	return run.id, done, nil
}

// pendingRun is a claimed but not yet executed pass.
type pendingRun struct {
	id     string
	cfg    domain.MarketConfig
	logger *slog.Logger
}

func (s *Simulator) begin(cfg domain.MarketConfig) (*pendingRun, error) {
	if err := cfg.ValidateWithin(s.opts.Limits); err != nil {
		return nil, err
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInProgress
	}

	s.clear()

	cfg.Seed = ResolveSeed(cfg.Seed)
	run := &pendingRun{id: uuid.New().String(), cfg: cfg}
	run.logger = s.opts.Logger.With(slog.String("run_id", run.id))

	s.mu.Lock()
	s.runID = run.id
	s.maxTrades = cfg.MaxTrades
	s.mu.Unlock()

	return run, nil
}

func (s *Simulator) execute(ctx context.Context, run *pendingRun) (result *domain.Result, err error) {
	defer s.running.Store(false)

	cfg, logger := run.cfg, run.logger

	// A panic here would otherwise take down the process when the run is on
	// its own goroutine.
	defer func() {
		if r := recover(); r != nil {
			s.clear()
			logger.Error("simulation aborted", slog.Any("panic", r))
			result, err = nil, fmt.Errorf("simulation aborted: %v", r)
		}
	}()

	logger.Info("simulation started",
		slog.Int("num_buyers", cfg.NumBuyers),
		slog.Int("num_sellers", cfg.NumSellers),
		slog.Int("max_trades", cfg.MaxTrades),
		slog.Int("max_buyer_value", cfg.MaxBuyerValue),
		slog.Int("max_seller_value", cfg.MaxSellerValue),
		slog.Uint64("seed", cfg.Seed),
	)

	startedAt := s.opts.Now()
	src := s.opts.NewSource(cfg.Seed)

	pop, err := GenerateAgents(cfg, src)
	if err != nil {
		s.clear()
		return nil, fmt.Errorf("generate agents: %w", err)
	}
	ledger := store.NewLedger()
	auction := NewAuction(pop, ledger, src)

	s.mu.Lock()
	s.auction = auction
	s.mu.Unlock()

	if err := auction.Run(ctx, cfg.MaxTrades); err != nil {
		s.clear()
		logger.Warn("simulation cancelled",
			slog.Int("attempts", auction.Attempts()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	trades := ledger.Trades()
	histogram := BuildHistogram(pop, trades)

	finishedAt := s.opts.Now()
	stats, statsErr := ComputeStatistics(trades, finishedAt.Sub(startedAt))
	if statsErr != nil && !errors.Is(statsErr, domain.ErrInsufficientData) {
		s.clear()
		return nil, fmt.Errorf("compute statistics: %w", statsErr)
	}

	result = &domain.Result{
		RunID:      run.id,
		Config:     cfg,
		Stats:      stats,
		StatsErr:   statsErr,
		Histogram:  histogram.Entries(),
		Message:    FormatMessage(stats),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	s.mu.Lock()
	s.pop = pop
	s.ledger = ledger
	s.result = result
	s.mu.Unlock()

	attrs := []any{
		slog.Int("trades", stats.TradeCount),
		slog.Duration("elapsed", stats.Elapsed),
	}
	if statsErr != nil {
		attrs = append(attrs, slog.String("stats_error", statsErr.Error()))
	}
	logger.Info("simulation finished", attrs...)

	return result, nil
}

// Result returns the last published result, or domain.ErrNoResult when
// there has been no run since creation or the last Reset.
func (s *Simulator) Result() (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		return nil, domain.ErrNoResult
	}
	return s.result, nil
}

// LastRun returns the final population and trade ledger of the last
// published run as one consistent pair.
func (s *Simulator) LastRun() (*store.Population, *store.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pop == nil || s.ledger == nil {
		return nil, nil, domain.ErrNoResult
	}
	return s.pop, s.ledger, nil
}
