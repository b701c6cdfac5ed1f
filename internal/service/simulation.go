package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/engine"
)

// Trade listing page size limits.
const (
	DefaultTradePageLimit = 100
	MaxTradePageLimit     = 1000
)

// RunRequest carries the per-run overrides. Nil fields fall back to the
// service defaults.
type RunRequest struct {
	NumBuyers      *int
	NumSellers     *int
	MaxTrades      *int
	MaxBuyerValue  *int
	MaxSellerValue *int
	Seed           *uint64
}

// Config merges the request onto defaults.
func (r RunRequest) Config(defaults domain.MarketConfig) domain.MarketConfig {
	cfg := defaults
	if r.NumBuyers != nil {
		cfg.NumBuyers = *r.NumBuyers
	}
	if r.NumSellers != nil {
		cfg.NumSellers = *r.NumSellers
	}
	if r.MaxTrades != nil {
		cfg.MaxTrades = *r.MaxTrades
	}
	if r.MaxBuyerValue != nil {
		cfg.MaxBuyerValue = *r.MaxBuyerValue
	}
	if r.MaxSellerValue != nil {
		cfg.MaxSellerValue = *r.MaxSellerValue
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	return cfg
}

// RunNotifier receives run lifecycle events.
type RunNotifier interface {
	DispatchRunCompleted(result *domain.Result)
	DispatchRunFailed(runID string, cfg domain.MarketConfig, err error)
}

// TradeView is a ledger entry joined with the private values of both sides.
type TradeView struct {
	domain.Trade
	BuyerValue  int
	SellerValue int
}

// TradePage is one page of the last run's trade ledger.
type TradePage struct {
	Trades []TradeView
	Page   int
	Limit  int
	Total  int
}

// SimulationService drives the simulator on behalf of the HTTP layer.
type SimulationService struct {
	sim      *engine.Simulator
	defaults domain.MarketConfig
	notifier RunNotifier
	logger   *slog.Logger

	// baseCtx parents background runs so shutdown can cancel them.
	baseCtx    context.Context
	background sync.WaitGroup
}

// NewSimulationService creates a SimulationService. Background runs started
// with RunAsync are cancelled when baseCtx is done. notifier may be nil.
func NewSimulationService(
	baseCtx context.Context,
	sim *engine.Simulator,
	defaults domain.MarketConfig,
	notifier RunNotifier,
	logger *slog.Logger,
) *SimulationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationService{
		sim:      sim,
		defaults: defaults,
		notifier: notifier,
		logger:   logger,
		baseCtx:  baseCtx,
	}
}

// Defaults returns the market configuration used for omitted fields.
func (s *SimulationService) Defaults() domain.MarketConfig {
	return s.defaults
}

// Run executes a simulation and blocks until it finishes or ctx is done.
func (s *SimulationService) Run(ctx context.Context, req RunRequest) (*domain.Result, error) {
	_, done, err := s.sim.Start(ctx, req.Config(s.defaults))
	if err != nil {
		return nil, err
	}
	out := <-done
	s.notify(out)
	return out.Result, out.Err
}

// RunAsync starts a simulation in the background and returns its run ID.
// Configuration errors and ErrRunInProgress are reported synchronously.
func (s *SimulationService) RunAsync(req RunRequest) (string, error) {
	runID, done, err := s.sim.Start(s.baseCtx, req.Config(s.defaults))
	if err != nil {
		return "", err
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.notify(<-done)
	}()
	return runID, nil
}

// Wait blocks until every background run has finished.
func (s *SimulationService) Wait() {
	s.background.Wait()
}

func (s *SimulationService) notify(out engine.Outcome) {
	if out.Err != nil {
		s.logger.Warn("simulation failed",
			slog.String("run_id", out.RunID),
			slog.String("error", out.Err.Error()),
		)
	}
	if s.notifier == nil {
		return
	}
	if out.Err != nil {
		s.notifier.DispatchRunFailed(out.RunID, out.Config, out.Err)
		return
	}
	s.notifier.DispatchRunCompleted(out.Result)
}

// Reset clears the simulator. It fails with ErrRunInProgress during a run.
func (s *SimulationService) Reset() error {
	return s.sim.Reset()
}

// Status returns the simulator's current status.
func (s *SimulationService) Status() domain.RunStatus {
	return s.sim.Status()
}

// Result returns the last published result.
func (s *SimulationService) Result() (*domain.Result, error) {
	return s.sim.Result()
}

// Trades returns one page of the last run's trades. A limit of 0 selects
// DefaultTradePageLimit.
func (s *SimulationService) Trades(page, limit int) (*TradePage, error) {
	if page < 1 {
		return nil, &domain.ValidationError{Field: "page", Message: fmt.Sprintf("page must be >= 1, got %d", page)}
	}
	if limit == 0 {
		limit = DefaultTradePageLimit
	}
	if limit < 1 || limit > MaxTradePageLimit {
		return nil, &domain.ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be between 1 and %d, got %d", MaxTradePageLimit, limit),
		}
	}

	pop, ledger, err := s.sim.LastRun()
	if err != nil {
		return nil, err
	}

	trades, total := ledger.Page(page, limit)
	views := make([]TradeView, len(trades))
	for i, t := range trades {
		buyer, ok := pop.Buyer(t.Buyer)
		if !ok {
			return nil, fmt.Errorf("trade %d: unknown buyer %d", (page-1)*limit+i, t.Buyer)
		}
		seller, ok := pop.Seller(t.Seller)
		if !ok {
			return nil, fmt.Errorf("trade %d: unknown seller %d", (page-1)*limit+i, t.Seller)
		}
		views[i] = TradeView{Trade: t, BuyerValue: buyer.Value, SellerValue: seller.Value}
	}
	return &TradePage{Trades: views, Page: page, Limit: limit, Total: total}, nil
}
