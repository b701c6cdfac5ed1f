package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/service"
)

// SimulationHandler handles HTTP requests for simulation endpoints.
type SimulationHandler struct {
	simSvc *service.SimulationService
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(simSvc *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{simSvc: simSvc}
}

// runRequest is the JSON request body for POST /simulations/run.
// Every field is optional.
type runRequest struct {
	NumBuyers      *int    `json:"num_buyers"`
	NumSellers     *int    `json:"num_sellers"`
	MaxTrades      *int    `json:"max_trades"`
	MaxBuyerValue  *int    `json:"max_buyer_value"`
	MaxSellerValue *int    `json:"max_seller_value"`
	Seed           *uint64 `json:"seed"`
}

type marketConfigResponse struct {
	NumBuyers      int    `json:"num_buyers"`
	NumSellers     int    `json:"num_sellers"`
	MaxTrades      int    `json:"max_trades"`
	MaxBuyerValue  int    `json:"max_buyer_value"`
	MaxSellerValue int    `json:"max_seller_value"`
	Seed           uint64 `json:"seed"`
}

type histogramEntryResponse struct {
	Price     int    `json:"price"`
	Category  string `json:"category"`
	Frequency int    `json:"frequency"`
}

// resultResponse is the JSON response for a finished run.
type resultResponse struct {
	RunID          string                   `json:"run_id"`
	Config         marketConfigResponse     `json:"config"`
	TradeCount     int                      `json:"trade_count"`
	TotalQuantity  int                      `json:"total_quantity"`
	AveragePrice   *float64                 `json:"average_price"`
	PriceStdev     *float64                 `json:"price_stdev"`
	StatsError     *string                  `json:"stats_error"`
	ElapsedSeconds float64                  `json:"elapsed_seconds"`
	Message        string                   `json:"message"`
	Histogram      []histogramEntryResponse `json:"histogram"`
	StartedAt      string                   `json:"started_at"`
	FinishedAt     string                   `json:"finished_at"`
}

// runAcceptedResponse is the JSON response for POST /simulations/run?async=true.
type runAcceptedResponse struct {
	RunID string `json:"run_id"`
}

// statusResponse is the JSON response for GET /simulations/status.
type statusResponse struct {
	IsRunning bool    `json:"is_running"`
	PctDone   float64 `json:"pct_done"`
	RunID     *string `json:"run_id"`
}

type tradeResponse struct {
	BuyerID     int `json:"buyer_id"`
	SellerID    int `json:"seller_id"`
	BuyerValue  int `json:"buyer_value"`
	SellerValue int `json:"seller_value"`
	Quantity    int `json:"quantity"`
	Price       int `json:"price"`
}

// tradeListResponse is the JSON response for GET /simulations/result/trades.
type tradeListResponse struct {
	Trades []tradeResponse `json:"trades"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Total  int             `json:"total"`
}

// Run handles POST /simulations/run.
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := ParseOptionalJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	svcReq := service.RunRequest{
		NumBuyers:      req.NumBuyers,
		NumSellers:     req.NumSellers,
		MaxTrades:      req.MaxTrades,
		MaxBuyerValue:  req.MaxBuyerValue,
		MaxSellerValue: req.MaxSellerValue,
		Seed:           req.Seed,
	}

	async := false
	if a := r.URL.Query().Get("async"); a != "" {
		var err error
		async, err = strconv.ParseBool(a)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "async must be a boolean")
			return
		}
	}

	if async {
		runID, err := h.simSvc.RunAsync(svcReq)
		if err != nil {
			mapSimulationError(w, err)
			return
		}
		WriteJSON(w, http.StatusAccepted, runAcceptedResponse{RunID: runID})
		return
	}

	result, err := h.simSvc.Run(r.Context(), svcReq)
	if err != nil {
		mapSimulationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildResultResponse(result))
}

// Reset handles POST /simulations/reset.
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.simSvc.Reset(); err != nil {
		mapSimulationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /simulations/status.
func (h *SimulationHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.simSvc.Status()

	resp := statusResponse{
		IsRunning: st.Running,
		PctDone:   st.Progress,
	}
	if st.RunID != "" {
		resp.RunID = &st.RunID
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetResult handles GET /simulations/result.
func (h *SimulationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.simSvc.Result()
	if err != nil {
		mapSimulationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildResultResponse(result))
}

// ListTrades handles GET /simulations/result/trades.
func (h *SimulationHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
			return
		}
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
		if limit == 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be >= 1")
			return
		}
	}

	tp, err := h.simSvc.Trades(page, limit)
	if err != nil {
		mapSimulationError(w, err)
		return
	}

	trades := make([]tradeResponse, len(tp.Trades))
	for i, t := range tp.Trades {
		trades[i] = tradeResponse{
			BuyerID:     int(t.Buyer),
			SellerID:    int(t.Seller),
			BuyerValue:  t.BuyerValue,
			SellerValue: t.SellerValue,
			Quantity:    t.Quantity,
			Price:       t.Price,
		}
	}

	WriteJSON(w, http.StatusOK, tradeListResponse{
		Trades: trades,
		Page:   tp.Page,
		Limit:  tp.Limit,
		Total:  tp.Total,
	})
}

func buildResultResponse(res *domain.Result) resultResponse {
	histogram := make([]histogramEntryResponse, len(res.Histogram))
	for i, e := range res.Histogram {
		histogram[i] = histogramEntryResponse{
			Price:     e.Price,
			Category:  string(e.Category),
			Frequency: e.Frequency,
		}
	}

	resp := resultResponse{
		RunID: res.RunID,
		Config: marketConfigResponse{
			NumBuyers:      res.Config.NumBuyers,
			NumSellers:     res.Config.NumSellers,
			MaxTrades:      res.Config.MaxTrades,
			MaxBuyerValue:  res.Config.MaxBuyerValue,
			MaxSellerValue: res.Config.MaxSellerValue,
			Seed:           res.Config.Seed,
		},
		TradeCount:     res.Stats.TradeCount,
		TotalQuantity:  res.Stats.TotalQuantity,
		AveragePrice:   res.Stats.AveragePrice,
		PriceStdev:     res.Stats.PriceStdDev,
		ElapsedSeconds: res.Stats.Elapsed.Seconds(),
		Message:        res.Message,
		Histogram:      histogram,
		StartedAt:      res.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		FinishedAt:     res.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if res.StatsErr != nil {
		msg := res.StatsErr.Error()
		resp.StatsError = &msg
	}
	return resp
}

// mapSimulationError maps domain errors to HTTP responses for simulation endpoints.
func mapSimulationError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		WriteError(w, http.StatusConflict, "run_in_progress", "A simulation is already running")
	case errors.Is(err, domain.ErrNoResult):
		WriteError(w, http.StatusNotFound, "no_result", "No simulation result is available")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusServiceUnavailable, "run_cancelled", "The simulation was cancelled before it finished")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
