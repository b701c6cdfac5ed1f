package service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/store"
	"github.com/google/uuid"
)

// Valid webhook event types.
var validWebhookEvents = map[string]bool{
	domain.EventRunCompleted: true,
	domain.EventRunFailed:    true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	URL    string
	Events []string
}

// WebhookService handles webhook CRUD and run event dispatch.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
	logger *slog.Logger
	now    func() time.Time

	inflight sync.WaitGroup
}

// NewWebhookService creates a new WebhookService with the given dependencies.
func NewWebhookService(webhookStore *store.WebhookStore, webhookTimeout time.Duration, logger *slog.Logger) *WebhookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Upsert validates the request and creates webhook subscriptions for each
// requested event. Returns the resulting webhooks, whether any new
// subscriptions were created, and any error.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if err := validateWebhookURL(req.URL); err != nil {
		return nil, false, err
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Field: "events", Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	dedupedEvents := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Field:   "events",
				Message: "Unknown event type: " + event + ". Must be one of: " + domain.EventRunCompleted + ", " + domain.EventRunFailed,
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	now := s.now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID: uuid.New().String(),
			Event:     event,
			URL:       req.URL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if s.store.Upsert(w) {
			anyCreated = true
			webhooks = append(webhooks, w)
			continue
		}
		if existing := s.store.GetByEventURL(event, req.URL); existing != nil {
			webhooks = append(webhooks, existing)
		}
	}

	return webhooks, anyCreated, nil
}

func validateWebhookURL(raw string) error {
	if raw == "" {
		return &domain.ValidationError{Field: "url", Message: "url is required"}
	}
	if len(raw) > 2048 {
		return &domain.ValidationError{Field: "url", Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return &domain.ValidationError{Field: "url", Message: "url must be a valid absolute URL"}
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return &domain.ValidationError{Field: "url", Message: "url must use https scheme"}
	}
	return nil
}

// List returns all webhook subscriptions, oldest first.
func (s *WebhookService) List() []*domain.Webhook {
	return s.store.List()
}

// Get returns one webhook subscription by ID.
func (s *WebhookService) Get(webhookID string) (*domain.Webhook, error) {
	return s.store.Get(webhookID)
}

// Delete removes a webhook subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// runCompletedPayload is the JSON payload for run.completed webhooks.
type runCompletedPayload struct {
	Event     string           `json:"event"`
	Timestamp string           `json:"timestamp"`
	Data      runCompletedData `json:"data"`
}

type runCompletedData struct {
	RunID          string   `json:"run_id"`
	Seed           uint64   `json:"seed"`
	TradeCount     int      `json:"trade_count"`
	TotalQuantity  int      `json:"total_quantity"`
	AveragePrice   *float64 `json:"average_price"`
	PriceStdev     *float64 `json:"price_stdev"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Message        string   `json:"message"`
}

// runFailedPayload is the JSON payload for run.failed webhooks.
type runFailedPayload struct {
	Event     string        `json:"event"`
	Timestamp string        `json:"timestamp"`
	Data      runFailedData `json:"data"`
}

type runFailedData struct {
	RunID string `json:"run_id"`
	Seed  uint64 `json:"seed"`
	Error string `json:"error"`
}

// DispatchRunCompleted notifies every run.completed subscriber.
// Fire-and-forget: delivery failures are logged and otherwise ignored.
func (s *WebhookService) DispatchRunCompleted(result *domain.Result) {
	payload := runCompletedPayload{
		Event:     domain.EventRunCompleted,
		Timestamp: result.FinishedAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: runCompletedData{
			RunID:          result.RunID,
			Seed:           result.Config.Seed,
			TradeCount:     result.Stats.TradeCount,
			TotalQuantity:  result.Stats.TotalQuantity,
			AveragePrice:   result.Stats.AveragePrice,
			PriceStdev:     result.Stats.PriceStdDev,
			ElapsedSeconds: result.Stats.Elapsed.Seconds(),
			Message:        result.Message,
		},
	}
	s.dispatch(domain.EventRunCompleted, payload)
}

// DispatchRunFailed notifies every run.failed subscriber.
func (s *WebhookService) DispatchRunFailed(runID string, cfg domain.MarketConfig, runErr error) {
	payload := runFailedPayload{
		Event:     domain.EventRunFailed,
		Timestamp: s.now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data: runFailedData{
			RunID: runID,
			Seed:  cfg.Seed,
			Error: runErr.Error(),
		},
	}
	s.dispatch(domain.EventRunFailed, payload)
}

func (s *WebhookService) dispatch(event string, payload any) {
	for _, wh := range s.store.ListByEvent(event) {
		s.inflight.Add(1)
		go func(wh *domain.Webhook) {
			defer s.inflight.Done()
			s.deliver(wh, event, payload)
		}(wh)
	}
}

// Wait blocks until every delivery started so far has finished.
func (s *WebhookService) Wait() {
	s.inflight.Wait()
}

// deliver sends the webhook payload via HTTP POST with the required headers.
func (s *WebhookService) deliver(wh *domain.Webhook, eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	deliveryID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", deliveryID)
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			slog.String("webhook_id", wh.WebhookID),
			slog.String("delivery_id", deliveryID),
			slog.String("error", err.Error()),
		)
		return
	}
	resp.Body.Close()

	s.logger.Debug("webhook delivered",
		slog.String("webhook_id", wh.WebhookID),
		slog.String("delivery_id", deliveryID),
		slog.Int("status", resp.StatusCode),
	)
}
