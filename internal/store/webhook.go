package store

import (
	"sort"
	"sync"

	"github.com/efreitasn/zitmarket/internal/domain"
)

// WebhookStore is a thread-safe in-memory store for webhooks.
// Primary index: webhook_id → webhook.
// Secondary index: event → url → webhook.
type WebhookStore struct {
	mu       sync.RWMutex
	webhooks map[string]*domain.Webhook            // webhook_id → webhook
	byEvent  map[string]map[string]*domain.Webhook // event → url → webhook
}

// NewWebhookStore creates an empty WebhookStore.
func NewWebhookStore() *WebhookStore {
	return &WebhookStore{
		webhooks: make(map[string]*domain.Webhook),
		byEvent:  make(map[string]map[string]*domain.Webhook),
	}
}

// Upsert inserts a webhook subscription keyed by (event, url). Registering
// the same pair again is a no-op and keeps the original webhook_id.
// Returns true if a new subscription was created.
func (s *WebhookStore) Upsert(w *domain.Webhook) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if urls, ok := s.byEvent[w.Event]; ok {
		if _, ok := urls[w.URL]; ok {
			return false
		}
	}

	s.webhooks[w.WebhookID] = w

	if s.byEvent[w.Event] == nil {
		s.byEvent[w.Event] = make(map[string]*domain.Webhook)
	}
	s.byEvent[w.Event][w.URL] = w

	return true
}

// Get retrieves a webhook by ID. It returns
// domain.ErrWebhookNotFound if the webhook does not exist.
func (s *WebhookStore) Get(id string) (*domain.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.webhooks[id]
	if !ok {
		return nil, domain.ErrWebhookNotFound
	}
	return w, nil
}

// GetByEventURL returns the subscription for an event+url pair, or nil.
func (s *WebhookStore) GetByEventURL(event, url string) *domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.byEvent[event][url]
}

// List returns every webhook, oldest first.
// Returns an empty slice if there are no subscriptions.
func (s *WebhookStore) List() []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Webhook, 0, len(s.webhooks))
	for _, w := range s.webhooks {
		result = append(result, w)
	}
	sortWebhooks(result)
	return result
}

// ListByEvent returns the webhooks subscribed to event, oldest first.
func (s *WebhookStore) ListByEvent(event string) []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := s.byEvent[event]
	result := make([]*domain.Webhook, 0, len(urls))
	for _, w := range urls {
		result = append(result, w)
	}
	sortWebhooks(result)
	return result
}

// Delete removes a webhook by ID. It returns
// domain.ErrWebhookNotFound if the webhook does not exist.
// Both the primary and secondary indexes are cleaned up.
func (s *WebhookStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.webhooks[id]
	if !ok {
		return domain.ErrWebhookNotFound
	}

	delete(s.webhooks, id)

	if urls, ok := s.byEvent[w.Event]; ok {
		delete(urls, w.URL)
		if len(urls) == 0 {
			delete(s.byEvent, w.Event)
		}
	}

	return nil
}

func sortWebhooks(ws []*domain.Webhook) {
	sort.Slice(ws, func(i, j int) bool {
		if !ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].CreatedAt.Before(ws[j].CreatedAt)
		}
		return ws[i].WebhookID < ws[j].WebhookID
	})
}
