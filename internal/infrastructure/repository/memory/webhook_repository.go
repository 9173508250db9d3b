package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/futstats/campeonatos/internal/domain/webhook"
)

type WebhookRepository struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[int64]webhook.Subscription
	logs   []webhook.DeliveryLog
}

func NewWebhookRepository(seed []webhook.Subscription) *WebhookRepository {
	repo := &WebhookRepository{subs: make(map[int64]webhook.Subscription)}
	for _, item := range seed {
		if item.ID > repo.nextID {
			repo.nextID = item.ID
		}
		repo.subs[item.ID] = item
	}
	return repo
}

func (r *WebhookRepository) Create(_ context.Context, sub webhook.Subscription) (webhook.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sub.ID = r.nextID
	r.subs[sub.ID] = sub
	return sub, nil
}

func (r *WebhookRepository) GetByID(_ context.Context, id int64) (webhook.Subscription, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.subs[id]
	return item, ok, nil
}

func (r *WebhookRepository) ListActive(_ context.Context) ([]webhook.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]webhook.Subscription, 0, len(r.subs))
	for _, item := range r.subs {
		if item.Active {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *WebhookRepository) RecordSuccess(_ context.Context, id int64, triggeredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.subs[id]
	if !ok {
		return nil
	}
	item.FailureCount = 0
	item.LastTriggeredAt = &triggeredAt
	r.subs[id] = item
	return nil
}

func (r *WebhookRepository) RecordFailure(_ context.Context, id int64, disableAt int, triggeredAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.subs[id]
	if !ok {
		return 0, nil
	}
	item.FailureCount++
	if item.FailureCount >= disableAt {
		item.Active = false
	}
	item.LastTriggeredAt = &triggeredAt
	r.subs[id] = item
	return item.FailureCount, nil
}

func (r *WebhookRepository) AppendLog(_ context.Context, entry webhook.DeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, entry)
	return nil
}

// Logs returns a copy of the delivery log, oldest first.
func (r *WebhookRepository) Logs() []webhook.DeliveryLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]webhook.DeliveryLog, len(r.logs))
	copy(out, r.logs)
	return out
}
