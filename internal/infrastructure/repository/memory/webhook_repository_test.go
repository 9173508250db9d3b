package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/futstats/campeonatos/internal/domain/webhook"
)

func TestWebhookRepositoryRecordFailureAtomic(t *testing.T) {
	t.Parallel()

	repo := NewWebhookRepository([]webhook.Subscription{
		{ID: 1, URL: "https://a.example/hook", Active: true},
	})
	triggeredAt := time.Unix(1_700_000_000, 0).UTC()

	const attempts = 20
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if _, err := repo.RecordFailure(context.Background(), 1, webhook.DisableThreshold, triggeredAt); err != nil {
				t.Errorf("record failure: %v", err)
			}
		}()
	}
	wg.Wait()

	sub, _, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.FailureCount != attempts {
		t.Fatalf("concurrent increments lost: got %d, want %d", sub.FailureCount, attempts)
	}
	if sub.Active {
		t.Fatal("subscription must be disabled once the counter passes the threshold")
	}
}

func TestWebhookRepositoryRecordSuccessResets(t *testing.T) {
	t.Parallel()

	repo := NewWebhookRepository([]webhook.Subscription{
		{ID: 1, URL: "https://a.example/hook", Active: true, FailureCount: 3},
	})
	triggeredAt := time.Unix(1_700_000_000, 0).UTC()

	if err := repo.RecordSuccess(context.Background(), 1, triggeredAt); err != nil {
		t.Fatalf("record success: %v", err)
	}

	sub, _, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.FailureCount != 0 || !sub.Active {
		t.Fatalf("success must reset the counter and keep the subscription on: %+v", sub)
	}
	if sub.LastTriggeredAt == nil || !sub.LastTriggeredAt.Equal(triggeredAt) {
		t.Fatalf("last trigger time not recorded: %v", sub.LastTriggeredAt)
	}
}
