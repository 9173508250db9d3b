package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_EntriesExpireAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("load error: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("read within TTL error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("entry expired early: %d loads", got)
	}

	now = now.Add(time.Minute)
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("read past TTL error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expired entry not reloaded: %d loads", got)
	}
}

func TestStore_DeletePrefixScopesInvalidation(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	var loadsA, loadsB atomic.Int32
	loadA := func(context.Context) (any, error) { loadsA.Add(1); return "a", nil }
	loadB := func(context.Context) (any, error) { loadsB.Add(1); return "b", nil }

	if _, err := store.GetOrLoad(ctx, "league:1:standings:100", loadA); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if _, err := store.GetOrLoad(ctx, "league:2:standings:100", loadB); err != nil {
		t.Fatalf("load error: %v", err)
	}

	store.DeletePrefix(ctx, "league:1:")

	if _, err := store.GetOrLoad(ctx, "league:1:standings:100", loadA); err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if _, err := store.GetOrLoad(ctx, "league:2:standings:100", loadB); err != nil {
		t.Fatalf("read error: %v", err)
	}

	if got := loadsA.Load(); got != 2 {
		t.Fatalf("invalidated key must reload, got %d loads", got)
	}
	if got := loadsB.Load(); got != 1 {
		t.Fatalf("other league's entry must survive, got %d loads", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
