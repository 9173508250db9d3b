package footystats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futstats/campeonatos/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		RateLimit:  1000, // keep tests fast
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestFetchMatchesDrainsAllPages(t *testing.T) {
	t.Parallel()

	var pagesServed atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/league-matches" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("api key missing from request")
		}
		page := r.URL.Query().Get("page")
		pagesServed.Add(1)
		fmt.Fprintf(w, `{
			"data": [{"id": %s00, "homeID": 1, "awayID": 2, "status": "complete", "date_unix": 1000}],
			"pager": {"current_page": %s, "max_page": 3}
		}`, page, page)
	})
	client, _ := newTestClient(t, handler, 0)

	matches, err := client.FetchMatches(context.Background(), 55)
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected one match per page, got %d", len(matches))
	}
	if got := pagesServed.Load(); got != 3 {
		t.Fatalf("expected 3 page requests, got %d", got)
	}
	if matches[0].ID != 100 || matches[2].ID != 300 {
		t.Fatalf("pages decoded out of order: %+v", matches)
	}
}

func TestFetchPlayersReportsHasMore(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{
			"data": [{"id": 9, "full_name": "N. Nine", "goals_overall": 7,
				"url": "https://footystats.org/players/france/n-nine"}],
			"pager": {"current_page": %s, "max_page": 2}
		}`, page)
	})
	client, _ := newTestClient(t, handler, 0)

	players, hasMore, err := client.FetchPlayers(context.Background(), 55, 1)
	if err != nil {
		t.Fatalf("fetch players: %v", err)
	}
	if !hasMore {
		t.Fatal("expected more pages after page 1")
	}
	if len(players) != 1 || players[0].Goals != 7 {
		t.Fatalf("unexpected players: %+v", players)
	}
	if want := "https://cdn.footystats.org/img/players/france-n-nine.png"; players[0].PhotoURL != want {
		t.Fatalf("unexpected photo url %q", players[0].PhotoURL)
	}

	_, hasMore, err = client.FetchPlayers(context.Background(), 55, 2)
	if err != nil {
		t.Fatalf("fetch players page 2: %v", err)
	}
	if hasMore {
		t.Fatal("expected no pages after the last one")
	}
}

func TestRetryOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data": []}`)
	})
	client, _ := newTestClient(t, handler, 2)

	if _, err := client.FetchTeams(context.Background(), 55); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestRetryStopsAtBound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, handler, 1)

	_, err := client.FetchTeams(context.Background(), 55)
	if err == nil {
		t.Fatal("expected failure after retries are exhausted")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected maxRetries+1 attempts, got %d", got)
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Fatal("api key leaked into error text")
	}
}

func TestRetryHonorsRetryAfterOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var firstAttempt, secondAttempt atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		switch calls.Add(1) {
		case 1:
			firstAttempt.Store(time.Now().UnixNano())
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
		default:
			secondAttempt.Store(time.Now().UnixNano())
			fmt.Fprint(w, `{"data": []}`)
		}
	})
	client, _ := newTestClient(t, handler, 1)

	if _, err := client.FetchTeams(context.Background(), 55); err != nil {
		t.Fatalf("expected recovery after 429, got %v", err)
	}
	if elapsed := time.Duration(secondAttempt.Load() - firstAttempt.Load()); elapsed < 900*time.Millisecond {
		t.Fatalf("Retry-After not honored, retried after %v", elapsed)
	}
}

func TestNonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	})
	client, _ := newTestClient(t, handler, 3)

	if _, err := client.FetchTeams(context.Background(), 55); err == nil {
		t.Fatal("expected immediate failure on 403")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", got)
	}
}

func TestSurrogateLeagueIDStable(t *testing.T) {
	t.Parallel()

	a := SurrogateLeagueID("Primeira Liga", "Portugal", 2025)
	b := SurrogateLeagueID("primeira liga", "PORTUGAL", 2025)
	if a <= 0 {
		t.Fatalf("surrogate id must be positive, got %d", a)
	}
	if a != b {
		t.Fatal("surrogate id must be case-insensitive")
	}
	if c := SurrogateLeagueID("Primeira Liga", "Portugal", 2024); c == a {
		t.Fatal("different seasons must not collide")
	}
	if d := SurrogateLeagueID("Segunda Liga", "Portugal", 2025); d == a {
		t.Fatal("different leagues must not collide")
	}
}
