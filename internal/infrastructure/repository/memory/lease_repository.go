package memory

import (
	"context"
	"sync"
	"time"

	"github.com/futstats/campeonatos/internal/domain/lease"
)

type LeaseRepository struct {
	mu     sync.Mutex
	leases map[int64]lease.Lease
	now    func() time.Time
}

func NewLeaseRepository() *LeaseRepository {
	return &LeaseRepository{
		leases: make(map[int64]lease.Lease),
		now:    time.Now,
	}
}

func (r *LeaseRepository) Acquire(_ context.Context, leagueID int64, holder string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	current, ok := r.leases[leagueID]
	if ok && current.Holder != holder && !current.Expired(now) {
		return false, nil
	}
	r.leases[leagueID] = lease.Lease{
		LeagueID:  leagueID,
		Holder:    holder,
		ExpiresAt: now.Add(ttl),
	}
	return true, nil
}

func (r *LeaseRepository) Release(_ context.Context, leagueID int64, holder string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.leases[leagueID]
	if !ok || current.Holder != holder {
		return nil
	}
	delete(r.leases, leagueID)
	return nil
}
