package lease

import (
	"context"
	"time"
)

// Lease guards a league's collection cycle against concurrent collectors.
type Lease struct {
	LeagueID  int64
	Holder    string
	ExpiresAt time.Time
}

func (l Lease) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

type Repository interface {
	// Acquire claims the league for holder until now+ttl. Returns false when a
	// live lease is held by someone else.
	Acquire(ctx context.Context, leagueID int64, holder string, ttl time.Duration) (bool, error)
	// Release drops the lease if holder still owns it.
	Release(ctx context.Context, leagueID int64, holder string) error
}
