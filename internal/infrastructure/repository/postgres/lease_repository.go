package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// LeaseRepository implements the per-league collection lease with a single
// conditional upsert, so two collectors can never both win the claim.
type LeaseRepository struct {
	db *sqlx.DB
}

func NewLeaseRepository(db *sqlx.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

func (r *LeaseRepository) Acquire(ctx context.Context, leagueID int64, holder string, ttl time.Duration) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO league_leases (league_id, holder, expires_at)
		VALUES ($1, $2, now() + $3 * interval '1 second')
		ON CONFLICT (league_id) DO UPDATE SET
			holder = EXCLUDED.holder,
			expires_at = EXCLUDED.expires_at
		WHERE league_leases.expires_at <= now() OR league_leases.holder = EXCLUDED.holder`,
		leagueID, holder, int64(ttl.Seconds()))
	if err != nil {
		return false, fmt.Errorf("acquire league lease: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read lease claim result: %w", err)
	}
	return affected > 0, nil
}

func (r *LeaseRepository) Release(ctx context.Context, leagueID int64, holder string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM league_leases WHERE league_id = $1 AND holder = $2`, leagueID, holder)
	if err != nil {
		return fmt.Errorf("release league lease: %w", err)
	}
	return nil
}
