package webhook

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, sub Subscription) (Subscription, error)
	GetByID(ctx context.Context, id int64) (Subscription, bool, error)
	ListActive(ctx context.Context) ([]Subscription, error)
	// RecordSuccess clears the failure counter after a delivered event.
	RecordSuccess(ctx context.Context, id int64, triggeredAt time.Time) error
	// RecordFailure bumps the failure counter atomically, deactivating the
	// subscription once the counter reaches disableAt. Returns the counter
	// value after the bump.
	RecordFailure(ctx context.Context, id int64, disableAt int, triggeredAt time.Time) (int, error)
	AppendLog(ctx context.Context, entry DeliveryLog) error
}
