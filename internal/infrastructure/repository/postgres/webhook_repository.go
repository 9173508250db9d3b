package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/futstats/campeonatos/internal/domain/webhook"
)

const webhookColumns = `id, url, league_id, events, secret, active, failure_count, last_triggered_at, created_at`

type WebhookRepository struct {
	db *sqlx.DB
}

func NewWebhookRepository(db *sqlx.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(ctx context.Context, sub webhook.Subscription) (webhook.Subscription, error) {
	var leagueID sql.NullInt64
	if sub.LeagueID != nil {
		leagueID = sql.NullInt64{Int64: *sub.LeagueID, Valid: true}
	}
	var id int64
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO webhook_subscriptions (url, league_id, events, secret, active, failure_count, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
		RETURNING id`,
		sub.URL, leagueID, pq.StringArray(sub.Events), sub.Secret, sub.Active, sub.CreatedAt,
	).Scan(&id)
	if err != nil {
		return webhook.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	sub.ID = id
	return sub, nil
}

func (r *WebhookRepository) GetByID(ctx context.Context, id int64) (webhook.Subscription, bool, error) {
	var row webhookSubscriptionTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT `+webhookColumns+` FROM webhook_subscriptions WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return webhook.Subscription{}, false, nil
		}
		return webhook.Subscription{}, false, fmt.Errorf("select subscription by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *WebhookRepository) ListActive(ctx context.Context) ([]webhook.Subscription, error) {
	var rows []webhookSubscriptionTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+webhookColumns+` FROM webhook_subscriptions WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select active subscriptions: %w", err)
	}
	out := make([]webhook.Subscription, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WebhookRepository) RecordSuccess(ctx context.Context, id int64, triggeredAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE webhook_subscriptions
		SET failure_count = 0, last_triggered_at = $2
		WHERE id = $1`,
		id, triggeredAt)
	if err != nil {
		return fmt.Errorf("reset subscription failure count: %w", err)
	}
	return nil
}

// RecordFailure increments in the database so concurrent cycles delivering
// to the same subscription never lose a count.
func (r *WebhookRepository) RecordFailure(ctx context.Context, id int64, disableAt int, triggeredAt time.Time) (int, error) {
	var failures int
	err := r.db.QueryRowxContext(ctx, `
		UPDATE webhook_subscriptions
		SET failure_count = failure_count + 1,
			active = active AND failure_count + 1 < $2,
			last_triggered_at = $3
		WHERE id = $1
		RETURNING failure_count`,
		id, disableAt, triggeredAt).Scan(&failures)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("increment subscription failure count: %w", err)
	}
	return failures, nil
}

func (r *WebhookRepository) AppendLog(ctx context.Context, entry webhook.DeliveryLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO webhook_logs (subscription_id, event_type, delivery_id, payload,
			response_code, response_body, success, triggered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.SubscriptionID, entry.EventType, entry.DeliveryID, entry.Payload,
		entry.ResponseCode, entry.ResponseBody, entry.Success, entry.TriggeredAt)
	if err != nil {
		return fmt.Errorf("insert webhook log: %w", err)
	}
	return nil
}
