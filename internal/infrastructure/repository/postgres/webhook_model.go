package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/futstats/campeonatos/internal/domain/webhook"
)

type webhookSubscriptionTableModel struct {
	ID              int64          `db:"id"`
	URL             string         `db:"url"`
	LeagueID        sql.NullInt64  `db:"league_id"`
	Events          pq.StringArray `db:"events"`
	Secret          string         `db:"secret"`
	Active          bool           `db:"active"`
	FailureCount    int            `db:"failure_count"`
	LastTriggeredAt sql.NullTime   `db:"last_triggered_at"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (m webhookSubscriptionTableModel) toDomain() webhook.Subscription {
	sub := webhook.Subscription{
		ID:           m.ID,
		URL:          m.URL,
		Events:       []string(m.Events),
		Secret:       m.Secret,
		Active:       m.Active,
		FailureCount: m.FailureCount,
		CreatedAt:    m.CreatedAt,
	}
	if m.LeagueID.Valid {
		id := m.LeagueID.Int64
		sub.LeagueID = &id
	}
	if m.LastTriggeredAt.Valid {
		at := m.LastTriggeredAt.Time
		sub.LastTriggeredAt = &at
	}
	return sub
}

type webhookLogTableModel struct {
	ID             int64     `db:"id"`
	SubscriptionID int64     `db:"subscription_id"`
	EventType      string    `db:"event_type"`
	DeliveryID     string    `db:"delivery_id"`
	Payload        []byte    `db:"payload"`
	ResponseCode   int       `db:"response_code"`
	ResponseBody   string    `db:"response_body"`
	Success        bool      `db:"success"`
	TriggeredAt    time.Time `db:"triggered_at"`
}
