package webhook

import (
	"time"
)

// DisableThreshold is the consecutive-failure count at which a subscription
// is switched off automatically.
const DisableThreshold = 5

// Subscription is one registered webhook endpoint. LeagueID nil means the
// subscriber wants every league.
type Subscription struct {
	ID              int64
	URL             string
	LeagueID        *int64
	Events          []string
	Secret          string
	Active          bool
	FailureCount    int
	LastTriggeredAt *time.Time
	CreatedAt       time.Time
}

// Matches reports whether the subscription wants this event kind for this
// league. An empty event list means all kinds.
func (s Subscription) Matches(kind string, leagueID int64) bool {
	if !s.Active {
		return false
	}
	if s.LeagueID != nil && *s.LeagueID != leagueID {
		return false
	}
	if len(s.Events) == 0 {
		return true
	}
	for _, ev := range s.Events {
		if ev == kind {
			return true
		}
	}
	return false
}

// DeliveryLog is one delivery attempt, successful or not.
type DeliveryLog struct {
	ID             int64
	SubscriptionID int64
	EventType      string
	DeliveryID     string
	Payload        []byte
	ResponseCode   int
	ResponseBody   string
	Success        bool
	TriggeredAt    time.Time
}
