package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/pool"

	"github.com/futstats/campeonatos/internal/domain/event"
	"github.com/futstats/campeonatos/internal/domain/webhook"
	"github.com/futstats/campeonatos/internal/platform/logging"
)

// DeliveryResult is one attempt against a subscriber endpoint. Payload is
// the signed request body as it went over the wire; the audit log stores it.
type DeliveryResult struct {
	StatusCode int
	Payload    []byte
	Body       string
	Err        error
}

func (r DeliveryResult) Success() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// DeliverySender performs the signed HTTP delivery of one event.
type DeliverySender interface {
	Send(ctx context.Context, sub webhook.Subscription, ev event.Event) DeliveryResult
}

// RegisterSubscriptionInput is the subscriber-management payload.
type RegisterSubscriptionInput struct {
	URL      string   `validate:"required,url"`
	LeagueID *int64   `validate:"omitempty,gt=0"`
	Events   []string `validate:"omitempty,dive,required"`
	Secret   string   `validate:"omitempty,min=16"`
}

// WebhookService fans events out to matching subscriptions, tracks
// consecutive failures and disables endpoints that keep failing.
type WebhookService struct {
	repo          webhook.Repository
	sender        DeliverySender
	validate      *validator.Validate
	maxConcurrent int
	logger        *logging.Logger
	now           func() time.Time
}

func NewWebhookService(repo webhook.Repository, sender DeliverySender, maxConcurrent int, logger *logging.Logger) *WebhookService {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookService{
		repo:          repo,
		sender:        sender,
		validate:      validator.New(),
		maxConcurrent: maxConcurrent,
		logger:        logger,
		now:           time.Now,
	}
}

// Register creates a subscription. Unknown event kinds are rejected; a
// missing secret gets a random one.
func (s *WebhookService) Register(ctx context.Context, input RegisterSubscriptionInput) (webhook.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WebhookService.Register")
	defer span.End()

	if err := s.validate.StructCtx(ctx, input); err != nil {
		return webhook.Subscription{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, kind := range input.Events {
		if !event.IsKnownKind(kind) {
			return webhook.Subscription{}, fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, kind)
		}
	}

	secret := input.Secret
	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return webhook.Subscription{}, fmt.Errorf("generate subscription secret: %w", err)
		}
		secret = generated
	}

	sub := webhook.Subscription{
		URL:       input.URL,
		LeagueID:  input.LeagueID,
		Events:    input.Events,
		Secret:    secret,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return webhook.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return created, nil
}

// Dispatch delivers the event to every matching active subscription. One
// subscriber failing never blocks the others; failures only move that
// subscriber's counter.
func (s *WebhookService) Dispatch(ctx context.Context, ev event.Event) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.WebhookService.Dispatch")
	defer span.End()

	if !event.IsKnownKind(ev.Kind) {
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, ev.Kind)
	}

	subs, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active subscriptions: %w", err)
	}

	p := pool.New().WithMaxGoroutines(s.maxConcurrent)
	for _, sub := range subs {
		if !sub.Matches(ev.Kind, ev.LeagueID) {
			continue
		}
		sub := sub
		p.Go(func() {
			s.deliver(ctx, sub, ev)
		})
	}
	p.Wait()
	return nil
}

func (s *WebhookService) deliver(ctx context.Context, sub webhook.Subscription, ev event.Event) {
	result := s.sender.Send(ctx, sub, ev)
	triggeredAt := s.now().UTC()

	payload := result.Payload
	if payload == nil {
		payload = []byte{}
	}
	entry := webhook.DeliveryLog{
		SubscriptionID: sub.ID,
		EventType:      ev.Kind,
		DeliveryID:     ev.ID,
		Payload:        payload,
		ResponseCode:   result.StatusCode,
		ResponseBody:   result.Body,
		Success:        result.Success(),
		TriggeredAt:    triggeredAt,
	}
	if result.Err != nil {
		entry.ResponseBody = result.Err.Error()
	}
	if err := s.repo.AppendLog(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "webhook log append failed", "subscription_id", sub.ID, "error", err)
	}

	if result.Success() {
		if err := s.repo.RecordSuccess(ctx, sub.ID, triggeredAt); err != nil {
			s.logger.WarnContext(ctx, "webhook state update failed", "subscription_id", sub.ID, "error", err)
		}
		return
	}

	failures, err := s.repo.RecordFailure(ctx, sub.ID, webhook.DisableThreshold, triggeredAt)
	if err != nil {
		s.logger.WarnContext(ctx, "webhook state update failed", "subscription_id", sub.ID, "error", err)
	} else if failures == webhook.DisableThreshold {
		s.logger.WarnContext(ctx, "subscription disabled after repeated failures",
			"subscription_id", sub.ID, "failures", failures)
	}
	s.logger.WarnContext(ctx, "webhook delivery failed",
		"subscription_id", sub.ID, "event_id", ev.ID, "status", result.StatusCode, "error", result.Err)
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
