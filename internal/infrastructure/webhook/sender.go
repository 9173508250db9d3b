package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/futstats/campeonatos/internal/domain/event"
	"github.com/futstats/campeonatos/internal/domain/webhook"
	"github.com/futstats/campeonatos/internal/platform/logging"
	"github.com/futstats/campeonatos/internal/usecase"
)

const (
	headerSignature = "X-Webhook-Signature"
	headerEvent     = "X-Webhook-Event"
	headerTimestamp = "X-Webhook-Timestamp"
	headerDelivery  = "X-Webhook-Delivery"
)

type SenderConfig struct {
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxAttempts int
	UserAgent   string
}

// Sender delivers signed event payloads to subscriber endpoints over HTTP.
type Sender struct {
	httpClient  *http.Client
	maxAttempts int
	userAgent   string
	logger      *logging.Logger
}

func NewSender(cfg SenderConfig, logger *logging.Logger) *Sender {
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "campeonatos-webhook/1.0"
	}
	return &Sender{
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		userAgent:   userAgent,
		logger:      logger,
	}
}

type deliveryPayload struct {
	Event     string         `json:"event"`
	LeagueID  int64          `json:"league_id"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

// Send posts the event to the subscription endpoint, signing the raw body
// with the subscription secret. Transport errors and 5xx responses are
// retried up to the attempt bound; the last result wins.
func (s *Sender) Send(ctx context.Context, sub webhook.Subscription, ev event.Event) usecase.DeliveryResult {
	body, err := sonic.Marshal(deliveryPayload{
		Event:     ev.Kind,
		LeagueID:  ev.LeagueID,
		Data:      ev.Data,
		Timestamp: ev.OccurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return usecase.DeliveryResult{Err: fmt.Errorf("encode webhook payload: %w", err)}
	}

	signature := SignPayload(sub.Secret, body)
	timestamp := strconv.FormatInt(ev.OccurredAt.UTC().Unix(), 10)

	var last usecase.DeliveryResult
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		last = s.attempt(ctx, sub.URL, body, signature, ev.Kind, timestamp, ev.ID)
		last.Payload = body
		if last.Success() {
			return last
		}
		if last.StatusCode >= 400 && last.StatusCode < 500 {
			// The subscriber rejected the payload; retrying won't change that.
			return last
		}
		if attempt == s.maxAttempts-1 {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			last.Err = ctx.Err()
			return last
		case <-timer.C:
		}
	}
	return last
}

func (s *Sender) attempt(ctx context.Context, url string, body []byte, signature, kind, timestamp, deliveryID string) usecase.DeliveryResult {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf.B))
	if err != nil {
		return usecase.DeliveryResult{Err: fmt.Errorf("build webhook request: %w", err)}
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set(headerSignature, signature)
	req.Header.Set(headerEvent, kind)
	req.Header.Set(headerTimestamp, timestamp)
	req.Header.Set(headerDelivery, deliveryID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return usecase.DeliveryResult{Err: fmt.Errorf("send webhook: %w", err)}
	}
	defer resp.Body.Close()

	responseBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if readErr != nil {
		responseBody = nil
	}
	return usecase.DeliveryResult{
		StatusCode: resp.StatusCode,
		Body:       string(responseBody),
	}
}

// SignPayload computes the hex HMAC-SHA256 of the raw body.
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the raw body.
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := SignPayload(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
