package footystats

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/futstats/campeonatos/internal/platform/logging"
	"github.com/futstats/campeonatos/internal/platform/resilience"
	"github.com/futstats/campeonatos/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.football-data-api.com"
	defaultRateLimit = 2 // requests per second
	playerPageSize   = 200
	photoCDNBase     = "https://cdn.footystats.org/img/players"
)

var apiKeyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)
var errFootyStatsTransient = crerr.New("footystats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the FootyStats API. Requests are rate limited, retried
// with back-off and guarded by a circuit breaker; concurrent identical
// requests collapse into one.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		limiter:        rate.NewLimiter(rate.Limit(limit), 1),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

type pager struct {
	CurrentPage int `json:"current_page"`
	MaxPage     int `json:"max_page"`
	TotalResult int `json:"total_results"`
}

type leagueListEnvelope struct {
	Data []leagueRecord `json:"data"`
}

type leagueRecord struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Country string         `json:"country"`
	Image   string         `json:"image"`
	Seasons []seasonRecord `json:"season"`
}

type seasonRecord struct {
	ID   int64 `json:"id"`
	Year int   `json:"year"`
}

type teamListEnvelope struct {
	Data []teamRecord `json:"data"`
}

type teamRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CleanName string `json:"cleanName"`
	ShortHand string `json:"shortHand"`
	Country   string `json:"country"`
	Image     string `json:"image"`
	URL       string `json:"url"`
}

type matchListEnvelope struct {
	Data  []matchRecord `json:"data"`
	Pager pager         `json:"pager"`
}

type matchRecord struct {
	ID              int64  `json:"id"`
	HomeID          int64  `json:"homeID"`
	AwayID          int64  `json:"awayID"`
	HomeName        string `json:"home_name"`
	AwayName        string `json:"away_name"`
	Status          string `json:"status"`
	DateUnix        int64  `json:"date_unix"`
	HomeGoals       int    `json:"homeGoalCount"`
	AwayGoals       int    `json:"awayGoalCount"`
	HTGoalsHome     int    `json:"ht_goals_team_a"`
	HTGoalsAway     int    `json:"ht_goals_team_b"`
	StadiumName     string `json:"stadium_name"`
	StadiumLocation string `json:"stadium_location"`
	Referee         string `json:"referee"`
}

type playerListEnvelope struct {
	Data  []playerRecord `json:"data"`
	Pager pager          `json:"pager"`
}

type playerRecord struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	Position      string `json:"position"`
	Nationality   string `json:"nationality"`
	ClubTeamID    int64  `json:"club_team_id"`
	ClubTeamName  string `json:"club_team_name"`
	Goals         int    `json:"goals_overall"`
	Assists       int    `json:"assists_overall"`
	Appearances   int    `json:"appearances_overall"`
	MinutesPlayed int    `json:"minutes_played_overall"`
	CleanSheets   int    `json:"clean_sheets_overall"`
	YellowCards   int    `json:"yellow_cards_overall"`
	RedCards      int    `json:"red_cards_overall"`
	URL           string `json:"url"`
}

// FetchLeagues lists the account's chosen leagues with their seasons. A
// league the provider sends without an id gets a surrogate derived from its
// name, country and latest season year.
func (c *Client) FetchLeagues(ctx context.Context) ([]usecase.ExternalLeague, error) {
	var envelope leagueListEnvelope
	if err := c.doJSON(ctx, "/league-list", map[string]string{"chosen_leagues_only": "true"}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch league list: %w", err)
	}

	out := make([]usecase.ExternalLeague, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		seasons := make([]usecase.ExternalSeason, 0, len(item.Seasons))
		latestYear := 0
		for _, s := range item.Seasons {
			seasons = append(seasons, usecase.ExternalSeason{ID: s.ID, Year: s.Year})
			if s.Year > latestYear {
				latestYear = s.Year
			}
		}
		id := item.ID
		if id <= 0 {
			id = SurrogateLeagueID(item.Name, item.Country, latestYear)
		}
		out = append(out, usecase.ExternalLeague{
			ID:       id,
			Name:     item.Name,
			Country:  item.Country,
			ImageURL: item.Image,
			Seasons:  seasons,
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, seasonID int64) ([]usecase.ExternalTeam, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}
	var envelope teamListEnvelope
	query := map[string]string{"season_id": strconv.FormatInt(seasonID, 10)}
	if err := c.doJSON(ctx, "/league-teams", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams season_id=%d: %w", seasonID, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, usecase.ExternalTeam{
			ID:        item.ID,
			Name:      item.Name,
			CleanName: item.CleanName,
			ShortHand: item.ShortHand,
			Country:   item.Country,
			ImageURL:  item.Image,
			URL:       item.URL,
		})
	}
	return out, nil
}

// FetchMatches drains every page of the season's match list.
func (c *Client) FetchMatches(ctx context.Context, seasonID int64) ([]usecase.ExternalMatch, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	var out []usecase.ExternalMatch
	for page := 1; ; page++ {
		var envelope matchListEnvelope
		query := map[string]string{
			"season_id": strconv.FormatInt(seasonID, 10),
			"page":      strconv.Itoa(page),
		}
		if err := c.doJSON(ctx, "/league-matches", query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch matches season_id=%d page=%d: %w", seasonID, page, err)
		}
		for _, item := range envelope.Data {
			out = append(out, usecase.ExternalMatch{
				ID:          item.ID,
				HomeTeamID:  item.HomeID,
				AwayTeamID:  item.AwayID,
				HomeName:    item.HomeName,
				AwayName:    item.AwayName,
				Status:      item.Status,
				DateUnix:    item.DateUnix,
				HomeGoals:   item.HomeGoals,
				AwayGoals:   item.AwayGoals,
				HomeHTGoals: item.HTGoalsHome,
				AwayHTGoals: item.HTGoalsAway,
				Stadium:     item.StadiumName,
				StadiumCity: item.StadiumLocation,
				Referee:     item.Referee,
			})
		}
		if envelope.Pager.MaxPage <= 0 || envelope.Pager.CurrentPage >= envelope.Pager.MaxPage {
			break
		}
	}
	return out, nil
}

// FetchPlayers returns one page of the season's player list and whether more
// pages remain.
func (c *Client) FetchPlayers(ctx context.Context, seasonID int64, page int) ([]usecase.ExternalPlayer, bool, error) {
	if seasonID <= 0 {
		return nil, false, fmt.Errorf("season id must be greater than zero")
	}
	if page <= 0 {
		page = 1
	}

	var envelope playerListEnvelope
	query := map[string]string{
		"season_id":    strconv.FormatInt(seasonID, 10),
		"page":         strconv.Itoa(page),
		"max_per_page": strconv.Itoa(playerPageSize),
	}
	if err := c.doJSON(ctx, "/league-players", query, &envelope); err != nil {
		return nil, false, fmt.Errorf("fetch players season_id=%d page=%d: %w", seasonID, page, err)
	}

	out := make([]usecase.ExternalPlayer, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, usecase.ExternalPlayer{
			ID:            item.ID,
			Name:          item.FullName,
			Position:      item.Position,
			Nationality:   item.Nationality,
			TeamID:        item.ClubTeamID,
			TeamName:      item.ClubTeamName,
			Goals:         item.Goals,
			Assists:       item.Assists,
			Appearances:   item.Appearances,
			MinutesPlayed: item.MinutesPlayed,
			CleanSheets:   item.CleanSheets,
			YellowCards:   item.YellowCards,
			RedCards:      item.RedCards,
			PhotoURL:      derivePhotoURL(item.URL),
			ProfileURL:    item.URL,
		})
	}
	hasMore := envelope.Pager.MaxPage > 0 && envelope.Pager.CurrentPage < envelope.Pager.MaxPage
	return out, hasMore, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "footystats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("key", c.apiKey)

	fullURL := c.baseURL + path + "?" + values.Encode()

	flightKey := path + "?" + values.Encode()
	out, err := c.flight.Do(flightKey, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFootyStatsCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if isFootyStatsCircuitFailure(err) {
			return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, sanitizeSensitiveText(err.Error(), c.apiKey))
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		backoff := time.Duration(attempt+1) * time.Second
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootyStatsTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootyStatsTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootyStatsTransient, resp.StatusCode, abbreviateBody(raw))
				if resp.StatusCode == http.StatusTooManyRequests {
					if wait := retryAfter(resp.Header); wait > 0 {
						backoff = wait
					}
				}
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: provider request failed", errFootyStatsTransient)
	}
	c.logger.WarnContext(ctx, "footystats request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// SurrogateLeagueID derives a stable positive id for leagues the provider
// sends without one.
func SurrogateLeagueID(name, country string, seasonYear int) int64 {
	seed := strings.ToLower(strings.TrimSpace(name)) + "|" +
		strings.ToLower(strings.TrimSpace(country)) + "|" +
		strconv.Itoa(seasonYear)
	sum := sha256.Sum256([]byte(seed))
	id := int64(binary.BigEndian.Uint64(sum[:8]) & math.MaxInt64)
	if id == 0 {
		id = 1
	}
	return id
}

// derivePhotoURL rebuilds the CDN photo address from the player profile URL,
// whose last two path segments are nationality and slug.
func derivePhotoURL(profileURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil || parsed.Path == "" {
		return ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	nationality := segments[len(segments)-2]
	slug := segments[len(segments)-1]
	if nationality == "" || slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s-%s.png", photoCDNBase, nationality, slug)
}

func retryAfter(header http.Header) time.Duration {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

func isFootyStatsCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFootyStatsTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("key") {
		query.Set("key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
