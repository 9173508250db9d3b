package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/futstats/campeonatos/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the collector.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	DBURL string

	CacheTTL time.Duration

	FootyStatsBaseURL             string
	FootyStatsAPIKey              string
	FootyStatsTimeout             time.Duration
	FootyStatsMaxRetries          int
	FootyStatsRateLimit           float64
	FootyStatsCircuitEnabled      bool
	FootyStatsCircuitFailureCount int
	FootyStatsCircuitOpenTimeout  time.Duration
	FootyStatsCircuitHalfOpenReq  int

	SchedulerWorkers          int
	SchedulerTickInterval     time.Duration
	SchedulerLookaheadWindow  time.Duration
	SchedulerLiveInterval     time.Duration
	SchedulerUpcomingInterval time.Duration
	SchedulerPeriodicInterval time.Duration
	SchedulerCycleTimeout     time.Duration

	CollectorHolder   string
	CollectorLeaseTTL time.Duration
	TopScorerLimit    int

	WebhookTimeout       time.Duration
	WebhookMaxAttempts   int
	WebhookMaxConcurrent int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "campeonatos-collector"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:          strings.TrimSpace(getEnv("DB_URL", "")),
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheTTL = cacheTTL

	cfg.FootyStatsBaseURL = strings.TrimSpace(getEnv("FOOTYSTATS_BASE_URL", ""))
	cfg.FootyStatsAPIKey = strings.TrimSpace(getEnv("FOOTYSTATS_API_KEY", ""))
	if cfg.FootyStatsAPIKey == "" {
		return Config{}, fmt.Errorf("FOOTYSTATS_API_KEY is required")
	}

	footyTimeout, err := time.ParseDuration(getEnv("FOOTYSTATS_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_TIMEOUT: %w", err)
	}
	if footyTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_TIMEOUT must be > 0")
	}
	cfg.FootyStatsTimeout = footyTimeout

	maxRetries, err := getEnvAsInt("FOOTYSTATS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_MAX_RETRIES must be >= 0")
	}
	cfg.FootyStatsMaxRetries = maxRetries

	rateLimit, err := getEnvAsFloat("FOOTYSTATS_RATE_LIMIT_RPS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_RATE_LIMIT_RPS: %w", err)
	}
	if rateLimit <= 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_RATE_LIMIT_RPS must be > 0")
	}
	cfg.FootyStatsRateLimit = rateLimit

	circuitEnabled, err := strconv.ParseBool(getEnv("FOOTYSTATS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_ENABLED: %w", err)
	}
	cfg.FootyStatsCircuitEnabled = circuitEnabled

	circuitFailures, err := getEnvAsInt("FOOTYSTATS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailures < 1 {
		return Config{}, fmt.Errorf("FOOTYSTATS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.FootyStatsCircuitFailureCount = circuitFailures

	circuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTYSTATS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.FootyStatsCircuitOpenTimeout = circuitOpenTimeout

	halfOpenReq, err := getEnvAsInt("FOOTYSTATS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenReq < 1 {
		return Config{}, fmt.Errorf("FOOTYSTATS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.FootyStatsCircuitHalfOpenReq = halfOpenReq

	workers, err := getEnvAsInt("SCHEDULER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_WORKERS: %w", err)
	}
	if workers < 1 {
		return Config{}, fmt.Errorf("SCHEDULER_WORKERS must be >= 1")
	}
	cfg.SchedulerWorkers = workers

	durations := []struct {
		key      string
		fallback string
		target   *time.Duration
	}{
		{"SCHEDULER_TICK_INTERVAL", "30s", &cfg.SchedulerTickInterval},
		{"SCHEDULER_LOOKAHEAD_WINDOW", "30m", &cfg.SchedulerLookaheadWindow},
		{"SCHEDULER_LIVE_INTERVAL", "1m", &cfg.SchedulerLiveInterval},
		{"SCHEDULER_UPCOMING_INTERVAL", "5m", &cfg.SchedulerUpcomingInterval},
		{"SCHEDULER_PERIODIC_INTERVAL", "1h", &cfg.SchedulerPeriodicInterval},
		{"SCHEDULER_CYCLE_TIMEOUT", "5m", &cfg.SchedulerCycleTimeout},
		{"COLLECTOR_LEASE_TTL", "5m", &cfg.CollectorLeaseTTL},
		{"WEBHOOK_TIMEOUT", "10s", &cfg.WebhookTimeout},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if value <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0", d.key)
		}
		*d.target = value
	}

	holder := strings.TrimSpace(getEnv("COLLECTOR_HOLDER", ""))
	if holder == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "collector"
		}
		holder = hostname
	}
	cfg.CollectorHolder = holder

	topScorerLimit, err := getEnvAsInt("TOP_SCORER_LIMIT", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse TOP_SCORER_LIMIT: %w", err)
	}
	if topScorerLimit < 1 {
		return Config{}, fmt.Errorf("TOP_SCORER_LIMIT must be >= 1")
	}
	cfg.TopScorerLimit = topScorerLimit

	webhookAttempts, err := getEnvAsInt("WEBHOOK_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_MAX_ATTEMPTS: %w", err)
	}
	if webhookAttempts < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_MAX_ATTEMPTS must be >= 1")
	}
	cfg.WebhookMaxAttempts = webhookAttempts

	webhookConcurrent, err := getEnvAsInt("WEBHOOK_MAX_CONCURRENT", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_MAX_CONCURRENT: %w", err)
	}
	if webhookConcurrent < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_MAX_CONCURRENT must be >= 1")
	}
	cfg.WebhookMaxConcurrent = webhookConcurrent

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
