package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DefaultHTTPAddr   = "localhost:8001"
	DefaultFPLBaseURL = "https://fantasy.premierleague.com/api"
)

// Config stores runtime configuration for the server and the exporter.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level
	LogFormat      logging.Format

	CORSAllowedOrigins []string
	StaticDir          string

	CacheTTL       time.Duration
	RefreshCron    string
	RefreshTimeout time.Duration

	FPLBaseURL               string
	FPLTimeout               time.Duration
	FPLUserAgent             string
	FPLMaxRetries            int
	FPLRetryDelay            time.Duration
	FPLRequestsPerSecond     float64
	FPLBootstrapTTL          time.Duration
	FPLCircuitEnabled        bool
	FPLCircuitFailureCount   int
	FPLCircuitOpenTimeout    time.Duration
	FPLCircuitHalfOpenMaxReq int
	FPLHistoryConcurrency    int

	ExportPath         string
	ExportPositiveOnly bool

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "fpl-xvalue"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   resolveHTTPAddr(getEnv("APP_HTTP_ADDR", DefaultHTTPAddr), os.Getenv("PORT")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                  logging.ParseFormat(getEnv("APP_LOG_FORMAT", string(logging.FormatJSON))),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StaticDir:                  strings.TrimSpace(getEnv("STATIC_DIR", "web")),
		RefreshCron:                strings.TrimSpace(getEnv("REFRESH_CRON", "")),
		FPLBaseURL:                 strings.TrimRight(strings.TrimSpace(getEnv("FPL_BASE_URL", DefaultFPLBaseURL)), "/"),
		FPLUserAgent:               strings.TrimSpace(getEnv("FPL_USER_AGENT", "fpl-xvalue/1.0")),
		ExportPath:                 strings.TrimSpace(getEnv("EXPORT_PATH", "players_data.xlsx")),
		UptraceDSN:                 strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.FPLBaseURL == "" {
		return Config{}, fmt.Errorf("FPL_BASE_URL cannot be empty")
	}

	durations := []struct {
		key       string
		fallback  string
		target    *time.Duration
		allowZero bool
	}{
		{key: "APP_READ_TIMEOUT", fallback: "10s", target: &cfg.ReadTimeout},
		{key: "APP_WRITE_TIMEOUT", fallback: "15s", target: &cfg.WriteTimeout},
		{key: "CACHE_TTL", fallback: "30m", target: &cfg.CacheTTL},
		{key: "REFRESH_TIMEOUT", fallback: "0s", target: &cfg.RefreshTimeout, allowZero: true},
		{key: "FPL_TIMEOUT", fallback: "30s", target: &cfg.FPLTimeout},
		{key: "FPL_RETRY_DELAY", fallback: "500ms", target: &cfg.FPLRetryDelay},
		{key: "FPL_BOOTSTRAP_TTL", fallback: "1m", target: &cfg.FPLBootstrapTTL},
		{key: "FPL_CIRCUIT_OPEN_TIMEOUT", fallback: "30s", target: &cfg.FPLCircuitOpenTimeout},
		{key: "PYROSCOPE_UPLOAD_RATE", fallback: "15s", target: &cfg.PyroscopeUploadRate},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if value < 0 {
			return Config{}, fmt.Errorf("%s must be >= 0", d.key)
		}
		if value == 0 && !d.allowZero {
			return Config{}, fmt.Errorf("%s must be > 0", d.key)
		}
		*d.target = value
	}

	if cfg.FPLMaxRetries, err = getEnvAsInt("FPL_MAX_RETRIES", 0); err != nil {
		return Config{}, fmt.Errorf("parse FPL_MAX_RETRIES: %w", err)
	}
	if cfg.FPLMaxRetries < 0 {
		return Config{}, fmt.Errorf("FPL_MAX_RETRIES must be >= 0")
	}
	if cfg.FPLRequestsPerSecond, err = getEnvAsFloat("FPL_REQUESTS_PER_SECOND", 0); err != nil {
		return Config{}, fmt.Errorf("parse FPL_REQUESTS_PER_SECOND: %w", err)
	}
	if cfg.FPLRequestsPerSecond < 0 {
		return Config{}, fmt.Errorf("FPL_REQUESTS_PER_SECOND must be >= 0")
	}
	if cfg.FPLHistoryConcurrency, err = getEnvAsInt("FPL_HISTORY_CONCURRENCY", 1); err != nil {
		return Config{}, fmt.Errorf("parse FPL_HISTORY_CONCURRENCY: %w", err)
	}
	if cfg.FPLHistoryConcurrency < 1 {
		return Config{}, fmt.Errorf("FPL_HISTORY_CONCURRENCY must be >= 1")
	}

	if cfg.FPLCircuitEnabled, err = strconv.ParseBool(getEnv("FPL_CIRCUIT_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.FPLCircuitFailureCount, err = getEnvAsInt("FPL_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FPLCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FPLCircuitHalfOpenMaxReq, err = getEnvAsInt("FPL_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FPLCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.RefreshCron != "" {
		if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
			return Config{}, fmt.Errorf("parse REFRESH_CRON: %w", err)
		}
	}

	if cfg.ExportPositiveOnly, err = strconv.ParseBool(getEnv("EXPORT_POSITIVE_ONLY", "true")); err != nil {
		return Config{}, fmt.Errorf("parse EXPORT_POSITIVE_ONLY: %w", err)
	}
	if cfg.ExportPath == "" {
		return Config{}, fmt.Errorf("EXPORT_PATH cannot be empty")
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
}

// resolveHTTPAddr lets a platform-assigned PORT win over APP_HTTP_ADDR and
// binds it on all interfaces.
func resolveHTTPAddr(addr, port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return strings.TrimSpace(addr)
	}
	return net.JoinHostPort("0.0.0.0", port)
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

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(value, 64)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
