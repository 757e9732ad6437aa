// Package config provides gateway configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, upstream service locations, the result cache, the audit database,
// rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/spreadit-gateway/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "spreadit-gateway")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// UpstreamConfig locates the four backend services.
type UpstreamConfig struct {
	UserURL   string        // USER_SERVICE_URL
	CourseURL string        // COURSE_SERVICE_URL
	ModuleURL string        // MODULE_SERVICE_URL
	PostURL   string        // POST_SERVICE_URL
	Timeout   time.Duration // UPSTREAM_TIMEOUT, bound on every outbound call
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend   string        // CACHE_BACKEND: memory|redis
	TTL       time.Duration // CACHE_TTL
	RedisAddr string        // REDIS_ADDR (redis backend only)
}

// Config holds all configuration values for the gateway.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Audit journal / idempotency store
	DBPath string // SQLite path

	// Backends
	Upstream UpstreamConfig
	Cache    CacheConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values and validates the result. Every problem found is
// reported, joined into one error.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DBPath: getenv("DB_PATH", "gateway.db"),

		Upstream: UpstreamConfig{
			UserURL:   trimURL(getenv("USER_SERVICE_URL", "http://localhost:8001")),
			CourseURL: trimURL(getenv("COURSE_SERVICE_URL", "http://localhost:8002")),
			ModuleURL: trimURL(getenv("MODULE_SERVICE_URL", "http://localhost:8003")),
			PostURL:   trimURL(getenv("POST_SERVICE_URL", "http://localhost:8004")),
			Timeout:   getdur("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Backend:   strings.ToLower(getenv("CACHE_BACKEND", "memory")),
			TTL:       getdur("CACHE_TTL", 30*time.Minute),
			RedisAddr: getenv("REDIS_ADDR", ""),
		},

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "spreadit-gateway"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if !slices.Contains([]string{"debug", "release", "test"}, c.GinMode) {
		c.GinMode = "release"
	}
}

// Validate reports every invalid setting of c, or nil.
func (c Config) Validate() error {
	var p problems
	p.check(!slices.Contains(logLevels, c.LogLevel), "LOG_LEVEL must be one of: %s", strings.Join(logLevels, ", "))
	p.check(strings.TrimSpace(c.Port) == "", "PORT must not be empty")
	p.check(c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0,
		"timeouts must be positive durations")
	p.check(c.MaxHeaderBytes <= 0, "MAX_HEADER_BYTES must be > 0")
	p.check(strings.TrimSpace(c.DBPath) == "", "DB_PATH must not be empty")
	p = append(p, c.Upstream.validate()...)
	p = append(p, c.Cache.validate()...)
	p.check(c.RateRPS < 0, "RATE_RPS must be >= 0")
	p.check(c.RateBurst < 1, "RATE_BURST must be >= 1")
	p.check(c.Security.HSTSMaxAge < 0, "HSTS_MAX_AGE must be >= 0")
	p.check(c.IdempotencyTTL <= 0, "IDEMPOTENCY_TTL must be > 0")
	p.check(c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	return errors.Join(p...)
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal", "panic"}

func (u UpstreamConfig) validate() problems {
	var p problems
	for _, svc := range []struct{ key, url string }{
		{"USER_SERVICE_URL", u.UserURL},
		{"COURSE_SERVICE_URL", u.CourseURL},
		{"MODULE_SERVICE_URL", u.ModuleURL},
		{"POST_SERVICE_URL", u.PostURL},
	} {
		p.check(!validURL(svc.url), "%s must be an absolute http(s) URL", svc.key)
	}
	p.check(u.Timeout <= 0, "UPSTREAM_TIMEOUT must be > 0")
	return p
}

func (cc CacheConfig) validate() problems {
	var p problems
	switch cc.Backend {
	case "memory":
	case "redis":
		p.check(strings.TrimSpace(cc.RedisAddr) == "", "REDIS_ADDR is required when CACHE_BACKEND=redis")
	default:
		p.check(true, "CACHE_BACKEND must be one of: memory, redis")
	}
	p.check(cc.TTL <= 0, "CACHE_TTL must be > 0")
	return p
}

// problems collects validation failures.
type problems []error

func (p *problems) check(bad bool, format string, args ...any) {
	if bad {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

// ---- env helpers ----

// lookup parses the variable k, returning def when it is unset, empty or
// does not parse.
func lookup[T any](k string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func getenv(k, def string) string {
	return lookup(k, def, func(v string) (string, error) { return v, nil })
}

func getint(k string, def int) int { return lookup(k, def, strconv.Atoi) }

func getfloat(k string, def float64) float64 {
	return lookup(k, def, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

func getdur(k string, def time.Duration) time.Duration { return lookup(k, def, time.ParseDuration) }

func getbool(k string, def bool) bool {
	if val, ok := sysutil.ParseBool(os.Getenv(k)); ok {
		return val
	}
	return def
}

// splitCSV splits a comma list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing ones (root
// stays "/").
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}

// trimURL drops surrounding whitespace and trailing slashes so paths can be
// appended directly.
func trimURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
