package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	BaseURL         string        // public URL of the app (ex: https://marks.domain.ext)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Sessions
	SessionTTL          time.Duration // lifetime of a session token
	SessionRefreshAfter time.Duration // age after which the guard rewrites the cookie with an extended session
	CookieSecure        bool          // Secure attribute on the session cookie (false only for local dev)

	// Background maintenance
	SweepInterval time.Duration // interval for the dangling-index sweeper (default: 24h)

	// Sign-in rate limiting (per client IP)
	LoginRateBurst  int // token bucket capacity
	LoginRatePerMin int // refill per minute

	// Redis (the backing platform: address + credentials)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AdminCIDRS   []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SMARKS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SMARKS_SHUTDOWN_TIMEOUT", 5*time.Second),
		BaseURL:         getenv("SMARKS_BASE_URL", ""),

		// Logging
		LogLevel:  getenv("SMARKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SMARKS_PRETTY_LOG", true),

		// Sessions
		SessionTTL:          mustDuration("SMARKS_SESSION_TTL", 30*24*time.Hour),
		SessionRefreshAfter: mustDuration("SMARKS_SESSION_REFRESH_AFTER", time.Hour),
		CookieSecure:        mustBool("SMARKS_COOKIE_SECURE", true),

		// Background sweeper
		SweepInterval: mustDuration("SMARKS_SWEEP_INTERVAL", 24*time.Hour),

		// Sign-in rate limiting
		LoginRateBurst:  getenvInt("SMARKS_LOGIN_RATE_BURST", 10),
		LoginRatePerMin: getenvInt("SMARKS_LOGIN_RATE_PER_MIN", 6),

		// Redis settings
		RedisAddr:             requireEnv("SMARKS_REDIS_ADDR"),
		RedisUser:             getenv("SMARKS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SMARKS_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SMARKS_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SMARKS_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SMARKS_ALLOWED_HOSTS", "")),
		AdminCIDRS:   splitAndTrim(getenv("SMARKS_ADMIN_CIDRS", "")),
		TrustProxy:   mustBool("SMARKS_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SMARKS_REDIS_PASSWORD is required when SMARKS_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.SessionRefreshAfter >= cfg.SessionTTL {
		panic(fmt.Sprintf("❌ FATAL: SMARKS_SESSION_REFRESH_AFTER (%v) must be shorter than SMARKS_SESSION_TTL (%v)",
			cfg.SessionRefreshAfter, cfg.SessionTTL))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
