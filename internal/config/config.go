package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	defaultPort          = "8080"
	defaultBackend       = BackendSQLite
	defaultSQLitePath    = "data/events.db"
	defaultCORSOrigins   = "http://localhost:3000,http://127.0.0.1:3000"
	defaultPublicBaseURL = "http://localhost:3000"
	defaultStatsCacheTTL = 30 * time.Second
	defaultCheckInRPS    = 5.0
	defaultCheckInBurst  = 10
)

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
}

type Config struct {
	Port          string
	Storage       Storage
	CORSOrigins   []string
	PublicBaseURL string

	RedisAddr     string
	StatsCacheTTL time.Duration

	OrganizerJWTSecret string

	CheckInRPS   float64
	CheckInBurst int

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means client IPs always come from the TCP peer.
	TrustedProxies []string
}

// LoadEnvFile loads the nearest .env (current or parent directories) without
// overriding variables that are already set.
func LoadEnvFile(logger *log.Logger) {
	path, err := findEnvFile()
	if err != nil {
		logger.Printf("WARN: failed to locate .env: %v", err)
		return
	}
	if path == "" {
		logger.Printf("WARN: .env not found in current or parent directories")
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.Printf("WARN: failed to load %s: %v", path, err)
		return
	}
	logger.Printf("loaded env from %s", path)
}

func findEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for i := 0; i < 6; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// FromEnv builds the runtime configuration, logging every default it falls back to.
func FromEnv(logger *log.Logger) (Config, error) {
	if logger == nil {
		logger = log.Default()
	}
	var c Config

	c.Port = lookup(logger, "PORT", defaultPort)

	c.Storage.Backend = strings.ToLower(lookup(logger, "STORAGE_BACKEND", defaultBackend))
	switch c.Storage.Backend {
	case BackendSQLite:
		c.Storage.SQLitePath = lookup(logger, "SQLITE_PATH", defaultSQLitePath)
	case BackendPostgres:
		c.Storage.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
		if c.Storage.DatabaseURL == "" {
			return c, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=%s", BackendPostgres)
		}
	default:
		return c, fmt.Errorf("unknown STORAGE_BACKEND %q (want %s or %s)", c.Storage.Backend, BackendSQLite, BackendPostgres)
	}

	c.CORSOrigins = ParseCSV(lookup(logger, "CORS_ORIGINS", defaultCORSOrigins))
	c.PublicBaseURL = strings.TrimRight(lookup(logger, "PUBLIC_BASE_URL", defaultPublicBaseURL), "/")

	c.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	c.StatsCacheTTL = defaultStatsCacheTTL
	if raw := strings.TrimSpace(os.Getenv("STATS_CACHE_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return c, fmt.Errorf("invalid STATS_CACHE_TTL %q", raw)
		}
		c.StatsCacheTTL = ttl
	}

	c.OrganizerJWTSecret = strings.TrimSpace(os.Getenv("ORGANIZER_JWT_SECRET"))
	if c.OrganizerJWTSecret == "" {
		logger.Printf("WARN: ORGANIZER_JWT_SECRET not set, organizer routes are unauthenticated")
	}

	c.CheckInRPS = defaultCheckInRPS
	if raw := strings.TrimSpace(os.Getenv("CHECKIN_RATE_RPS")); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return c, fmt.Errorf("invalid CHECKIN_RATE_RPS %q", raw)
		}
		c.CheckInRPS = rps
	}
	c.CheckInBurst = defaultCheckInBurst
	if raw := strings.TrimSpace(os.Getenv("CHECKIN_RATE_BURST")); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return c, fmt.Errorf("invalid CHECKIN_RATE_BURST %q", raw)
		}
		c.CheckInBurst = burst
	}

	c.TrustedProxies = ParseCSV(os.Getenv("TRUSTED_PROXIES"))
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return c, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
		}
	}

	return c, nil
}

func lookup(logger *log.Logger, key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		logger.Printf("WARN: %s not set, using default %s", key, fallback)
		return fallback
	}
	return v
}

// ParseCSV splits a comma-separated list, dropping blanks.
func ParseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
