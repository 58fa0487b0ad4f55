package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	StorageDriver string // memory | mysql
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionStore  string // redis, or the storage driver name
	JWTSecret     string
	CacheTTL      time.Duration
	SimLatency    bool
	LatencyScale  float64
	SeedWorkers   int
	APIBaseURL    string
	APIRPS        int
	SessionFile   string
}

func Load() Config {
	// .env is optional; real environment variables win.
	_ = gotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		StorageDriver: env("STORAGE_DRIVER", "memory"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reservations?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		SessionStore:  env("SESSION_STORE", "memory"),
		JWTSecret:     env("JWT_SECRET", ""),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SimLatency:    env("SIMULATE_LATENCY", "false") == "true",
		LatencyScale:  atof("LATENCY_SCALE", 1),
		SeedWorkers:   atoi("SEED_WORKERS", 4),
		APIBaseURL:    env("API_BASE_URL", "http://localhost:8080/api"),
		APIRPS:        atoi("API_RPS", 10),
		SessionFile:   env("BOOKINGCTL_SESSION_FILE", defaultSessionFile()),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; using an insecure development secret")
		c.JWTSecret = "dev-only-secret"
	}
	if c.SessionStore == "redis" && c.RedisAddr == "" {
		log.Warn().Str("storage", c.StorageDriver).Msg("SESSION_STORE=redis without REDIS_ADDR; sessions stay in the storage driver")
		c.SessionStore = c.StorageDriver
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bookingctl-session.json"
	}
	return dir + "/bookingctl/session.json"
}
