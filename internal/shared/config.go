package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	RapidAPIKey   string
	HotelsBase    string
	HotelsHost    string
	GeocodingBase string
	GeocodingHost string
	Locale        string
	Currency      string

	MySQLDSN  string // empty disables search history; parseTime and UTC loc are forced on open
	RedisAddr string // empty disables the history cache
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	SessionTTL     time.Duration
	SearchTimeout  time.Duration
	RequestTimeout time.Duration
	EnrichWorkers  int
	InboundRPS     float64
	InboundBurst   int
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

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
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		RapidAPIKey:   env("RAPIDAPI_KEY", ""),
		HotelsBase:    env("HOTELS_BASE_URL", "https://hotels4.p.rapidapi.com"),
		HotelsHost:    env("HOTELS_HOST", "hotels4.p.rapidapi.com"),
		GeocodingBase: env("GEOCODING_BASE_URL", "https://forward-reverse-geocoding.p.rapidapi.com"),
		GeocodingHost: env("GEOCODING_HOST", "forward-reverse-geocoding.p.rapidapi.com"),
		Locale:        env("SEARCH_LOCALE", "en_US"),
		Currency:      env("SEARCH_CURRENCY", "USD"),

		MySQLDSN:  env("MYSQL_DSN", ""),
		RedisAddr: env("REDIS_ADDR", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		RedisPass: env("REDIS_PASSWORD", ""),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		SessionTTL:     time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
		SearchTimeout:  time.Duration(atoi("SEARCH_TIMEOUT_SECONDS", 120)) * time.Second,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 150)) * time.Second,
		EnrichWorkers:  atoi("ENRICH_WORKERS", 1),
		InboundRPS:     atof("INBOUND_RPS", 2),
		InboundBurst:   atoi("INBOUND_BURST", 5),
	}
	if c.RapidAPIKey == "" {
		log.Warn().Msg("RAPIDAPI_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
