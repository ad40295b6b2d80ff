package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// EbayAppID is the only credential the Finding API takes.
	EbayAppID    string
	EbayGlobalID string
	FindingURL   string

	// MarketplaceBackend selects how listings are fetched: "finding" talks
	// to the Finding API, "browser" renders public search pages.
	MarketplaceBackend string
	ChromeBin          string
	HTTPTimeout        time.Duration
	RequestsPerSecond  float64
	MaxRetries         int

	UndervalueRatio     float64
	MinDealDiscount     int
	CheckInterval       time.Duration
	EndingSoonWindow    time.Duration
	EndingSoonLimit     int
	CompLimit           int
	SearchLimit         int
	MaxDeals            int
	KeepAlertsOnFailure bool

	// StoreBackend is "memory" or "postgres".
	StoreBackend     string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr    string
	RedisDB      int
	CompCacheTTL time.Duration

	HTTPAddr      string
	LogLevel      string
	CSVOutputPath string

	MaxConcurrency int
	RateLimitMs    int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		EbayAppID:    getEnv("EBAY_APP_ID", ""),
		EbayGlobalID: getEnv("EBAY_GLOBAL_ID", "EBAY-US"),
		FindingURL:   getEnv("EBAY_FINDING_URL", "https://svcs.ebay.com/services/search/FindingService/v1"),

		MarketplaceBackend: strings.ToLower(getEnv("MARKETPLACE_BACKEND", "finding")),
		ChromeBin:          getEnv("CHROME_BIN", ""),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		RequestsPerSecond:  getEnvFloat("REQUEST_RPS", 5),
		MaxRetries:         getEnvInt("MAX_RETRIES", 3),

		UndervalueRatio:     getEnvFloat("UNDERVALUE_RATIO", 0.6),
		MinDealDiscount:     getEnvInt("MIN_DEAL_DISCOUNT", 20),
		CheckInterval:       getEnvDuration("CHECK_INTERVAL", 5*time.Minute),
		EndingSoonWindow:    getEnvDuration("ENDING_SOON_WINDOW", 10*time.Minute),
		EndingSoonLimit:     getEnvInt("ENDING_SOON_LIMIT", 25),
		CompLimit:           getEnvInt("COMP_LIMIT", 20),
		SearchLimit:         getEnvInt("SEARCH_LIMIT", 50),
		MaxDeals:            getEnvInt("MAX_DEALS", 20),
		KeepAlertsOnFailure: getEnvBool("KEEP_ALERTS_ON_FAILURE", false),

		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scanner"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scanner123"),
		PostgresDB:       getEnv("POSTGRES_DB", "deals_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		CompCacheTTL: getEnvDuration("COMP_CACHE_TTL", 30*time.Minute),

		HTTPAddr:      getEnv("HTTP_ADDR", ":5000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "output/deals.csv"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "5m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
