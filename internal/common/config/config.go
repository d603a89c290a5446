package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/book-review/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidBcryptCost  = errors.New("BCRYPT_COST must be between 4 and 31")
)

type SessionConfig struct {
	Dir             string
	CookieName      string
	MaxIdle         time.Duration
	CleanupInterval time.Duration
}

type RatingsConfig struct {
	URL              string
	APIKey           string
	Timeout          time.Duration
	BreakerThreshold int32
	BreakerReset     time.Duration
}

type WebConfig struct {
	HTTPPort            string
	DatabaseURL         string
	RequestTimeout      time.Duration
	BcryptCost          int
	BrowseRequiresLogin bool
	Session             SessionConfig
	Ratings             RatingsConfig
}

type ImportConfig struct {
	DatabaseURL string
	BatchSize   int
}

func LoadWebConfig() (WebConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return WebConfig{}, err
	}

	cost := getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost)
	if err := validateBcryptCost(cost); err != nil {
		return WebConfig{}, err
	}

	return WebConfig{
		HTTPPort:            getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:         databaseURL,
		RequestTimeout:      getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		BcryptCost:          cost,
		BrowseRequiresLogin: getBoolEnv("BROWSE_REQUIRES_LOGIN", false),
		Session: SessionConfig{
			Dir:             getEnv("SESSION_DIR", constants.DefaultSessionDir),
			CookieName:      getEnv("SESSION_COOKIE_NAME", constants.DefaultSessionCookieName),
			MaxIdle:         getDurationEnv("SESSION_MAX_IDLE", constants.DefaultSessionMaxIdle),
			CleanupInterval: getDurationEnv("SESSION_CLEANUP_INTERVAL", constants.DefaultSessionCleanupEvery),
		},
		Ratings: RatingsConfig{
			URL:              getEnv("RATINGS_API_URL", constants.DefaultRatingsAPIURL),
			APIKey:           getEnv("RATINGS_API_KEY", ""),
			Timeout:          getDurationEnv("RATINGS_TIMEOUT", constants.DefaultRatingsTimeout),
			BreakerThreshold: int32(getIntEnv("RATINGS_BREAKER_THRESHOLD", constants.DefaultRatingsBreakerFails)),
			BreakerReset:     getDurationEnv("RATINGS_BREAKER_RESET", constants.DefaultRatingsBreakerReset),
		},
	}, nil
}

func LoadImportConfig() (ImportConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return ImportConfig{}, err
	}

	batch := getIntEnv("IMPORT_BATCH_SIZE", constants.DefaultImportBatch)
	if batch <= 0 {
		batch = constants.DefaultImportBatch
	}

	return ImportConfig{
		DatabaseURL: databaseURL,
		BatchSize:   batch,
	}, nil
}

func validateBcryptCost(cost int) error {
	if cost < 4 || cost > 31 {
		return fmt.Errorf("%w: got %d", ErrInvalidBcryptCost, cost)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}
