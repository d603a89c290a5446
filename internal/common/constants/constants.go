package constants

import "time"

const (
	SearchListingLimit    = 10
	DefaultMaxRequestSize = 1 << 20
	DefaultImportBatch    = 500
	DefaultBcryptCost     = 12

	DefaultSessionCookieName     = "session"
	DefaultSessionDir            = "./sessions"
	DefaultSessionMaxIdle        = 24 * time.Hour
	DefaultSessionCleanupEvery   = 1 * time.Hour
	SessionFileExt               = ".json"
	SessionFilePerm              = 0o600
	SessionDirPerm               = 0o700
	DefaultRatingsAPIURL         = "https://www.goodreads.com/book/review_counts.json"
	DefaultRatingsTimeout        = 3 * time.Second
	DefaultRatingsBreakerFails   = 5
	DefaultRatingsBreakerReset   = 30 * time.Second
	DefaultRatingsResponseMaxLen = 64 * 1024

	RateLimitCleanupInterval           = 5 * time.Minute
	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitReviewRequestsPerSecond   = 1.0
	RateLimitReviewBurst               = 5
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBApplicationName     = "book-review"

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second

	LoggerDefaultDir  = "/var/log/book-review"
	LoggerMaxSize     = 100
	LoggerMaxBackups  = 3
	LoggerMaxAge      = 28
	LoggerFileName    = "app.log"
	LoggerServiceWeb  = "web"
	LoggerServiceLoad = "import"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
