package rating

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/AlibekovAA/book-review/internal/common/constants"
	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/common/resilience"
	"github.com/AlibekovAA/book-review/internal/observability/metrics"
)

var (
	ErrNotFound         = errors.New("rating not found")
	ErrUnexpectedStatus = errors.New("unexpected rating service status")
	ErrMalformed        = errors.New("malformed rating response")
)

const (
	averagePath = "books.0.average_rating"
	countPath   = "books.0.work_ratings_count"
)

// Rating is the external service's view of a book.
type Rating struct {
	AverageRating float64
	RatingsCount  int64
}

type Config struct {
	URL              string
	APIKey           string
	Timeout          time.Duration
	BreakerThreshold int32
	BreakerReset     time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *resilience.CircuitBreaker
	log        *logger.Logger
}

func NewClient(cfg Config, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRatingsTimeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:   cfg.BreakerThreshold,
			Timeout:     timeout,
			ResetAfter:  cfg.BreakerReset,
			Name:        "ratings",
			IgnoreError: func(err error) bool { return errors.Is(err, ErrNotFound) },
			Logger:      log,
		}),
		log: log,
	}
}

// Lookup returns the rating for isbn, or nil when the service is disabled,
// unreachable, slow, or does not know the book. It never fails the caller.
func (c *Client) Lookup(ctx context.Context, isbn string) *Rating {
	if c.baseURL == "" {
		return nil
	}

	start := time.Now()
	var result *Rating

	_ = c.breaker.CallWithFallback(ctx, func(callCtx context.Context) error {
		r, err := c.fetch(callCtx, isbn)
		if err != nil {
			return err
		}
		result = r
		return nil
	}, func(err error) error {
		outcome := "error"
		switch {
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		case errors.Is(err, context.DeadlineExceeded):
			outcome = "timeout"
		case errors.Is(err, commonerrors.ErrCircuitOpen):
			outcome = "circuit_open"
		}
		metrics.RatingLookupsTotal.WithLabelValues(outcome).Inc()
		c.log.WithFields(ctx, logger.Fields{
			"isbn":    isbn,
			"outcome": outcome,
			"action":  "rating_lookup_fallback",
		}).Warnf("rating lookup failed, rendering without rating: %v", err)
		return nil
	})

	metrics.RatingLookupDurationSeconds.Observe(time.Since(start).Seconds())
	if result != nil {
		metrics.RatingLookupsTotal.WithLabelValues("success").Inc()
	}
	return result
}

func (c *Client) fetch(ctx context.Context, isbn string) (*Rating, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse rating url: %w", err)
	}
	q := u.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	q.Set("isbns", isbn)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rating request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.DefaultRatingsResponseMaxLen))
	if err != nil {
		return nil, fmt.Errorf("read rating response: %w", err)
	}

	return parse(body)
}

func parse(body []byte) (*Rating, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}

	if !gjson.GetBytes(body, "books.0").Exists() {
		return nil, ErrNotFound
	}

	res := gjson.GetManyBytes(body, averagePath, countPath)
	if !res[0].Exists() || !res[1].Exists() {
		return nil, ErrMalformed
	}

	return &Rating{
		AverageRating: res[0].Float(),
		RatingsCount:  res[1].Int(),
	}, nil
}
