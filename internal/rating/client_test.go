package rating

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/book-review/internal/common/logger"
)

const sampleResponse = `{"books":[{"id":29207858,"isbn":"1632168146","isbn13":"9781632168146","ratings_count":0,"reviews_count":2,"text_reviews_count":0,"work_ratings_count":28,"work_reviews_count":123,"work_text_reviews_count":10,"average_rating":"4.07"}]}`

func newTestClient(t *testing.T, url string, threshold int32, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(Config{
		URL:              url,
		APIKey:           "test-key",
		Timeout:          timeout,
		BreakerThreshold: threshold,
		BreakerReset:     time.Minute,
	}, nil, logger.NewWithWriter(io.Discard, "test", "error"))
}

func TestClient_Lookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "1632168146", r.URL.Query().Get("isbns"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3, time.Second)
	r := c.Lookup(context.Background(), "1632168146")

	require.NotNil(t, r)
	require.InDelta(t, 4.07, r.AverageRating, 0.0001)
	require.Equal(t, int64(28), r.RatingsCount)
}

func TestClient_Lookup_Disabled(t *testing.T) {
	c := newTestClient(t, "", 3, time.Second)
	require.Nil(t, c.Lookup(context.Background(), "1632168146"))
}

func TestClient_Lookup_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3, time.Second)
	require.Nil(t, c.Lookup(context.Background(), "1632168146"))
}

func TestClient_Lookup_TimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, 3, 50*time.Millisecond)

	start := time.Now()
	require.Nil(t, c.Lookup(context.Background(), "1632168146"))
	require.Less(t, time.Since(start), time.Second)
}

func TestClient_Lookup_BreakerOpensAfterThreshold(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2, time.Second)
	for i := 0; i < 5; i++ {
		require.Nil(t, c.Lookup(context.Background(), "1632168146"))
	}

	require.Equal(t, int32(2), hits.Load())
}

func TestClient_Lookup_UnknownBookDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2, time.Second)
	for i := 0; i < 4; i++ {
		require.Nil(t, c.Lookup(context.Background(), "0000000000"))
	}

	require.Equal(t, int32(4), hits.Load())
}

func TestParse(t *testing.T) {
	r, err := parse([]byte(`{"books":[{"average_rating":3.5,"work_ratings_count":"10"}]}`))
	require.NoError(t, err)
	require.InDelta(t, 3.5, r.AverageRating, 0.0001)
	require.Equal(t, int64(10), r.RatingsCount)

	_, err = parse([]byte(`{"books":[]}`))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = parse([]byte(`{"books":[{"isbn":"1"}]}`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = parse([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformed)
}
