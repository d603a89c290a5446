package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_searches_total",
			Help: "Catalog searches by mode",
		},
		[]string{"mode"},
	)

	ReviewsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreview_reviews_created_total",
			Help: "Total number of reviews stored",
		},
	)

	ReviewsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_reviews_rejected_total",
			Help: "Review submissions rejected by reason",
		},
		[]string{"reason"},
	)

	RatingLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_rating_lookups_total",
			Help: "External rating lookups by outcome",
		},
		[]string{"outcome"},
	)

	RatingLookupDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookreview_rating_lookup_duration_seconds",
			Help:    "Duration of external rating lookups in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	BooksImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreview_books_imported_total",
			Help: "Total number of books inserted by the bulk loader",
		},
	)

	SessionsCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreview_sessions_cleanup_deleted_total",
			Help: "Total number of idle session files removed during cleanup",
		},
	)
)
