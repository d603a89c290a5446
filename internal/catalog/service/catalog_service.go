package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	catalogdomain "github.com/AlibekovAA/book-review/internal/catalog/domain"
	catalogrepo "github.com/AlibekovAA/book-review/internal/catalog/repository"
	"github.com/AlibekovAA/book-review/internal/common/clock"
	"github.com/AlibekovAA/book-review/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/book-review/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/observability/metrics"
	"github.com/AlibekovAA/book-review/internal/rating"
	reviewdomain "github.com/AlibekovAA/book-review/internal/review/domain"
	reviewrepo "github.com/AlibekovAA/book-review/internal/review/repository"
)

type RatingLookup interface {
	Lookup(ctx context.Context, isbn string) *rating.Rating
}

type CatalogServiceDeps struct {
	Books       catalogrepo.Repository
	Reviews     reviewrepo.Repository
	Ratings     RatingLookup
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type CatalogService struct {
	books       catalogrepo.Repository
	reviews     reviewrepo.Repository
	ratings     RatingLookup
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewCatalogService(deps CatalogServiceDeps) *CatalogService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &CatalogService{
		books:       deps.Books,
		reviews:     deps.Reviews,
		ratings:     deps.Ratings,
		idGenerator: deps.IDGenerator,
		clock:       clk,
		log:         deps.Log,
	}
}

// BookDetail is everything the book page shows. Rating is nil when the
// external service could not answer.
type BookDetail struct {
	Book            catalogdomain.Book
	Reviews         []reviewdomain.Listed
	Rating          *rating.Rating
	AlreadyReviewed bool
}

type SubmitReviewInput struct {
	ISBN   string
	UserID string
	// Rate is the raw form value; RatePresent is false when the field was
	// not submitted at all.
	Rate        string
	RatePresent bool
	Text        string
}

// Listing returns the books with the greatest titles.
func (s *CatalogService) Listing(ctx context.Context) ([]catalogdomain.Book, error) {
	books, err := s.books.ListTopByTitle(ctx, constants.SearchListingLimit)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "listing_failed",
		}).Errorf("listing failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	metrics.SearchesTotal.WithLabelValues("listing").Inc()
	return books, nil
}

// Search returns every book whose isbn, title or author contains term.
// An empty term matches the whole catalog.
func (s *CatalogService) Search(ctx context.Context, term string) ([]catalogdomain.Book, error) {
	books, err := s.books.Search(ctx, term)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"term":   term,
			"action": "search_failed",
		}).Errorf("search failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	metrics.SearchesTotal.WithLabelValues("query").Inc()

	if len(books) == 0 {
		s.log.WithFields(ctx, logger.Fields{
			"term":   term,
			"action": "search_no_matches",
		}).Debug("search returned no matches")
		return nil, ErrNoMatches
	}
	return books, nil
}

func (s *CatalogService) findBook(ctx context.Context, isbn string, notFound error) (catalogdomain.Book, error) {
	book, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrBookNotFound) {
			return catalogdomain.Book{}, notFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"isbn":   isbn,
			"action": "book_lookup_failed",
		}).Errorf("book lookup failed: %v", err)
		return catalogdomain.Book{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return book, nil
}

func (s *CatalogService) BookDetail(ctx context.Context, isbn, userID string) (BookDetail, error) {
	book, err := s.findBook(ctx, isbn, commonerrors.ErrBookNotFound)
	if err != nil {
		return BookDetail{}, err
	}

	ratingCh := make(chan *rating.Rating, 1)
	go func() {
		ratingCh <- s.ratings.Lookup(ctx, book.ISBN)
	}()

	reviews, err := s.reviews.ListByBook(ctx, book.ID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"isbn":   isbn,
			"action": "reviews_list_failed",
		}).Errorf("listing reviews failed: %v", err)
		return BookDetail{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	detail := BookDetail{
		Book:    book,
		Reviews: reviews,
	}
	if userID != "" {
		for _, r := range reviews {
			if r.UserID == userID {
				detail.AlreadyReviewed = true
				break
			}
		}
	}

	detail.Rating = <-ratingCh
	return detail, nil
}

// SubmitReview stores one review per user and book. Checks run in order:
// identity, rating present, rating integral, no prior review.
func (s *CatalogService) SubmitReview(ctx context.Context, input SubmitReviewInput) error {
	if input.UserID == "" {
		return commonerrors.ErrLoginRequired
	}

	book, err := s.findBook(ctx, input.ISBN, commonerrors.ErrBookNotFound)
	if err != nil {
		return err
	}

	rawRate := strings.TrimSpace(input.Rate)
	if !input.RatePresent || rawRate == "" {
		metrics.ReviewsRejected.WithLabelValues("missing_rating").Inc()
		return ErrRatingRequired
	}
	rate, err := strconv.Atoi(rawRate)
	if err != nil {
		metrics.ReviewsRejected.WithLabelValues("invalid_rating").Inc()
		return ErrRatingNotInteger
	}

	count, err := s.reviews.CountByUserAndBook(ctx, input.UserID, book.ID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"isbn":    input.ISBN,
			"user_id": input.UserID,
			"action":  "review_precheck_failed",
		}).Errorf("review pre-check failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
	if count > 0 {
		s.logDuplicate(ctx, input)
		return ErrDuplicateReview
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return commonerrors.ErrInternalError.WithCause(err)
	}

	review := reviewdomain.Review{
		ID:        id,
		BookID:    book.ID,
		UserID:    input.UserID,
		Rating:    rate,
		Text:      input.Text,
		CreatedAt: s.clock.Now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, reviewrepo.ErrDuplicateReview) {
			s.logDuplicate(ctx, input)
			return ErrDuplicateReview
		}
		s.log.WithFields(ctx, logger.Fields{
			"isbn":    input.ISBN,
			"user_id": input.UserID,
			"action":  "review_create_failed",
		}).Errorf("review create failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.ReviewsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"isbn":    input.ISBN,
		"user_id": input.UserID,
		"rating":  rate,
		"action":  "review_created",
	}).Info("review created")
	return nil
}

func (s *CatalogService) logDuplicate(ctx context.Context, input SubmitReviewInput) {
	metrics.ReviewsRejected.WithLabelValues("duplicate").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"isbn":    input.ISBN,
		"user_id": input.UserID,
		"action":  "review_duplicate",
	}).Warn("review rejected: already reviewed")
}

// Summary backs the JSON API: metadata plus the local review aggregate with
// the mean rounded to one decimal.
func (s *CatalogService) Summary(ctx context.Context, isbn string) (catalogdomain.Summary, error) {
	book, err := s.findBook(ctx, isbn, ErrInvalidISBN)
	if err != nil {
		return catalogdomain.Summary{}, err
	}

	stats, err := s.reviews.StatsByBook(ctx, book.ID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"isbn":   isbn,
			"action": "review_stats_failed",
		}).Errorf("review stats failed: %v", err)
		return catalogdomain.Summary{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return catalogdomain.Summary{
		Title:        book.Title,
		Author:       book.Author,
		Year:         book.Year,
		ISBN:         book.ISBN,
		AverageScore: roundAverage(stats.Sum, stats.Count),
		ReviewCount:  stats.Count,
	}, nil
}

// roundAverage returns sum/count to one decimal with ties to even. It works
// on integers so a mean like 3.25 is an exact tie and rounds to 3.2.
func roundAverage(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	neg := sum < 0
	if neg {
		sum = -sum
	}

	tenths, rem := sum*10/count, sum*10%count
	switch {
	case 2*rem > count:
		tenths++
	case 2*rem == count && tenths%2 == 1:
		tenths++
	}

	v := float64(tenths) / 10
	if neg {
		v = -v
	}
	return v
}
