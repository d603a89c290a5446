package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/book-review/internal/common/db"
	"github.com/AlibekovAA/book-review/internal/review/domain"
)

const userBookConstraint = "reviews_user_book_key"

var (
	ErrDuplicateReview = errors.New("review already exists for this user and book")
	errNoStats         = errors.New("no stats row")
)

type Repository interface {
	ListByBook(ctx context.Context, bookID int64) ([]domain.Listed, error)
	CountByUserAndBook(ctx context.Context, userID string, bookID int64) (int, error)
	Create(ctx context.Context, review domain.Review) error
	StatsByBook(ctx context.Context, bookID int64) (domain.Stats, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// ListByBook returns reviews with their author's username, newest first.
func (r *PgRepository) ListByBook(ctx context.Context, bookID int64) ([]domain.Listed, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT r.id, r.book_id, r.user_id, r.rating, r.review, r.created_at, u.username
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.book_id = $1
		 ORDER BY r.created_at DESC`,
		bookID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list_reviews_by_book", start)
	}
	defer rows.Close()

	var reviews []domain.Listed
	for rows.Next() {
		var l domain.Listed
		if err := rows.Scan(&l.ID, &l.BookID, &l.UserID, &l.Rating, &l.Text, &l.CreatedAt, &l.Username); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	db.MeasureQueryDuration("list_reviews_by_book", start)
	return reviews, nil
}

func (r *PgRepository) CountByUserAndBook(ctx context.Context, userID string, bookID int64) (int, error) {
	start := time.Now()
	var count int
	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM reviews WHERE user_id = $1 AND book_id = $2`,
		userID,
		bookID,
	).Scan(&count)
	if err := db.HandleQueryError(err, errNoStats, "count_reviews_by_user", start); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgRepository) Create(ctx context.Context, review domain.Review) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO reviews (id, book_id, user_id, rating, review, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID,
		review.BookID,
		review.UserID,
		review.Rating,
		review.Text,
		review.CreatedAt,
	)
	if db.UniqueViolationConstraint(err) == userBookConstraint {
		db.MeasureQueryDuration("create_review", start)
		return ErrDuplicateReview
	}
	return db.HandleExecError(err, "create_review", start)
}

// StatsByBook computes review count and rating total in one query. The mean
// is left to the caller so it can be rounded exactly.
func (r *PgRepository) StatsByBook(ctx context.Context, bookID int64) (domain.Stats, error) {
	start := time.Now()
	var stats domain.Stats
	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(rating), 0) FROM reviews WHERE book_id = $1`,
		bookID,
	).Scan(&stats.Count, &stats.Sum)
	if err := db.HandleQueryError(err, errNoStats, "review_stats_by_book", start); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}
