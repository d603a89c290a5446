package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/book-review/internal/catalog/domain"
	"github.com/AlibekovAA/book-review/internal/common/db"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("duplicate isbn")
)

type Repository interface {
	ListTopByTitle(ctx context.Context, limit int) ([]domain.Book, error)
	Search(ctx context.Context, term string) ([]domain.Book, error)
	FindByISBN(ctx context.Context, isbn string) (domain.Book, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookColumns = `id, isbn, title, author, year`

func (r *PgRepository) ListTopByTitle(ctx context.Context, limit int) ([]domain.Book, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, ErrBookNotFound, "list_books", start)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	db.MeasureQueryDuration("list_books", start)
	return books, err
}

// Search matches term as a literal substring of isbn, title or author.
func (r *PgRepository) Search(ctx context.Context, term string) ([]domain.Book, error) {
	start := time.Now()
	pattern := "%" + escapeLike(term) + "%"
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+bookColumns+`
		 FROM books
		 WHERE isbn LIKE $1 ESCAPE '\'
		    OR title LIKE $1 ESCAPE '\'
		    OR author LIKE $1 ESCAPE '\'
		 ORDER BY title ASC`,
		pattern,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, ErrBookNotFound, "search_books", start)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	db.MeasureQueryDuration("search_books", start)
	return books, err
}

func (r *PgRepository) FindByISBN(ctx context.Context, isbn string) (domain.Book, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = $1`,
		isbn,
	)

	var b domain.Book
	err := row.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Year)
	if err := db.HandleQueryError(err, ErrBookNotFound, "find_book_by_isbn", start); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

// InsertBatch queues every book into one pgx.Batch on tx and sends it.
// Rows are inserted in slice order.
func (r *PgRepository) InsertBatch(ctx context.Context, tx pgx.Tx, books []domain.Book) (int64, error) {
	if len(books) == 0 {
		return 0, nil
	}
	start := time.Now()

	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(
			`INSERT INTO books (isbn, title, author, year) VALUES ($1, $2, $3, $4)`,
			b.ISBN, b.Title, b.Author, b.Year,
		)
	}

	results := tx.SendBatch(ctx, batch)
	var inserted int64
	for i := range books {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			db.MeasureQueryDuration("insert_books", start)
			if db.IsUniqueViolation(err) {
				return inserted, fmt.Errorf("%w: %s", ErrDuplicateISBN, books[i].ISBN)
			}
			return inserted, db.HandleExecError(err, "insert_books", start)
		}
		inserted += tag.RowsAffected()
	}

	if err := results.Close(); err != nil {
		return inserted, db.HandleExecError(err, "insert_books", start)
	}
	db.MeasureQueryDuration("insert_books", start)
	return inserted, nil
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Year); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return books, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
