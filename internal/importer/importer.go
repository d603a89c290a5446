// Package importer bulk-loads the book catalog from CSV.
package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/book-review/internal/catalog/domain"
	"github.com/AlibekovAA/book-review/internal/common/constants"
	"github.com/AlibekovAA/book-review/internal/common/db"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/observability/metrics"
)

type BatchWriter interface {
	InsertBatch(ctx context.Context, tx pgx.Tx, books []domain.Book) (int64, error)
}

type Deps struct {
	Tx        db.TxManager
	Books     BatchWriter
	BatchSize int
	Retry     db.RetryConfig
	Log       *logger.Logger
}

type Importer struct {
	tx        db.TxManager
	books     BatchWriter
	batchSize int
	retry     db.RetryConfig
	log       *logger.Logger
}

func New(deps Deps) *Importer {
	size := deps.BatchSize
	if size <= 0 {
		size = constants.DefaultImportBatch
	}
	retry := deps.Retry
	if retry.MaxAttempts <= 0 {
		retry = db.DefaultRetryConfig
	}
	return &Importer{
		tx:        deps.Tx,
		books:     deps.Books,
		batchSize: size,
		retry:     retry,
		log:       deps.Log,
	}
}

// Run reads every row from src and inserts them in a single transaction.
// Any parse or insert failure leaves the catalog untouched.
func (i *Importer) Run(ctx context.Context, src io.Reader, skipHeader bool) (int64, error) {
	start := time.Now()

	books, err := ReadBooks(src, skipHeader)
	if err != nil {
		i.log.WithFields(ctx, logger.Fields{
			"action": "import_parse_failed",
		}).Errorf("read csv: %v", err)
		return 0, err
	}

	var inserted int64
	err = db.RetryWithBackoff(ctx, i.log, i.retry, func() error {
		inserted = 0
		return i.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			for offset := 0; offset < len(books); offset += i.batchSize {
				end := min(offset+i.batchSize, len(books))
				n, err := i.books.InsertBatch(ctx, tx, books[offset:end])
				if err != nil {
					return fmt.Errorf("insert rows %d-%d: %w", offset+1, end, err)
				}
				inserted += n
			}
			return nil
		})
	})
	if err != nil {
		i.log.WithFields(ctx, logger.Fields{
			"rows":   len(books),
			"action": "import_failed",
		}).Errorf("import rolled back: %v", err)
		return 0, err
	}

	metrics.BooksImported.Add(float64(inserted))
	i.log.WithFields(ctx, logger.Fields{
		"rows":        inserted,
		"duration_ms": time.Since(start).Milliseconds(),
		"action":      "import_success",
	}).Info("catalog import committed")

	return inserted, nil
}
