package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/book-review/internal/catalog/domain"
	"github.com/AlibekovAA/book-review/internal/common/db"
	"github.com/AlibekovAA/book-review/internal/common/db/dbtest"
)

func seedBooks(t *testing.T, pool *pgxpool.Pool, books []domain.Book) *PgRepository {
	t.Helper()
	repo := NewPgRepository(pool)
	err := db.NewPgTxManager(pool).WithTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		_, err := repo.InsertBatch(ctx, tx, books)
		return err
	})
	require.NoError(t, err)
	return repo
}

func TestPgRepository_ListTopByTitle(t *testing.T) {
	pool := dbtest.NewPool(t)

	var books []domain.Book
	for i := 0; i < 12; i++ {
		books = append(books, domain.Book{ISBN: fmt.Sprintf("isbn-%02d", i), Title: fmt.Sprintf("Title %02d", i), Author: "A", Year: 2000 + i})
	}
	repo := seedBooks(t, pool, books)

	got, err := repo.ListTopByTitle(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "Title 11", got[0].Title)
	assert.Equal(t, "Title 02", got[9].Title)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].Title, got[i].Title)
	}
}

func TestPgRepository_Search(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := seedBooks(t, pool, []domain.Book{
		{ISBN: "0618260307", Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937},
		{ISBN: "0441172717", Title: "Dune", Author: "Frank Herbert", Year: 1965},
		{ISBN: "0553293354", Title: "Foundation", Author: "Isaac Asimov", Year: 1951},
		{ISBN: "1000000001", Title: "100% Pure", Author: "Nobody", Year: 2001},
	})
	ctx := context.Background()

	byTitle, err := repo.Search(ctx, "obbi")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "0618260307", byTitle[0].ISBN)

	byAuthor, err := repo.Search(ctx, "Herbert")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Dune", byAuthor[0].Title)

	byISBN, err := repo.Search(ctx, "0553")
	require.NoError(t, err)
	require.Len(t, byISBN, 1)
	assert.Equal(t, "Foundation", byISBN[0].Title)

	literal, err := repo.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "100% Pure", literal[0].Title)

	none, err := repo.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPgRepository_FindByISBN(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := seedBooks(t, pool, []domain.Book{{ISBN: "0441172717", Title: "Dune", Author: "Frank Herbert", Year: 1965}})
	ctx := context.Background()

	b, err := repo.FindByISBN(ctx, "0441172717")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 1965, b.Year)
	assert.NotZero(t, b.ID)

	_, err = repo.FindByISBN(ctx, "missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestPgRepository_InsertBatchDuplicateRollsBack(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := NewPgRepository(pool)

	err := db.NewPgTxManager(pool).WithTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		_, err := repo.InsertBatch(ctx, tx, []domain.Book{
			{ISBN: "1", Title: "First", Author: "A", Year: 1},
			{ISBN: "1", Title: "Again", Author: "B", Year: 2},
		})
		return err
	})
	require.True(t, errors.Is(err, ErrDuplicateISBN), "got %v", err)

	got, err := repo.ListTopByTitle(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
