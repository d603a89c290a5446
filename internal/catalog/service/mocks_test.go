package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	catalogdomain "github.com/AlibekovAA/book-review/internal/catalog/domain"
	catalogrepo "github.com/AlibekovAA/book-review/internal/catalog/repository"
	"github.com/AlibekovAA/book-review/internal/rating"
	reviewdomain "github.com/AlibekovAA/book-review/internal/review/domain"
	reviewrepo "github.com/AlibekovAA/book-review/internal/review/repository"
)

type memoryBooks struct {
	books   []catalogdomain.Book
	findErr error
}

func (m *memoryBooks) ListTopByTitle(_ context.Context, limit int) ([]catalogdomain.Book, error) {
	sorted := append([]catalogdomain.Book(nil), m.books...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Title > sorted[j].Title })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *memoryBooks) Search(_ context.Context, term string) ([]catalogdomain.Book, error) {
	var out []catalogdomain.Book
	for _, b := range m.books {
		if strings.Contains(b.ISBN, term) || strings.Contains(b.Title, term) || strings.Contains(b.Author, term) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBooks) FindByISBN(_ context.Context, isbn string) (catalogdomain.Book, error) {
	if m.findErr != nil {
		return catalogdomain.Book{}, m.findErr
	}
	for _, b := range m.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return catalogdomain.Book{}, catalogrepo.ErrBookNotFound
}

type memoryReviews struct {
	mu        sync.Mutex
	reviews   []reviewdomain.Review
	usernames map[string]string
	createErr error
	countErr  error
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{usernames: map[string]string{}}
}

func (m *memoryReviews) ListByBook(_ context.Context, bookID int64) ([]reviewdomain.Listed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []reviewdomain.Listed
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		if r.BookID == bookID {
			out = append(out, reviewdomain.Listed{Review: r, Username: m.usernames[r.UserID]})
		}
	}
	return out, nil
}

func (m *memoryReviews) CountByUserAndBook(_ context.Context, userID string, bookID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, r := range m.reviews {
		if r.UserID == userID && r.BookID == bookID {
			n++
		}
	}
	return n, nil
}

func (m *memoryReviews) Create(_ context.Context, review reviewdomain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.BookID == review.BookID {
			return reviewrepo.ErrDuplicateReview
		}
	}
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *memoryReviews) StatsByBook(_ context.Context, bookID int64) (reviewdomain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats reviewdomain.Stats
	for _, r := range m.reviews {
		if r.BookID == bookID {
			stats.Count++
			stats.Sum += int64(r.Rating)
		}
	}
	return stats, nil
}

type stubRatings struct {
	rating *rating.Rating
	calls  int
	mu     sync.Mutex
}

func (s *stubRatings) Lookup(context.Context, string) *rating.Rating {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.rating
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "review-" + string(rune('a'+g.n-1)), nil
}
