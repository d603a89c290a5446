package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlibekovAA/book-review/internal/common/logger"
)

type testBook struct {
	ISBN   string
	Title  string
	Author string
	Year   int
}

type testReview struct {
	Username string
	Rating   int
	Text     string
}

type testRating struct {
	AverageRating float64
	RatingsCount  int
}

func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(logger.NewWithWriter(io.Discard, "test", "error"))
	if err != nil {
		t.Fatalf("expected templates to parse, got %v", err)
	}
	return tr
}

func TestTemplateRenderer_Apology(t *testing.T) {
	tr := newTestRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)

	tr.Render(rec, req, http.StatusNotFound, ViewApology, ApologyData{Message: "no matches <b>", Status: http.StatusNotFound})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "no matches &lt;b&gt;") {
		t.Errorf("expected escaped message in body, got %s", body)
	}
}

func TestTemplateRenderer_Search(t *testing.T) {
	tr := newTestRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)

	data := struct {
		Query string
		Books []testBook
	}{
		Query: "Tolkien",
		Books: []testBook{{ISBN: "0618260307", Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937}},
	}
	tr.Render(rec, req, http.StatusOK, ViewSearch, data)

	body := rec.Body.String()
	if !strings.Contains(body, `href="/book/0618260307"`) {
		t.Errorf("expected book link in body, got %s", body)
	}
	if !strings.Contains(body, "The Hobbit") {
		t.Error("expected title in body")
	}
}

func TestTemplateRenderer_BookWithoutRating(t *testing.T) {
	tr := newTestRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/book/0618260307", nil)

	data := struct {
		Book            testBook
		Rating          *testRating
		Reviews         []testReview
		AlreadyReviewed bool
	}{
		Book:    testBook{ISBN: "0618260307", Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937},
		Reviews: []testReview{{Username: "alice", Rating: 5, Text: "lovely"}},
	}
	tr.Render(rec, req, http.StatusOK, ViewBook, data)

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, body)
	}
	if strings.Contains(body, "Average rating") {
		t.Error("rating block must be omitted when no rating is available")
	}
	if !strings.Contains(body, "alice") {
		t.Error("expected reviewer name in body")
	}
	if strings.Contains(body, `name="rate"`) {
		t.Error("anonymous visitors must not see the review form")
	}
}

func TestTemplateRenderer_BookWithRating(t *testing.T) {
	tr := newTestRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/book/0618260307", nil)

	data := struct {
		Book            testBook
		Rating          *testRating
		Reviews         []testReview
		AlreadyReviewed bool
	}{
		Book:   testBook{ISBN: "0618260307", Title: "The Hobbit"},
		Rating: &testRating{AverageRating: 4.27, RatingsCount: 2500000},
	}
	tr.Render(rec, req, http.StatusOK, ViewBook, data)

	if !strings.Contains(rec.Body.String(), "Average rating 4.27 from 2500000 ratings") {
		t.Errorf("expected rating line, got %s", rec.Body.String())
	}
}

func TestTemplateRenderer_UnknownView(t *testing.T) {
	tr := newTestRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	tr.Render(rec, req, http.StatusOK, "missing", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
