package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	catalogdomain "github.com/AlibekovAA/book-review/internal/catalog/domain"
	"github.com/AlibekovAA/book-review/internal/catalog/service"
	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
	commonhttp "github.com/AlibekovAA/book-review/internal/common/http"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/session"
	"github.com/AlibekovAA/book-review/internal/web/render"
)

type CatalogService interface {
	Listing(ctx context.Context) ([]catalogdomain.Book, error)
	Search(ctx context.Context, term string) ([]catalogdomain.Book, error)
	BookDetail(ctx context.Context, isbn, userID string) (service.BookDetail, error)
	SubmitReview(ctx context.Context, input service.SubmitReviewInput) error
	Summary(ctx context.Context, isbn string) (catalogdomain.Summary, error)
}

type Config struct {
	RequestTimeout      time.Duration
	BrowseRequiresLogin bool
}

type Handler struct {
	catalog  CatalogService
	renderer render.Renderer
	errors   *commonhttp.ErrorHandler
	cfg      Config
	log      *logger.Logger
}

type searchPage struct {
	Query string
	Books []catalogdomain.Book
}

func NewHandler(catalog CatalogService, renderer render.Renderer, cfg Config, log *logger.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		renderer: renderer,
		errors:   commonhttp.NewErrorHandler(log),
		cfg:      cfg,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	withTimeout := commonhttp.WithTimeout(h.cfg.RequestTimeout)

	browse := func(next http.HandlerFunc) http.Handler {
		var handler http.Handler = withTimeout(next)
		if h.cfg.BrowseRequiresLogin {
			handler = session.RequireLogin("/login")(handler)
		}
		return handler
	}

	r.Handle("/search", browse(h.search)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/book/{isbn}", browse(h.bookDetail)).Methods(http.MethodGet)
	r.HandleFunc("/book/{isbn}", withTimeout(h.submitReview)).Methods(http.MethodPost)
	r.HandleFunc("/api/{isbn}", withTimeout(h.api)).Methods(http.MethodGet)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		books, err := h.catalog.Listing(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.renderer.Render(w, r, http.StatusOK, render.ViewSearch, searchPage{Books: books})
		return
	}

	if err := r.ParseForm(); err != nil {
		render.Apology(h.renderer, w, r, http.StatusBadRequest, "invalid form submission")
		return
	}

	term := r.PostFormValue("info")
	books, err := h.catalog.Search(r.Context(), term)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, render.ViewSearch, searchPage{Query: term, Books: books})
}

func (h *Handler) bookDetail(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]

	detail, err := h.catalog.BookDetail(r.Context(), isbn, session.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, render.ViewBook, detail)
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]

	userID := session.UserID(r.Context())
	if userID == "" {
		commonhttp.Redirect(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		render.Apology(h.renderer, w, r, http.StatusBadRequest, "invalid form submission")
		return
	}

	rate, present := r.PostForm["rate"]
	input := service.SubmitReviewInput{
		ISBN:        isbn,
		UserID:      userID,
		RatePresent: present && len(rate) > 0,
		Text:        r.PostFormValue("review"),
	}
	if input.RatePresent {
		input.Rate = rate[0]
	}

	if err := h.catalog.SubmitReview(r.Context(), input); err != nil {
		if errors.Is(err, commonerrors.ErrLoginRequired) {
			commonhttp.Redirect(w, r, "/login")
			return
		}
		h.writeError(w, r, err)
		return
	}

	commonhttp.Redirect(w, r, "/book/"+url.PathEscape(isbn))
}

func (h *Handler) api(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]

	summary, err := h.catalog.Summary(r.Context(), isbn)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := h.errors.Resolve(r, err)
	render.Apology(h.renderer, w, r, status, message)
}
