package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AlibekovAA/book-review/internal/auth/service"
	commonhttp "github.com/AlibekovAA/book-review/internal/common/http"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/session"
	userdomain "github.com/AlibekovAA/book-review/internal/user/domain"
	"github.com/AlibekovAA/book-review/internal/web/render"
)

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (userdomain.User, error)
	Login(ctx context.Context, input service.LoginInput) (userdomain.User, error)
}

type Handler struct {
	auth     AuthService
	renderer render.Renderer
	errors   *commonhttp.ErrorHandler
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(auth AuthService, renderer render.Renderer, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		auth:     auth,
		renderer: renderer,
		errors:   commonhttp.NewErrorHandler(log),
		timeout:  timeout,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	withTimeout := commonhttp.WithTimeout(h.timeout)

	r.HandleFunc("/", h.index).Methods(http.MethodGet)
	r.HandleFunc("/register", withTimeout(h.register)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", withTimeout(h.login)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodGet)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, render.ViewWelcome, nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.renderer.Render(w, r, http.StatusOK, render.ViewRegister, nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.log.Warnf("register failed: invalid form: %v", err)
		render.Apology(h.renderer, w, r, http.StatusBadRequest, "invalid form submission")
		return
	}

	_, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.Redirect(w, r, "/login")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if ok {
		s.Clear()
	}

	if r.Method == http.MethodGet {
		h.renderer.Render(w, r, http.StatusOK, render.ViewLogin, nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.log.Warnf("login failed: invalid form: %v", err)
		render.Apology(h.renderer, w, r, http.StatusBadRequest, "invalid form submission")
		return
	}

	user, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if !ok {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_session_missing",
		}).Error("login succeeded but request has no session")
		render.Apology(h.renderer, w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	s.SetUserID(string(user.ID))

	commonhttp.Redirect(w, r, "/search")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := session.FromContext(r.Context()); ok {
		s.Clear()
	}
	commonhttp.Redirect(w, r, "/login")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := h.errors.Resolve(r, err)
	render.Apology(h.renderer, w, r, status, message)
}
