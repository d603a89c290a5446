package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/AlibekovAA/book-review/internal/auth/service"
	"github.com/AlibekovAA/book-review/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/book-review/internal/common/crypto"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/session"
	userdomain "github.com/AlibekovAA/book-review/internal/user/domain"
	"github.com/AlibekovAA/book-review/internal/web/render"
)

type mockAuthService struct {
	registerFunc func(ctx context.Context, input service.RegisterInput) (userdomain.User, error)
	loginFunc    func(ctx context.Context, input service.LoginInput) (userdomain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, input service.RegisterInput) (userdomain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, input)
	}
	return userdomain.User{ID: "user-1", Username: input.Username}, nil
}

func (m *mockAuthService) Login(ctx context.Context, input service.LoginInput) (userdomain.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, input)
	}
	return userdomain.User{ID: "user-1", Username: input.Username}, nil
}

type fakeRenderer struct {
	status int
	view   string
	data   any
}

func (f *fakeRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, view string, data any) {
	f.status = status
	f.view = view
	f.data = data
	w.WriteHeader(status)
}

func (f *fakeRenderer) message() string {
	if a, ok := f.data.(render.ApologyData); ok {
		return a.Message
	}
	return ""
}

type testEnv struct {
	handler  http.Handler
	renderer *fakeRenderer
	auth     *mockAuthService
	store    *session.FileStore
}

func setupHandler(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, "test", "error")

	store, err := session.NewFileStore(t.TempDir(), clock.NewRealClock())
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	manager := session.NewManager(store, commoncrypto.NewUUIDGenerator(), "session", log)

	renderer := &fakeRenderer{}
	auth := &mockAuthService{}
	h := NewHandler(auth, renderer, 5*time.Second, log)

	router := mux.NewRouter()
	h.RegisterRoutes(router)

	return &testEnv{handler: manager.Middleware(router), renderer: renderer, auth: auth, store: store}
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAuthHTTP_Index(t *testing.T) {
	env := setupHandler(t)
	rec := httptest.NewRecorder()

	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if env.renderer.view != render.ViewWelcome {
		t.Errorf("expected welcome view, got %q", env.renderer.view)
	}
}

func TestAuthHTTP_Register_RedirectsToLogin(t *testing.T) {
	env := setupHandler(t)
	var got service.RegisterInput
	env.auth.registerFunc = func(_ context.Context, input service.RegisterInput) (userdomain.User, error) {
		got = input
		return userdomain.User{ID: "user-1"}, nil
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, postForm("/register", url.Values{
		"username": {"alice"},
		"password": {"pw"},
		"confirm":  {"pw"},
	}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	if got.Username != "alice" || got.Confirm != "pw" {
		t.Errorf("unexpected input %+v", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("registration must not log the user in")
	}
}

func TestAuthHTTP_Register_ErrorRendersApology(t *testing.T) {
	env := setupHandler(t)
	env.auth.registerFunc = func(context.Context, service.RegisterInput) (userdomain.User, error) {
		return userdomain.User{}, service.ErrUsernameTaken
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, postForm("/register", url.Values{"username": {"alice"}}))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if env.renderer.view != render.ViewApology {
		t.Errorf("expected apology view, got %q", env.renderer.view)
	}
	if env.renderer.message() != "username already exists" {
		t.Errorf("unexpected message %q", env.renderer.message())
	}
}

func TestAuthHTTP_Login_SetsSessionAndRedirects(t *testing.T) {
	env := setupHandler(t)
	env.auth.loginFunc = func(_ context.Context, input service.LoginInput) (userdomain.User, error) {
		return userdomain.User{ID: "user-42", Username: input.Username}, nil
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, postForm("/login", url.Values{"username": {"alice"}, "password": {"pw"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/search" {
		t.Errorf("expected redirect to /search, got %q", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie, got %d cookies", len(cookies))
	}
	data, err := env.store.Load(context.Background(), cookies[0].Value)
	if err != nil {
		t.Fatalf("expected stored session, got %v", err)
	}
	if data.UserID != "user-42" {
		t.Errorf("expected user-42 in session, got %q", data.UserID)
	}
}

func TestAuthHTTP_Login_IssuesFreshSessionID(t *testing.T) {
	env := setupHandler(t)
	ctx := context.Background()

	const sid = "6a0f6c1e-3d4b-4c2a-9e8f-1b2c3d4e5f60"
	if err := env.store.Save(ctx, sid, session.Data{UserID: "old-user"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	req.AddCookie(&http.Cookie{Name: "session", Value: sid})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a new session cookie, got %d cookies", len(cookies))
	}
	if cookies[0].Value == sid {
		t.Fatal("expected session id to change on login")
	}
	if _, err := env.store.Load(ctx, sid); err == nil {
		t.Error("expected pre-login session file to be removed")
	}
	data, err := env.store.Load(ctx, cookies[0].Value)
	if err != nil || data.UserID != "user-1" {
		t.Errorf("expected user-1 under new id, got %q (%v)", data.UserID, err)
	}
}

func TestAuthHTTP_Login_FailureClearsPreviousIdentity(t *testing.T) {
	env := setupHandler(t)
	ctx := context.Background()

	const sid = "6a0f6c1e-3d4b-4c2a-9e8f-1b2c3d4e5f60"
	if err := env.store.Save(ctx, sid, session.Data{UserID: "old-user"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	env.auth.loginFunc = func(context.Context, service.LoginInput) (userdomain.User, error) {
		return userdomain.User{}, service.ErrInvalidCredentials
	}

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"bad"}})
	req.AddCookie(&http.Cookie{Name: "session", Value: sid})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if env.renderer.message() != "invalid username and/or password" {
		t.Errorf("unexpected message %q", env.renderer.message())
	}
	if _, err := env.store.Load(ctx, sid); err == nil {
		t.Error("expected previous identity to be cleared")
	}
}

func TestAuthHTTP_Logout(t *testing.T) {
	env := setupHandler(t)
	ctx := context.Background()

	const sid = "6a0f6c1e-3d4b-4c2a-9e8f-1b2c3d4e5f60"
	if err := env.store.Save(ctx, sid, session.Data{UserID: "user-1"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sid})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, err := env.store.Load(ctx, sid); err == nil {
		t.Error("expected session to be removed")
	}
}

func TestAuthHTTP_MethodNotAllowed(t *testing.T) {
	env := setupHandler(t)
	rec := httptest.NewRecorder()

	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
