package session

import (
	"context"
	"errors"
	"net/http"

	commoncrypto "github.com/AlibekovAA/book-review/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
	"github.com/AlibekovAA/book-review/internal/common/logger"
)

type Manager struct {
	store      Store
	ids        commoncrypto.IDGenerator
	cookieName string
	log        *logger.Logger
}

func NewManager(store Store, ids commoncrypto.IDGenerator, cookieName string, log *logger.Logger) *Manager {
	return &Manager{
		store:      store,
		ids:        ids,
		cookieName: cookieName,
		log:        log,
	}
}

// Middleware resolves the request's session and persists changes right
// before the first byte of the response goes out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.resolve(r)
		if err != nil {
			m.log.WithFields(r.Context(), logger.Fields{
				"action": "session_resolve_failed",
			}).Errorf("session resolve failed: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		sw := &sessionWriter{ResponseWriter: w, commit: func() { m.commit(w, r, s) }}
		next.ServeHTTP(sw, r.WithContext(NewContext(r.Context(), s)))
		sw.flushSession()
	})
}

// RequireLogin redirects anonymous requests to loginPath.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserID(r.Context()) == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Manager) resolve(r *http.Request) (*Session, error) {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		data, err := m.store.Load(r.Context(), c.Value)
		switch {
		case err == nil:
			return &Session{id: c.Value, data: data}, nil
		case errors.Is(err, commonerrors.ErrSessionAbsent), errors.Is(err, ErrInvalidSessionID):
		default:
			m.log.WithFields(r.Context(), logger.Fields{
				"action": "session_load_failed",
			}).Warnf("session load failed, starting fresh: %v", err)
		}
	}

	id, err := m.ids.NewID()
	if err != nil {
		return nil, err
	}
	return &Session{id: id, isNew: true}, nil
}

func (m *Manager) commit(w http.ResponseWriter, r *http.Request, s *Session) {
	if !s.dirty {
		return
	}
	s.dirty = false

	ctx := r.Context()
	if s.empty() {
		if s.isNew {
			return
		}
		if err := m.store.Delete(ctx, s.id); err != nil {
			m.log.WithFields(ctx, logger.Fields{
				"action": "session_delete_failed",
			}).Errorf("session delete failed: %v", err)
		}
		return
	}

	if s.rotate && !s.isNew {
		if err := m.reissue(ctx, s); err != nil {
			m.log.WithFields(ctx, logger.Fields{
				"action": "session_rotate_failed",
			}).Errorf("session rotate failed: %v", err)
			return
		}
	}
	s.rotate = false

	if err := m.store.Save(ctx, s.id, s.data); err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"action": "session_save_failed",
		}).Errorf("session save failed: %v", err)
		return
	}

	if s.isNew {
		// No Expires or MaxAge: the cookie ends with the browser session.
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    s.id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.isNew = false
	}
}

// reissue moves s to a freshly minted id and drops the old file.
func (m *Manager) reissue(ctx context.Context, s *Session) error {
	id, err := m.ids.NewID()
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, s.id); err != nil {
		return err
	}
	s.id = id
	s.isNew = true
	return nil
}

type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flushSession() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flushSession()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flushSession()
	return w.ResponseWriter.Write(b)
}
