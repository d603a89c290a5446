package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/session"
)

const (
	ViewWelcome  = "welcome"
	ViewRegister = "register"
	ViewLogin    = "login"
	ViewApology  = "apology"
	ViewSearch   = "search"
	ViewBook     = "book"
)

var views = []string{ViewWelcome, ViewRegister, ViewLogin, ViewApology, ViewSearch, ViewBook}

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a view name and its data into an HTML response.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, view string, data any)
}

type ApologyData struct {
	Message string
	Status  int
}

// Page is what every template receives.
type Page struct {
	LoggedIn bool
	Data     any
}

type TemplateRenderer struct {
	templates map[string]*template.Template
	log       *logger.Logger
}

func NewTemplateRenderer(log *logger.Logger) (*TemplateRenderer, error) {
	templates := make(map[string]*template.Template, len(views))
	for _, view := range views {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+view+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", view, err)
		}
		templates[view] = t
	}
	return &TemplateRenderer{templates: templates, log: log}, nil
}

func (tr *TemplateRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	t, ok := tr.templates[view]
	if !ok {
		tr.log.WithFields(r.Context(), logger.Fields{
			"view":   view,
			"action": "render_unknown_view",
		}).Error("unknown view")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := Page{
		LoggedIn: session.UserID(r.Context()) != "",
		Data:     data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		tr.log.WithFields(r.Context(), logger.Fields{
			"view":   view,
			"action": "render_failed",
		}).Errorf("render failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Apology renders the apology view with message.
func Apology(rd Renderer, w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.Render(w, r, status, ViewApology, ApologyData{Message: message, Status: status})
}
