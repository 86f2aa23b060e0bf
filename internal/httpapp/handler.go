// Package httpapp exposes the web UI: a form page, a processing page and
// the endpoint that runs the pipeline and renders its results.
package httpapp

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/adamjhf/timeboxd/internal/logger"
	"github.com/adamjhf/timeboxd/internal/tracker"
)

// Tracker runs a watchlist through the pipeline.
type Tracker interface {
	Process(ctx context.Context, username, country string) (*tracker.Result, error)
}

type Handler struct {
	Tracker Tracker
	Logger  *logger.Logger
	Files   fs.FS
}

func NewHandler(t Tracker, log *logger.Logger, files fs.FS) *Handler {
	return &Handler{
		Tracker: t,
		Logger:  log.WithComponent("http"),
		Files:   files,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.IndexPage)
	r.Post("/track", h.TrackPage)
	r.Get("/process", h.ProcessFragment)
	r.Get("/health", h.Health)
}

func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "index.html", nil)
}

func (h *Handler) TrackPage(w http.ResponseWriter, r *http.Request) {
	username, country, errMsg := formParams(r.FormValue("username"), r.FormValue("country"))
	if errMsg != "" {
		http.Error(w, errMsg, http.StatusBadRequest)
		return
	}
	h.renderPage(w, "processing.html", map[string]string{
		"Username": username,
		"Country":  country,
	})
}

func (h *Handler) ProcessFragment(w http.ResponseWriter, r *http.Request) {
	username, country, errMsg := formParams(r.URL.Query().Get("username"), r.URL.Query().Get("country"))
	if errMsg != "" {
		h.renderFragment(w, "error", map[string]string{"Message": errMsg})
		return
	}

	result, err := h.Tracker.Process(r.Context(), username, country)
	if err != nil {
		h.Logger.Error("batch failed", "username", username, "error", err)
		h.renderFragment(w, "error", map[string]string{"Message": err.Error()})
		return
	}

	h.renderFragment(w, "results", map[string]any{
		"Username": username,
		"Country":  country,
		"Result":   result,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func formParams(username, country string) (string, string, string) {
	username = strings.TrimSpace(username)
	country = strings.ToUpper(strings.TrimSpace(country))
	if username == "" {
		return "", "", "username is required"
	}
	if !validCountry(country) {
		return "", "", "country must be a 2-letter code"
	}
	return username, country, ""
}

func validCountry(country string) bool {
	if len(country) != 2 {
		return false
	}
	for _, r := range country {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// renderPage wraps a page template in the base layout.
func (h *Handler) renderPage(w http.ResponseWriter, page string, data any) {
	tmpl, err := template.ParseFS(h.Files,
		"templates/base.html",
		"templates/"+page,
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		h.Logger.Error("template render failed", "page", page, "error", err)
	}
}

// renderFragment renders a named fragment on its own, for injection into
// an already-served page.
func (h *Handler) renderFragment(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.ParseFS(h.Files,
		"templates/results.html",
		"templates/error.html",
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.Logger.Error("template render failed", "fragment", name, "error", err)
	}
}
