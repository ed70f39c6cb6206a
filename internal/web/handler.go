// Package web serves the dashboard page over HTTP.
package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jgoulah/solardash/internal/display"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

// Periods offered by the filter control
var Periods = []string{"today", "week", "month", "all"}

// Controller accepts filter changes
type Controller interface {
	SetPeriod(period string) bool
}

// Handler serves a live dashboard page
type Handler struct {
	Page           *display.Page
	Control        Controller
	Log            *zap.Logger
	RefreshSeconds int

	tmpl *template.Template
}

// NewHandler creates a handler for page
func NewHandler(page *display.Page, control Controller, refreshSeconds int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Page:           page,
		Control:        control,
		Log:            logger.With(zap.String("component", "web")),
		RefreshSeconds: refreshSeconds,
		tmpl:           pageTemplate,
	}
}

// Routes returns the router for the dashboard
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServePage)
	r.Get("/charts/{slot}.svg", h.ServeChart)
	r.Get("/api/page", h.ServeSnapshot)
	r.Get("/filter", h.HandleFilter)
	r.Post("/filter", h.HandleFilter)

	return r
}

// ServePage handles GET / - the rendered dashboard
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	vm := newPageVM(h.Page.Snapshot(), h.RefreshSeconds, serverChartURL)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, vm); err != nil {
		h.Log.Error("rendering page", zap.Error(err))
	}
}

// WriteStatic writes a standalone page for snap that loads its charts from
// StaticChartURL paths and does not refresh itself
func WriteStatic(w io.Writer, snap display.Snapshot) error {
	vm := newPageVM(snap, 0, StaticChartURL)
	vm.HasFilter = false
	if err := pageTemplate.Execute(w, vm); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// ServeChart handles GET /charts/{slot}.svg - the drawing on a canvas target
func (h *Handler) ServeChart(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")

	st, ok := h.Page.Snapshot().Get(slot)
	if !ok || st.Drawing == nil || len(st.Drawing.SVG) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(st.Drawing.SVG)
}

// ServeSnapshot handles GET /api/page - the page state as JSON
func (h *Handler) ServeSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Page.Snapshot()); err != nil {
		h.Log.Error("encoding page snapshot", zap.Error(err))
	}
}

// HandleFilter handles /filter?period= - a period filter change
func (h *Handler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	period := r.FormValue("period")
	if period == "" {
		http.Error(w, "period is required", http.StatusBadRequest)
		return
	}

	if h.Control == nil || !h.Control.SetPeriod(period) {
		http.Error(w, "this dashboard has no period filter", http.StatusConflict)
		return
	}

	h.Log.Debug("period changed", zap.String("period", period))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
