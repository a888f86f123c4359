// Package web serves the HTML dashboard and its JSON API.
package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/stats"
	"github.com/verte-zerg/taper/internal/store"
)

// Deps holds handler dependencies. Now defaults to time.Now.
type Deps struct {
	Store   store.Store
	Options model.Options
	Now     func() time.Time
}

// Handler is the HTTP entrypoint for dashboard and logging.
type Handler struct {
	store store.Store
	opts  model.Options
	now   func() time.Time
	tmpl  *template.Template

	// mu serialises load-mutate-save cycles.
	mu sync.Mutex
}

// NewHandler parses the dashboard template and binds dependencies.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Store == nil {
		return nil, errors.New("web: store is required")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store: deps.Store,
		opts:  deps.Options,
		now:   now,
		tmpl:  tmpl,
	}, nil
}

type dashboardView struct {
	Title  string
	Report stats.Report
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	report, err := stats.BuildReport(r.Context(), h.store, h.opts, h.now())
	if err != nil {
		logOperationError(r.Context(), "render_dashboard", http.StatusInternalServerError, err)
		http.Error(w, "failed to load log", http.StatusInternalServerError)
		return
	}
	view := dashboardView{
		Title:  dashboardTitle(h.opts.Targets.PlanDays),
		Report: report,
	}
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, dashboardTemplate, view); err != nil {
		logOperationError(r.Context(), "render_dashboard", http.StatusInternalServerError, err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) logForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		logOperationError(r.Context(), "log_form", http.StatusBadRequest, err)
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	entry, err := parseEntryForm(r.PostForm, h.opts.Features.TrackWater)
	if err != nil {
		logOperationError(r.Context(), "log_form", http.StatusBadRequest, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.record(r.Context(), entry); err != nil {
		logOperationError(r.Context(), "log_form", http.StatusInternalServerError, err)
		http.Error(w, "failed to save entry", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := stats.BuildReport(r.Context(), h.store, h.opts, h.now())
	if err != nil {
		logOperationError(r.Context(), "api_dashboard", http.StatusInternalServerError, err)
		writeError(w, http.StatusInternalServerError, "failed to load log")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type logAck struct {
	Status string           `json:"status"`
	Date   string           `json:"date"`
	Entry  model.DailyEntry `json:"entry"`
}

func (h *Handler) apiLog(w http.ResponseWriter, r *http.Request) {
	entry, err := parseEntryJSON(r.Body, h.opts.Features.TrackWater)
	if err != nil {
		logOperationError(r.Context(), "api_log", http.StatusBadRequest, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := h.record(r.Context(), entry)
	if err != nil {
		logOperationError(r.Context(), "api_log", http.StatusInternalServerError, err)
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}
	writeJSON(w, http.StatusOK, logAck{Status: "ok", Date: date, Entry: entry})
}

func (h *Handler) record(ctx context.Context, entry model.DailyEntry) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	date := model.DateKey(h.now())
	if err := store.Record(ctx, h.store, date, entry); err != nil {
		return "", err
	}
	httpLogger().InfoContext(ctx, "entry recorded",
		"operation", "record_entry",
		"outcome", "success",
		"date", date,
		"request_id", requestIDFromContext(ctx),
	)
	return date, nil
}
