// Package api exposes HTTP handlers for the mytime service.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"example.com/mytime/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	now     func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/categories", h.categories)
	mux.HandleFunc("/v1/days", h.days)
	mux.HandleFunc("/v1/days/", h.dayByDate)
	mux.HandleFunc("/v1/events", h.events)
	mux.HandleFunc("/v1/totals", h.totals)
	mux.HandleFunc("/v1/bootstrap", h.bootstrap)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCategories(w, r)
	case http.MethodPost:
		h.upsertCategory(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	views := make([]CategoryView, 0, len(categories))
	for _, cat := range categories {
		views = append(views, toCategoryView(cat))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) upsertCategory(w http.ResponseWriter, r *http.Request) {
	var req UpsertCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	category, err := h.service.UpsertCategory(r.Context(), req.Name, req.Color, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryView(category))
}

func (h *Handler) days(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	days, err := h.service.DaysWithEvents(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DaysResponse{Days: days})
}

func (h *Handler) dayByDate(w http.ResponseWriter, r *http.Request) {
	day := strings.TrimPrefix(r.URL.Path, "/v1/days/")
	if day == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing day")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getDayTimeline(w, r, day)
	case http.MethodPut:
		h.replaceDay(w, r, day)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getDayTimeline(w http.ResponseWriter, r *http.Request, day string) {
	timeline, err := h.service.DayTimeline(r.Context(), day)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeServerError(w, r, err)
		return
	}

	// The live day's open tail ends at the current minute; historic days
	// keep the day-window tail.
	now := h.now()
	if timeline.Day == now.Format(domain.DayFormat) {
		timeline = timeline.TruncateToNow(now)
	}

	writeJSON(w, http.StatusOK, toTimelineView(timeline))
}

func (h *Handler) replaceDay(w http.ResponseWriter, r *http.Request, day string) {
	var req ReplaceDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.Entries == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "entries is required")
		return
	}

	entries := make([]domain.EntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, domain.EntryInput{
			Time:     e.Time,
			Category: e.Category,
			IsAnchor: e.IsAnchor,
		})
	}

	if err := h.service.ReplaceDay(r.Context(), day, entries); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReplaceDayResponse{Status: "replaced", Day: day})
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	events, err := h.service.Events(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	byID := make(map[string]domain.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		views = append(views, toEventView(ev, byID[ev.CategoryID], h.service.AnchorID()))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	totals, err := h.service.Totals(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalViews(totals))
}

func (h *Handler) bootstrap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	data, err := h.service.Bootstrap(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	byID := make(map[string]domain.Category, len(data.Categories))
	categoryViews := make([]CategoryView, 0, len(data.Categories))
	for _, cat := range data.Categories {
		byID[cat.ID] = cat
		categoryViews = append(categoryViews, toCategoryView(cat))
	}
	eventViews := make([]EventView, 0, len(data.Events))
	for _, ev := range data.Events {
		eventViews = append(eventViews, toEventView(ev, byID[ev.CategoryID], h.service.AnchorID()))
	}

	writeJSON(w, http.StatusOK, BootstrapResponse{
		Categories: categoryViews,
		Events:     eventViews,
		Totals:     toTotalViews(data.Totals),
		Days:       data.Days,
	})
}

// UpsertCategoryRequest is the payload for POST /v1/categories.
type UpsertCategoryRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// DayEntryRequest is one row of a whole-day edit.
type DayEntryRequest struct {
	Time     string `json:"time"`
	Category string `json:"category"`
	IsAnchor bool   `json:"is_anchor"`
}

// ReplaceDayRequest is the payload for PUT /v1/days/{date}.
type ReplaceDayRequest struct {
	Entries []DayEntryRequest `json:"entries"`
}

// ReplaceDayResponse acknowledges a committed whole-day replace.
type ReplaceDayResponse struct {
	Status string `json:"status"`
	Day    string `json:"day"`
}

// CategoryView exposes a category.
type CategoryView struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// EventView exposes a stored event joined with its category.
type EventView struct {
	EventID      string    `json:"event_id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Color        string    `json:"color"`
	Day          string    `json:"day"`
	StartedAt    time.Time `json:"started_at"`
	IsAnchor     bool      `json:"is_anchor"`
}

// TimelineEntryView exposes one annotated timeline row.
type TimelineEntryView struct {
	EventID         string `json:"event_id"`
	CategoryID      string `json:"category_id"`
	CategoryName    string `json:"category_name"`
	Color           string `json:"color"`
	Time            string `json:"time"`
	IsAnchor        bool   `json:"is_anchor"`
	AbsoluteMinutes int    `json:"absolute_minutes"`
	DurationMinutes int    `json:"duration_minutes"`
	OpenEnded       bool   `json:"open_ended"`
}

// DayTimelineView exposes the derived day window.
type DayTimelineView struct {
	Day             string              `json:"day"`
	Entries         []TimelineEntryView `json:"entries"`
	DayStartMinutes int                 `json:"day_start_minutes"`
	DayEndMinutes   int                 `json:"day_end_minutes"`
}

// CategoryTotalView exposes aggregate hours for one category.
type CategoryTotalView struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Value float64 `json:"value"`
}

// DaysResponse lists days that have data.
type DaysResponse struct {
	Days []string `json:"days"`
}

// BootstrapResponse is the combined initial read for client hydration.
type BootstrapResponse struct {
	Categories []CategoryView      `json:"categories"`
	Events     []EventView         `json:"events"`
	Totals     []CategoryTotalView `json:"totals"`
	Days       []string            `json:"days_with_data"`
}

func toCategoryView(cat domain.Category) CategoryView {
	return CategoryView{
		CategoryID:  cat.ID,
		Name:        cat.Name,
		Color:       cat.Color,
		Description: cat.Description,
	}
}

func toEventView(ev domain.Event, cat domain.Category, anchorID string) EventView {
	return EventView{
		EventID:      ev.ID,
		CategoryID:   ev.CategoryID,
		CategoryName: cat.Name,
		Color:        cat.Color,
		Day:          ev.Day,
		StartedAt:    ev.StartedAt,
		IsAnchor:     ev.CategoryID == anchorID,
	}
}

func toTimelineView(timeline domain.DayTimeline) DayTimelineView {
	entries := make([]TimelineEntryView, 0, len(timeline.Entries))
	for _, e := range timeline.Entries {
		entries = append(entries, TimelineEntryView{
			EventID:         e.ID,
			CategoryID:      e.CategoryID,
			CategoryName:    e.CategoryName,
			Color:           e.Color,
			Time:            e.StartedAt.Format("15:04"),
			IsAnchor:        e.IsAnchor,
			AbsoluteMinutes: e.AbsoluteMinutes,
			DurationMinutes: e.DurationMinutes,
			OpenEnded:       e.OpenEnded,
		})
	}
	return DayTimelineView{
		Day:             timeline.Day,
		Entries:         entries,
		DayStartMinutes: timeline.DayStartMinutes,
		DayEndMinutes:   timeline.DayEndMinutes,
	}
}

func toTotalViews(totals []domain.CategoryTotal) []CategoryTotalView {
	views := make([]CategoryTotalView, 0, len(totals))
	for _, total := range totals {
		views = append(views, CategoryTotalView{Name: total.Name, Color: total.Color, Value: total.Hours})
	}
	return views
}

func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "server_error", "internal error")
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
