package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

// Handler exposes the change-log timeline.
type Handler struct {
	recorder *Recorder
	registry *Registry
	logger   *slog.Logger
}

func NewHandler(logger *slog.Logger, recorder *Recorder, registry *Registry) *Handler {
	return &Handler{recorder: recorder, registry: registry, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Timeline)
}

type timelineEvent struct {
	Event
	EntityLabel string `json:"entity_label,omitempty"`
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := TimelineFilters{
		Actor:  q.Get("actor"),
		Entity: EntityType(q.Get("entity")),
		Action: Action(q.Get("action")),
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.From = t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.To = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	result, err := h.recorder.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	events := make([]timelineEvent, 0, len(result.Events))
	for _, event := range result.Events {
		enriched := timelineEvent{Event: event}
		if h.registry != nil {
			if label, err := h.registry.Resolve(r.Context(), event.Entity); err == nil {
				enriched.EntityLabel = label
			}
		}
		events = append(events, enriched)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"events": events,
		"paging": result.Paging,
	})
}
