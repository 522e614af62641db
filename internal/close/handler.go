package close

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

// Handler exposes the period close over JSON.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.ClosePeriod)
}

type closeForm struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	var form closeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	from, err := time.Parse("2006-01-02", form.From)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from must be a YYYY-MM-DD date")
		return
	}
	to, err := time.Parse("2006-01-02", form.To)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to must be a YYYY-MM-DD date")
		return
	}
	result, err := h.service.ClosePeriod(r.Context(), from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPeriod):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNothingToClose):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrMissingAccount):
		h.logger.Error("close", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Configuration Incomplete", err.Error())
	default:
		h.logger.Error("close", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
