package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
	"github.com/lucero-pos/lucero-pos/internal/cashbox"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

// Handler exposes sales over JSON.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Post)
	r.Get("/{id}", h.Get)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var form SaleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	in, err := form.ToInput()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sale, err := h.service.Post(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	filter.SessionID, _ = strconv.ParseInt(r.URL.Query().Get("session_id"), 10, 64)
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sales": list})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSaleNotFound), errors.Is(err, products.ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, cashbox.ErrNoOpenSession):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, products.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrMissingAccount):
		h.logger.Error("sales", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Configuration Incomplete", err.Error())
	default:
		h.logger.Error("sales", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
