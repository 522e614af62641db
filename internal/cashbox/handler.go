package cashbox

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

// Handler exposes cash sessions over JSON.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/current", h.Current)
	r.Post("/open", h.Open)
	r.Post("/close", h.Close)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/report", h.Report)
}

type openForm struct {
	OpeningBalance string `json:"opening_balance"`
}

type closeForm struct {
	CountedBalance string `json:"counted_balance"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var form openForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	amount, err := parseAmount(form.OpeningBalance)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "opening_balance is not a valid amount")
		return
	}
	session, err := h.service.Open(r.Context(), amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, session)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	var form closeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	amount, err := parseAmount(form.CountedBalance)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "counted_balance is not a valid amount")
		return
	}
	report, err := h.service.Close(r.Context(), amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Current(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	session, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sessions": list})
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	report, err := h.service.Report(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrNoOpenSession):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrSessionAlreadyOpen), errors.Is(err, ErrSessionClosed):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrMissingAccount):
		h.logger.Error("cashbox", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Configuration Incomplete", err.Error())
	default:
		h.logger.Error("cashbox", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
