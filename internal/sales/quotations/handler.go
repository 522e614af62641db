package quotations

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

var validate = validator.New()

// QuoteLineForm is one requested line in the request body.
type QuoteLineForm struct {
	ProductID   int64  `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	DiscountPct string `json:"discount_pct"`
}

// QuoteForm is the quote request body.
type QuoteForm struct {
	CustomerID  *int64          `json:"customer_id"`
	ValidUntil  *time.Time      `json:"valid_until"`
	DiscountPct string          `json:"discount_pct"`
	Notes       *string         `json:"notes"`
	Lines       []QuoteLineForm `json:"lines" validate:"required,min=1,dive"`
}

// ToInput validates the form and converts it to a QuoteInput.
func (f QuoteForm) ToInput() (QuoteInput, error) {
	if err := validate.Struct(f); err != nil {
		return QuoteInput{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	in := QuoteInput{CustomerID: f.CustomerID, ValidUntil: f.ValidUntil, Notes: f.Notes}
	var err error
	if in.DiscountPct, err = parseAmount("discount_pct", f.DiscountPct); err != nil {
		return QuoteInput{}, err
	}
	for _, line := range f.Lines {
		pct, err := parseAmount("lines.discount_pct", line.DiscountPct)
		if err != nil {
			return QuoteInput{}, err
		}
		in.Lines = append(in.Lines, LineInput{ProductID: line.ProductID, Quantity: line.Quantity, DiscountPct: pct})
	}
	return in, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a valid amount", httpx.ErrValidation, field)
	}
	return d, nil
}

// Handler exposes quotes over JSON.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form QuoteForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	in, err := form.ToInput()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	quote, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	quote, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
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
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"quotes": list})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuoteNotFound), errors.Is(err, products.ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("quotations", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
