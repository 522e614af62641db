package procurement

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

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

var validate = validator.New()

// PurchaseLineForm is one received line in the request body.
type PurchaseLineForm struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitCost  string `json:"unit_cost" validate:"required"`
}

// PurchaseForm is the purchase request body.
type PurchaseForm struct {
	SupplierID int64              `json:"supplier_id" validate:"required"`
	Payment    string             `json:"payment" validate:"required,oneof=CASH CREDIT"`
	Invoice    *string            `json:"invoice"`
	Lines      []PurchaseLineForm `json:"lines" validate:"required,min=1,dive"`
}

// ToInput validates the form and converts it to a PurchaseInput.
func (f PurchaseForm) ToInput() (PurchaseInput, error) {
	if err := validate.Struct(f); err != nil {
		return PurchaseInput{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	in := PurchaseInput{SupplierID: f.SupplierID, Payment: PaymentKind(f.Payment), Invoice: f.Invoice}
	for _, line := range f.Lines {
		cost, err := decimal.NewFromString(line.UnitCost)
		if err != nil {
			return PurchaseInput{}, fmt.Errorf("%w: lines.unit_cost is not a valid amount", httpx.ErrValidation)
		}
		in.Lines = append(in.Lines, LineInput{ProductID: line.ProductID, Quantity: line.Quantity, UnitCost: cost})
	}
	return in, nil
}

// Handler exposes purchases over JSON.
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
	var form PurchaseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	in, err := form.ToInput()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	purchase, err := h.service.Post(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, purchase)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	purchase, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
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
	filter.SupplierID, _ = strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purchases": list})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPurchaseNotFound), errors.Is(err, products.ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrMissingAccount):
		h.logger.Error("procurement", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Configuration Incomplete", err.Error())
	default:
		h.logger.Error("procurement", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
