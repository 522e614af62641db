package products

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// AuditPort abstracts the audit recorder for the service.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
	Update(ctx context.Context, module string, before audit.Snapshot, entity audit.Auditable, note string) error
	Delete(ctx context.Context, module string, entity audit.Auditable, note string) error
	Action(ctx context.Context, module string, action audit.Action, ref audit.EntityRef, note string) error
}

const auditModule = "inventory"

// Service coordinates product master data operations.
type Service struct {
	repo   *Repository
	audit  AuditPort
	prices *PriceCache
	logger *slog.Logger
}

// NewService builds Service. The audit port and price cache are optional.
func NewService(logger *slog.Logger, repo *Repository, auditPort AuditPort, prices *PriceCache) *Service {
	return &Service{repo: repo, audit: auditPort, prices: prices, logger: logger}
}

// List returns products matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.repo.List(ctx, search)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a product and records the creation.
func (s *Service) Create(ctx context.Context, p Product, categoryIDs []int64) (Product, error) {
	created, err := s.repo.Create(ctx, p, categoryIDs)
	if err != nil {
		return Product{}, err
	}
	s.invalidatePrices(ctx)
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, created, "product created")
	}
	return created, nil
}

// Update rewrites a product, recording only the fields that actually changed.
// Saving identical data produces no audit event.
func (s *Service) Update(ctx context.Context, p Product, categoryIDs []int64) (Product, error) {
	before, err := s.repo.Get(ctx, p.ID)
	if err != nil {
		return Product{}, err
	}
	updated, err := s.repo.Update(ctx, p, categoryIDs)
	if err != nil {
		return Product{}, err
	}
	s.invalidatePrices(ctx)
	if s.audit != nil {
		_ = s.audit.Update(ctx, auditModule, before.Snapshot(), updated, "product updated")
	}
	return updated, nil
}

// Delete removes a product, keeping its last state in the change log.
func (s *Service) Delete(ctx context.Context, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidatePrices(ctx)
	if s.audit != nil {
		_ = s.audit.Delete(ctx, auditModule, before, "product deleted")
	}
	return nil
}

// AdjustStock sets a product's stock to qty outside of any sale or purchase,
// for shrinkage or count corrections. Recorded as MANUAL_ADJUSTMENT.
func (s *Service) AdjustStock(ctx context.Context, id int64, qty int, note string) (Product, error) {
	if qty < 0 {
		return Product{}, fmt.Errorf("products: stock cannot be negative")
	}
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	adjusted := before
	adjusted.StockQty = qty
	catIDs := make([]int64, 0, len(before.Categories))
	for _, c := range before.Categories {
		catIDs = append(catIDs, c.ID)
	}
	updated, err := s.repo.Update(ctx, adjusted, catIDs)
	if err != nil {
		return Product{}, err
	}
	if s.audit != nil {
		_ = s.audit.Action(ctx, auditModule, audit.ActionManualAdjustment, updated.EntityRef(),
			fmt.Sprintf("stock adjusted %d -> %d: %s", before.StockQty, qty, note))
	}
	return updated, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory inserts one category.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	return s.repo.CreateCategory(ctx, name)
}

// PriceList serves the POS price map, cached in Redis and invalidated on any
// product mutation. Cache failures fall back to the database.
func (s *Service) PriceList(ctx context.Context) (map[int64]string, error) {
	if s.prices != nil {
		if cached, err := s.prices.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	prices, err := s.repo.PriceList(ctx)
	if err != nil {
		return nil, err
	}
	rendered := make(map[int64]string, len(prices))
	for id, price := range prices {
		rendered[id] = price.StringFixed(2)
	}
	if s.prices != nil {
		if err := s.prices.Set(ctx, rendered); err != nil {
			s.logger.Warn("cache price list", slog.Any("error", err))
		}
	}
	return rendered, nil
}

func (s *Service) invalidatePrices(ctx context.Context) {
	if s.prices == nil {
		return
	}
	if err := s.prices.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate price list", slog.Any("error", err))
	}
}
