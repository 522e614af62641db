package suppliers

import (
	"context"
	"errors"
	"strings"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
	Update(ctx context.Context, module string, before audit.Snapshot, entity audit.Auditable, note string) error
	Delete(ctx context.Context, module string, entity audit.Auditable, note string) error
}

const auditModule = "partners"

// Service coordinates supplier master data.
type Service struct {
	repo  *Repository
	audit AuditPort
}

// NewService builds Service.
func NewService(repo *Repository, auditPort AuditPort) *Service {
	return &Service{repo: repo, audit: auditPort}
}

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return errors.New("suppliers: name is required")
	}
	return nil
}

// List returns all suppliers.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a supplier and records the creation.
func (s *Service) Create(ctx context.Context, sup Supplier) (Supplier, error) {
	if err := s.validate(sup); err != nil {
		return Supplier{}, err
	}
	created, err := s.repo.Create(ctx, sup)
	if err != nil {
		return Supplier{}, err
	}
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, created, "supplier created")
	}
	return created, nil
}

// Update rewrites a supplier; identical saves record nothing.
func (s *Service) Update(ctx context.Context, sup Supplier) (Supplier, error) {
	if err := s.validate(sup); err != nil {
		return Supplier{}, err
	}
	before, err := s.repo.Get(ctx, sup.ID)
	if err != nil {
		return Supplier{}, err
	}
	updated, err := s.repo.Update(ctx, sup)
	if err != nil {
		return Supplier{}, err
	}
	if s.audit != nil {
		_ = s.audit.Update(ctx, auditModule, before.Snapshot(), updated, "supplier updated")
	}
	return updated, nil
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Delete(ctx, auditModule, before, "supplier deleted")
	}
	return nil
}
