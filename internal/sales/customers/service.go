package customers

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

// Service coordinates customer master data.
type Service struct {
	repo  *Repository
	audit AuditPort
}

// NewService builds Service.
func NewService(repo *Repository, auditPort AuditPort) *Service {
	return &Service{repo: repo, audit: auditPort}
}

func (s *Service) validate(c Customer) error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return errors.New("customers: first and last name are required")
	}
	return nil
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a customer and records the creation.
func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	if err := s.validate(c); err != nil {
		return Customer{}, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Customer{}, err
	}
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, created, "customer created")
	}
	return created, nil
}

// Update rewrites a customer; identical saves record nothing.
func (s *Service) Update(ctx context.Context, c Customer) (Customer, error) {
	if err := s.validate(c); err != nil {
		return Customer{}, err
	}
	before, err := s.repo.Get(ctx, c.ID)
	if err != nil {
		return Customer{}, err
	}
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return Customer{}, err
	}
	if s.audit != nil {
		_ = s.audit.Update(ctx, auditModule, before.Snapshot(), updated, "customer updated")
	}
	return updated, nil
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Delete(ctx, auditModule, before, "customer deleted")
	}
	return nil
}
