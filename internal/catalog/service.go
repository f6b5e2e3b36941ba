package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Lookup is the read-only catalog interface the booking pipeline consumes.
// Inactive services are never offered; lookups for them report NotFound.
type Lookup interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*Service, error)
	GetServiceByName(ctx context.Context, name string) (*Service, error)
	ListActiveServices(ctx context.Context) ([]Service, error)
}

type lookup struct {
	repo Repository
}

// NewLookup creates a new catalog lookup instance
func NewLookup(repo Repository) Lookup {
	return &lookup{repo: repo}
}

func (l *lookup) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	service, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", id, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (l *lookup) GetServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	service, err := l.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get service %q: %w", slug, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (l *lookup) GetServiceByName(ctx context.Context, name string) (*Service, error) {
	service, err := l.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get service %q: %w", name, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (l *lookup) ListActiveServices(ctx context.Context) ([]Service, error) {
	return l.repo.ListActive(ctx)
}
