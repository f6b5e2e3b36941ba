package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrServiceNotFound is returned when no service matches the lookup.
var ErrServiceNotFound = errors.New("service not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetBySlug(ctx context.Context, slug string) (*Service, error)
	GetByName(ctx context.Context, name string) (*Service, error)
	ListActive(ctx context.Context) ([]Service, error)
	Create(ctx context.Context, service *Service) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Service, error) {
	var services []Service
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) Create(ctx context.Context, service *Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}
