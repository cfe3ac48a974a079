package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/types"
)

// CreateServiceInput describes a catalog entry.
type CreateServiceInput struct {
	Name             string
	Description      string
	Cost             decimal.Decimal
	EstimatedMinutes int
	Warranty         string
}

// ServiceDTO is the API shape of a catalog service.
type ServiceDTO struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Cost             decimal.Decimal `json:"cost"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	Warranty         string          `json:"warranty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromModel(m *models.Service) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Cost:             m.Cost,
		EstimatedMinutes: m.EstimatedMinutes,
		Warranty:         m.Warranty,
		CreatedAt:        m.CreatedAt,
	}
}

// Repository persists catalog services.
type Repository interface {
	Create(ctx context.Context, service *models.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the catalog repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// Service manages the shop's service catalog.
type Service interface {
	Create(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
	List(ctx context.Context) ([]ServiceDTO, error)
}

type service struct {
	repo Repository
}

// NewService wires the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "name", "Required", "name is required (max 100 characters)")
	}
	if err := types.CheckMoney("cost", input.Cost); err != nil {
		return nil, err
	}
	if input.EstimatedMinutes <= 0 {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "estimated_minutes", "NotPositive", "estimated duration must be positive")
	}

	model := &models.Service{
		ID:               uuid.New(),
		Name:             name,
		Description:      input.Description,
		Cost:             input.Cost.Round(2),
		EstimatedMinutes: input.EstimatedMinutes,
		Warranty:         input.Warranty,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, db.TranslateError(err, "create service")
	}
	return FromModel(model), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	model, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, "service not found")
	}
	return FromModel(model), nil
}

func (s *service) List(ctx context.Context) ([]ServiceDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
