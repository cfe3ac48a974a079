package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db/dbtest"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

type stubRepo struct {
	created *models.Service
	err     error
}

func (s *stubRepo) Create(_ context.Context, service *models.Service) error {
	s.created = service
	return s.err
}

func (s *stubRepo) FindByID(context.Context, uuid.UUID) (*models.Service, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(context.Context) ([]models.Service, error) {
	return nil, s.err
}

func TestCreateServiceValidation(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		name  string
		input CreateServiceInput
		field string
	}{
		{"blank name", CreateServiceInput{Name: "  ", Cost: decimal.NewFromInt(1), EstimatedMinutes: 10}, "name"},
		{"negative cost", CreateServiceInput{Name: "Frenos", Cost: decimal.RequireFromString("-0.01"), EstimatedMinutes: 10}, "cost"},
		{"cost above column limit", CreateServiceInput{Name: "Frenos", Cost: decimal.RequireFromString("100000000"), EstimatedMinutes: 10}, "cost"},
		{"zero duration", CreateServiceInput{Name: "Frenos", Cost: decimal.NewFromInt(1)}, "estimated_minutes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			detail, ok := typed.Details().(pkgerrors.FieldDetail)
			if !ok || detail.Field != tc.field {
				t.Fatalf("expected field %q, got %+v", tc.field, typed.Details())
			}
		})
	}
}

func TestCreateServiceRoundsCost(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := NewService(repo)

	dto, err := svc.Create(context.Background(), CreateServiceInput{
		Name:             " Alineación ",
		Cost:             decimal.RequireFromString("19990.456"),
		EstimatedMinutes: 45,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Alineación" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !repo.created.Cost.Equal(decimal.RequireFromString("19990.46")) {
		t.Fatalf("expected rounded cost, got %s", repo.created.Cost)
	}
}

func TestServiceDependencyErrors(t *testing.T) {
	svc, _ := NewService(&stubRepo{err: errors.New("boom")})

	if _, err := svc.List(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogRoundTripSQLite(t *testing.T) {
	conn := dbtest.Open(t)
	svc, _ := NewService(NewRepository(conn))
	ctx := context.Background()

	for _, name := range []string{"Pintura", "Cambio de aceite"} {
		if _, err := svc.Create(ctx, CreateServiceInput{Name: name, Cost: decimal.RequireFromString("25000.50"), EstimatedMinutes: 30}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Cambio de aceite" {
		t.Fatalf("unexpected list %+v", list)
	}

	got, err := svc.Get(ctx, list[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Cost.Equal(decimal.RequireFromString("25000.5")) {
		t.Fatalf("unexpected cost %s", got.Cost)
	}
}
