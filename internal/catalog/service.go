package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/internal/customers"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

// Service exposes catalog reads scoped to a customer's delivery zone.
type Service interface {
	ProductsForCustomer(ctx context.Context, customerID uuid.UUID) ([]ProductView, error)
}

type service struct {
	repo      Repository
	customers customers.Service
}

// NewService builds a catalog service.
func NewService(repo Repository, customerSvc customers.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if customerSvc == nil {
		return nil, fmt.Errorf("customers service required")
	}
	return &service{repo: repo, customers: customerSvc}, nil
}

// ProductsForCustomer resolves the customer's zone and returns the active
// products available there. Unapproved customers cannot browse the catalog.
func (s *service) ProductsForCustomer(ctx context.Context, customerID uuid.UUID) ([]ProductView, error) {
	customer, err := s.customers.GetApproved(ctx, customerID)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.FindActiveByZone(ctx, customer.ZoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []ProductView{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}
	return views, nil
}
