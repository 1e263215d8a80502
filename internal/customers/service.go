package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Service exposes customer reads for the order dashboard.
type Service interface {
	ListApproved(ctx context.Context) ([]Summary, error)
	GetApproved(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type service struct {
	repo Repository
}

// NewService builds a customer service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListApproved(ctx context.Context) ([]Summary, error) {
	records, err := s.repo.FindApproved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	summaries := make([]Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, toSummary(record))
	}
	return summaries, nil
}

// GetApproved fetches a customer and rejects any that are not approved for ordering.
func (s *service) GetApproved(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if customer.OnboardingStatus != enums.OnboardingStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer is not approved for ordering")
	}
	return customer, nil
}
