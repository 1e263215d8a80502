package addresses

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/internal/customers"
	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Service exposes address reads and writes for the order dashboard.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID, kind enums.AddressKind) ([]View, error)
	Add(ctx context.Context, input AddInput) (*View, error)
	GetOwned(ctx context.Context, customerID, addressID uuid.UUID, kind enums.AddressKind) (*models.Address, error)
}

type service struct {
	repo      Repository
	customers customers.Service
}

// NewService builds an address service.
func NewService(repo Repository, customerSvc customers.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addresses repository required")
	}
	if customerSvc == nil {
		return nil, fmt.Errorf("customers service required")
	}
	return &service{repo: repo, customers: customerSvc}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, kind enums.AddressKind) ([]View, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid address kind")
	}
	if _, err := s.customers.GetApproved(ctx, customerID); err != nil {
		return nil, err
	}

	records, err := s.repo.FindByCustomerAndKind(ctx, customerID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	views := make([]View, 0, len(records))
	for _, record := range records {
		views = append(views, toView(record))
	}
	return views, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (*View, error) {
	if err := validateAddInput(input); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetApproved(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	record := &models.Address{
		CustomerID: input.CustomerID,
		Kind:       input.Kind,
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		Pincode:    strings.TrimSpace(input.Pincode),
		Landmark:   input.Landmark,
		GSTIN:      input.GSTIN,
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving address")
	}
	view := toView(*created)
	return &view, nil
}

// GetOwned loads an address and verifies it belongs to the customer with the
// expected kind. Orders use this to pin shipping/billing references.
func (s *service) GetOwned(ctx context.Context, customerID, addressID uuid.UUID, kind enums.AddressKind) (*models.Address, error) {
	record, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	if record.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to a different customer")
	}
	if record.Kind != kind {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("address is not a %s address", kind))
	}
	return record, nil
}

func validateAddInput(input AddInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid address kind")
	}
	if strings.TrimSpace(input.Line1) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "line1 is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if strings.TrimSpace(input.State) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "state is required")
	}
	if !pincodeRe.MatchString(strings.TrimSpace(input.Pincode)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "pincode must be a 6 digit code")
	}
	return nil
}
