package assets

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/pkg/enums"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

// Service exposes fleet asset reads for the order dashboard.
type Service interface {
	ListAvailable(ctx context.Context) ([]View, error)
	EnsureAvailable(ctx context.Context, ids []uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an assets service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assets repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]View, error) {
	records, err := s.repo.FindAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing assets")
	}
	views := make([]View, 0, len(records))
	for _, record := range records {
		views = append(views, toView(record))
	}
	return views, nil
}

// EnsureAvailable verifies every requested asset exists and is free to
// dispatch. The error details name the offending registrations.
func (s *service) EnsureAvailable(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one asset is required")
	}

	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate asset in selection")
		}
		seen[id] = struct{}{}
	}

	records, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading assets")
	}
	if len(records) != len(ids) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "one or more assets do not exist")
	}

	var busy []string
	for _, record := range records {
		if record.Status != enums.AssetStatusAvailable {
			busy = append(busy, record.RegistrationNo)
		}
	}
	if len(busy) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "assets are not available for dispatch").
			WithDetails(map[string]any{"registrations": busy})
	}
	return nil
}
