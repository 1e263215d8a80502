package wallets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

// Service exposes wallet balance reads.
type Service interface {
	BalanceFor(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService builds a wallets service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallets repository required")
	}
	return &service{repo: repo}, nil
}

// BalanceFor returns the customer's wallet balance. A customer without a
// wallet row has a zero balance rather than an error.
func (s *service) BalanceFor(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wallet")
	}
	return wallet.Balance, nil
}
