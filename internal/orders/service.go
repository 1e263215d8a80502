package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/internal/addresses"
	"github.com/fuelflow/fuelops-backend/internal/assets"
	"github.com/fuelflow/fuelops-backend/internal/catalog"
	"github.com/fuelflow/fuelops-backend/internal/customers"
	"github.com/fuelflow/fuelops-backend/internal/notify"
	"github.com/fuelflow/fuelops-backend/internal/slots"
	"github.com/fuelflow/fuelops-backend/internal/wallets"
	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	dbtypes "github.com/fuelflow/fuelops-backend/pkg/db/types"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
	"github.com/fuelflow/fuelops-backend/pkg/metrics"
)

var codeFormatRe = regexp.MustCompile(`^[0-9]{4}$`)

var hundred = decimal.NewFromInt(100)

// Service drives the order placement flow: draft creation, placement code
// verification and resend.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	VerifyPlacement(ctx context.Context, input VerifyInput) (*View, error)
	ResendPlacement(ctx context.Context, orderID uuid.UUID) (*ResendResult, error)
}

// Deps collects the collaborators the order service needs.
type Deps struct {
	Repo      Repository
	SlotsRepo slots.Repository
	Tx        txRunner
	Customers customers.Service
	Catalog   catalog.Repository
	Addresses addresses.Service
	Slots     slots.Service
	Assets    assets.Service
	Wallets   wallets.Service
	Codes     CodeStore
	SMS       SMSPublisher
	Metrics   *metrics.PlacementMetrics
	Logger    *logger.Logger
	OTP       config.OTPConfig
}

type service struct {
	deps Deps
}

// NewService builds the order service.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.SlotsRepo == nil:
		return nil, fmt.Errorf("slots repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Customers == nil:
		return nil, fmt.Errorf("customers service required")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog repository required")
	case deps.Addresses == nil:
		return nil, fmt.Errorf("addresses service required")
	case deps.Slots == nil:
		return nil, fmt.Errorf("slots service required")
	case deps.Assets == nil:
		return nil, fmt.Errorf("assets service required")
	case deps.Wallets == nil:
		return nil, fmt.Errorf("wallets service required")
	case deps.Codes == nil:
		return nil, fmt.Errorf("code store required")
	case deps.SMS == nil:
		return nil, fmt.Errorf("sms publisher required")
	}
	if deps.OTP.TTL <= 0 {
		deps.OTP.TTL = 10 * time.Minute
	}
	if deps.OTP.ResendCooldown <= 0 {
		deps.OTP.ResendCooldown = 30 * time.Second
	}
	if deps.OTP.MaxAttempts <= 0 {
		deps.OTP.MaxAttempts = 5
	}
	return &service{deps: deps}, nil
}

// Create validates the draft against every tab's constraints, persists it in
// pending_verification and issues the first placement code. Slot capacity is
// not consumed here; that happens when the code is verified.
func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	customer, err := s.deps.Customers.GetApproved(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	product, err := s.loadOrderableProduct(ctx, customer, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.deps.Addresses.GetOwned(ctx, customer.ID, input.ShippingAddressID, enums.AddressKindShipping); err != nil {
		return nil, err
	}
	if _, err := s.deps.Addresses.GetOwned(ctx, customer.ID, input.BillingAddressID, enums.AddressKindBilling); err != nil {
		return nil, err
	}

	slot, err := s.deps.Slots.GetBookable(ctx, input.SlotID)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Assets.EnsureAvailable(ctx, input.AssetIDs); err != nil {
		return nil, err
	}

	if err := s.checkPayment(ctx, customer.ID, input.PaymentMethod); err != nil {
		return nil, err
	}

	subtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
	tax := subtotal.Mul(product.TaxRatePercent).Div(hundred)
	total := subtotal.Add(tax).Round(2)

	order := &models.FuelOrder{
		ID:                uuid.New(),
		CustomerID:        customer.ID,
		ProductID:         product.ID,
		Quantity:          input.Quantity,
		UnitPrice:         product.UnitPrice,
		TaxRatePercent:    product.TaxRatePercent,
		TotalAmount:       total,
		PaymentMethod:     input.PaymentMethod,
		ShippingAddressID: input.ShippingAddressID,
		BillingAddressID:  input.BillingAddressID,
		SlotID:            slot.ID,
		AssetIDs:          dbtypes.UUIDArray(input.AssetIDs),
		Status:            enums.OrderStatusPendingVerification,
	}

	created, err := s.deps.Repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving order")
	}

	if err := s.issueCode(ctx, created, customer.Phone); err != nil {
		// The draft exists and the customer can request a resend, so a
		// failed first dispatch is logged rather than surfaced.
		if s.deps.Logger != nil {
			s.deps.Logger.Error(s.orderCtx(ctx, created.ID), "issuing initial placement code", err)
		}
	} else if _, err := s.deps.Codes.BeginCooldown(ctx, created.ID.String(), s.deps.OTP.ResendCooldown); err != nil && s.deps.Logger != nil {
		// The first send opens the resend cooldown window.
		s.deps.Logger.Error(s.orderCtx(ctx, created.ID), "starting resend cooldown", err)
	}

	s.deps.Metrics.IncOrderCreated(created.PaymentMethod.String())
	view := toView(*created)
	return &view, nil
}

// VerifyPlacement checks the submitted code and, on match, places the order
// and consumes slot capacity in one transaction.
func (s *service) VerifyPlacement(ctx context.Context, input VerifyInput) (*View, error) {
	started := time.Now()

	if !codeFormatRe.MatchString(input.Code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code must be exactly 4 digits")
	}

	order, err := s.loadPendingOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	orderKey := order.ID.String()

	attempts, err := s.deps.Codes.IncrAttempts(ctx, orderKey, s.deps.OTP.TTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "tracking verification attempts")
	}
	if attempts > int64(s.deps.OTP.MaxAttempts) {
		s.deps.Metrics.IncOTPRejected("too_many_attempts")
		if clearErr := s.deps.Codes.ClearCode(ctx, orderKey); clearErr != nil && s.deps.Logger != nil {
			s.deps.Logger.Error(s.orderCtx(ctx, order.ID), "clearing exhausted placement code", clearErr)
		}
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many incorrect attempts, request a new code")
	}

	stored, err := s.deps.Codes.GetCode(ctx, orderKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading placement code")
	}
	if stored == "" {
		s.deps.Metrics.IncOTPRejected("expired")
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "confirmation code expired, request a new one")
	}
	if stored != input.Code {
		s.deps.Metrics.IncOTPRejected("mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "incorrect confirmation code")
	}

	placedAt := time.Now().UTC()
	err = s.deps.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.deps.Repo.WithTx(tx).MarkPlaced(ctx, order.ID, placedAt); err != nil {
			return err
		}
		return s.deps.SlotsRepo.WithTx(tx).IncrementBooked(ctx, order.SlotID)
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	if err := s.deps.Codes.ClearCode(ctx, orderKey); err != nil && s.deps.Logger != nil {
		s.deps.Logger.Error(s.orderCtx(ctx, order.ID), "clearing placement code", err)
	}

	s.deps.Metrics.IncOTPVerified()
	s.deps.Metrics.IncOrderPlaced(order.PaymentMethod.String())
	s.deps.Metrics.ObserveVerifyDuration(time.Since(started))

	order.Status = enums.OrderStatusPlaced
	order.PlacedAt = &placedAt
	view := toView(*order)
	return &view, nil
}

// ResendPlacement reissues the placement code, subject to the cooldown.
func (s *service) ResendPlacement(ctx context.Context, orderID uuid.UUID) (*ResendResult, error) {
	order, err := s.loadPendingOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.deps.Codes.BeginCooldown(ctx, order.ID.String(), s.deps.OTP.ResendCooldown)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking resend cooldown")
	}
	cooldownSeconds := int(s.deps.OTP.ResendCooldown / time.Second)
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "a code was sent recently, wait before requesting another").
			WithDetails(map[string]any{"retryAfterSeconds": cooldownSeconds})
	}

	customer, err := s.deps.Customers.GetApproved(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := s.issueCode(ctx, order, customer.Phone); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dispatching placement code")
	}

	s.deps.Metrics.IncOTPResent()
	return &ResendResult{CooldownSeconds: cooldownSeconds}, nil
}

func (s *service) loadOrderableProduct(ctx context.Context, customer *models.Customer, input CreateInput) (*models.Product, error) {
	product, err := s.deps.Catalog.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is no longer available")
	}
	if product.ZoneID != customer.ZoneID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available in the customer's zone")
	}
	if input.Quantity < product.MinQuantity || input.Quantity > product.MaxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be between %d and %d", product.MinQuantity, product.MaxQuantity))
	}
	return product, nil
}

func (s *service) checkPayment(ctx context.Context, customerID uuid.UUID, method enums.PaymentMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if method == enums.PaymentMethodWalletAndCredit {
		balance, err := s.deps.Wallets.BalanceFor(ctx, customerID)
		if err != nil {
			return err
		}
		if balance.IsZero() || balance.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "wallet has no balance to apply")
		}
	}
	return nil
}

func (s *service) loadPendingOrder(ctx context.Context, orderID uuid.UUID) (*models.FuelOrder, error) {
	order, err := s.deps.Repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.Status != enums.OrderStatusPendingVerification {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, not pending verification", order.Status))
	}
	return order, nil
}

func (s *service) issueCode(ctx context.Context, order *models.FuelOrder, phone string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	orderKey := order.ID.String()
	if err := s.deps.Codes.SaveCode(ctx, orderKey, code, s.deps.OTP.TTL); err != nil {
		return fmt.Errorf("storing placement code: %w", err)
	}
	msg := notify.SMSMessage{
		Phone:   phone,
		Body:    notify.ComposePlacementCode(code, order.OrderNumber),
		OrderID: orderKey,
	}
	if err := s.deps.SMS.Publish(ctx, msg); err != nil {
		return fmt.Errorf("queueing placement sms: %w", err)
	}
	return nil
}

func (s *service) orderCtx(ctx context.Context, orderID uuid.UUID) context.Context {
	if s.deps.Logger == nil {
		return ctx
	}
	return s.deps.Logger.WithOrderID(ctx, orderID.String())
}
