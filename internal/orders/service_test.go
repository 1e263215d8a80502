package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/internal/addresses"
	"github.com/fuelflow/fuelops-backend/internal/assets"
	"github.com/fuelflow/fuelops-backend/internal/catalog"
	"github.com/fuelflow/fuelops-backend/internal/customers"
	"github.com/fuelflow/fuelops-backend/internal/notify"
	"github.com/fuelflow/fuelops-backend/internal/slots"
	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

type memOrdersRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.FuelOrder
	nextNo int64
}

func newMemOrdersRepo() *memOrdersRepo {
	return &memOrdersRepo{orders: map[uuid.UUID]*models.FuelOrder{}, nextNo: 1000}
}

func (r *memOrdersRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *memOrdersRepo) Create(ctx context.Context, order *models.FuelOrder) (*models.FuelOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextNo++
	order.OrderNumber = r.nextNo
	clone := *order
	r.orders[order.ID] = &clone
	return order, nil
}

func (r *memOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FuelOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *memOrdersRepo) MarkPlaced(ctx context.Context, id uuid.UUID, placedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Status != enums.OrderStatusPendingVerification {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pending verification")
	}
	order.Status = enums.OrderStatusPlaced
	order.PlacedAt = &placedAt
	return nil
}

type memSlotsRepo struct {
	mu       sync.Mutex
	capacity map[uuid.UUID]int
	booked   map[uuid.UUID]int
}

func (r *memSlotsRepo) WithTx(tx *gorm.DB) slots.Repository { return r }

func (r *memSlotsRepo) FindActiveBetween(ctx context.Context, from, to time.Time) ([]models.TimeSlot, error) {
	return nil, nil
}

func (r *memSlotsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memSlotsRepo) IncrementBooked(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.booked[id] >= r.capacity[id] {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery slot is full")
	}
	r.booked[id]++
	return nil
}

type passTx struct{}

func (passTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type fixedCustomers struct {
	customer *models.Customer
}

func (f fixedCustomers) ListApproved(ctx context.Context) ([]customers.Summary, error) {
	return nil, nil
}

func (f fixedCustomers) GetApproved(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if f.customer == nil || f.customer.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return f.customer, nil
}

type staticCatalogRepo struct {
	product *models.Product
}

func (s *staticCatalogRepo) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *staticCatalogRepo) FindActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *staticCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

type fixedAddresses struct {
	owner      uuid.UUID
	shippingID uuid.UUID
	billingID  uuid.UUID
}

func (f fixedAddresses) List(ctx context.Context, customerID uuid.UUID, kind enums.AddressKind) ([]addresses.View, error) {
	return nil, nil
}

func (f fixedAddresses) Add(ctx context.Context, input addresses.AddInput) (*addresses.View, error) {
	return nil, nil
}

func (f fixedAddresses) GetOwned(ctx context.Context, customerID, addressID uuid.UUID, kind enums.AddressKind) (*models.Address, error) {
	if customerID != f.owner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to a different customer")
	}
	if kind == enums.AddressKindShipping && addressID == f.shippingID {
		return &models.Address{ID: addressID, CustomerID: customerID, Kind: kind}, nil
	}
	if kind == enums.AddressKindBilling && addressID == f.billingID {
		return &models.Address{ID: addressID, CustomerID: customerID, Kind: kind}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
}

type fixedSlots struct {
	slot *models.TimeSlot
}

func (f fixedSlots) NextSevenDays(ctx context.Context, now time.Time) ([]slots.DaySlots, error) {
	return nil, nil
}

func (f fixedSlots) GetBookable(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error) {
	if f.slot == nil || f.slot.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery slot not found")
	}
	return f.slot, nil
}

type okAssets struct{}

func (okAssets) ListAvailable(ctx context.Context) ([]assets.View, error) { return nil, nil }

func (okAssets) EnsureAvailable(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one asset is required")
	}
	return nil
}

type fixedWallets struct {
	balance decimal.Decimal
}

func (f fixedWallets) BalanceFor(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return f.balance, nil
}

type memCodeStore struct {
	mu       sync.Mutex
	codes    map[string]string
	attempts map[string]int64
	cooldown map[string]bool
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{codes: map[string]string{}, attempts: map[string]int64{}, cooldown: map[string]bool{}}
}

func (s *memCodeStore) SaveCode(ctx context.Context, orderID, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[orderID] = code
	return nil
}

func (s *memCodeStore) GetCode(ctx context.Context, orderID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[orderID], nil
}

func (s *memCodeStore) ClearCode(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, orderID)
	delete(s.attempts, orderID)
	delete(s.cooldown, orderID)
	return nil
}

func (s *memCodeStore) IncrAttempts(ctx context.Context, orderID string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[orderID]++
	return s.attempts[orderID], nil
}

func (s *memCodeStore) BeginCooldown(ctx context.Context, orderID string, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cooldown[orderID] {
		return false, nil
	}
	s.cooldown[orderID] = true
	return true, nil
}

func (s *memCodeStore) endCooldown(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cooldown, orderID)
}

type recordingSMS struct {
	mu       sync.Mutex
	messages []notify.SMSMessage
}

func (r *recordingSMS) Publish(ctx context.Context, msg notify.SMSMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSMS) last(t *testing.T) notify.SMSMessage {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.messages)
	return r.messages[len(r.messages)-1]
}

type harness struct {
	svc      Service
	repo     *memOrdersRepo
	slots    *memSlotsRepo
	codes    *memCodeStore
	sms      *recordingSMS
	customer *models.Customer
	input    CreateInput
}

func newHarness(t *testing.T, balance decimal.Decimal) *harness {
	t.Helper()

	zoneID := uuid.New()
	customer := &models.Customer{
		ID:               uuid.New(),
		Name:             "Highway Logistics",
		Phone:            "+919900112233",
		ZoneID:           zoneID,
		OnboardingStatus: enums.OnboardingStatusApproved,
	}
	product := &models.Product{
		ID:             uuid.New(),
		ZoneID:         zoneID,
		UnitPrice:      decimal.NewFromFloat(89.50),
		TaxRatePercent: decimal.NewFromInt(18),
		MinQuantity:    100,
		MaxQuantity:    10000,
		IsActive:       true,
	}
	slot := &models.TimeSlot{ID: uuid.New(), Capacity: 2, BookedCount: 0, IsActive: true}
	shippingID := uuid.New()
	billingID := uuid.New()

	repo := newMemOrdersRepo()
	slotsRepo := &memSlotsRepo{
		capacity: map[uuid.UUID]int{slot.ID: slot.Capacity},
		booked:   map[uuid.UUID]int{},
	}
	codes := newMemCodeStore()
	sms := &recordingSMS{}

	svc, err := NewService(Deps{
		Repo:      repo,
		SlotsRepo: slotsRepo,
		Tx:        passTx{},
		Customers: fixedCustomers{customer: customer},
		Catalog:   &staticCatalogRepo{product: product},
		Addresses: fixedAddresses{owner: customer.ID, shippingID: shippingID, billingID: billingID},
		Slots:     fixedSlots{slot: slot},
		Assets:    okAssets{},
		Wallets:   fixedWallets{balance: balance},
		Codes:     codes,
		SMS:       sms,
		OTP: config.OTPConfig{
			TTL:            10 * time.Minute,
			ResendCooldown: 30 * time.Second,
			MaxAttempts:    5,
		},
	})
	require.NoError(t, err)

	return &harness{
		svc:      svc,
		repo:     repo,
		slots:    slotsRepo,
		codes:    codes,
		sms:      sms,
		customer: customer,
		input: CreateInput{
			CustomerID:        customer.ID,
			ProductID:         product.ID,
			Quantity:          500,
			PaymentMethod:     enums.PaymentMethodCreditOnly,
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
			SlotID:            slot.ID,
			AssetIDs:          []uuid.UUID{uuid.New()},
		},
	}
}

func TestCreateHappyPath(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	ctx := context.Background()

	view, err := h.svc.Create(ctx, h.input)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPendingVerification, view.Status)
	// 500 * 89.50 = 44750; +18% tax = 52805
	assert.True(t, view.TotalAmount.Equal(decimal.NewFromInt(52805)), "got %s", view.TotalAmount)

	code := h.codes.codes[view.ID.String()]
	require.Regexp(t, `^[0-9]{4}$`, code)

	msg := h.sms.last(t)
	assert.Equal(t, h.customer.Phone, msg.Phone)
	assert.Contains(t, msg.Body, code)

	assert.True(t, h.codes.cooldown[view.ID.String()], "first send opens the cooldown window")
	assert.Zero(t, h.slots.booked[h.input.SlotID], "capacity moves only at verification")
}

func TestCreateRejectsQuantityOutOfRange(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	input := h.input
	input.Quantity = 50

	_, err := h.svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateWalletMethodNeedsBalance(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	input := h.input
	input.PaymentMethod = enums.PaymentMethodWalletAndCredit

	_, err := h.svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	funded := newHarness(t, decimal.NewFromInt(5000))
	input = funded.input
	input.PaymentMethod = enums.PaymentMethodWalletAndCredit
	_, err = funded.svc.Create(context.Background(), input)
	require.NoError(t, err)
}

func TestVerifyPlacementHappyPath(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	ctx := context.Background()

	view, err := h.svc.Create(ctx, h.input)
	require.NoError(t, err)
	code := h.codes.codes[view.ID.String()]

	placed, err := h.svc.VerifyPlacement(ctx, VerifyInput{OrderID: view.ID, Code: code})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, placed.Status)
	require.NotNil(t, placed.PlacedAt)

	assert.Equal(t, 1, h.slots.booked[h.input.SlotID])
	assert.Empty(t, h.codes.codes[view.ID.String()], "code is cleared after placement")

	_, err = h.svc.VerifyPlacement(ctx, VerifyInput{OrderID: view.ID, Code: code})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestVerifyPlacementCodeFormat(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	ctx := context.Background()

	for _, bad := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		_, err := h.svc.VerifyPlacement(ctx, VerifyInput{OrderID: uuid.New(), Code: bad})
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr, "code %q", bad)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestVerifyPlacementMismatchAndLockout(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	ctx := context.Background()

	view, err := h.svc.Create(ctx, h.input)
	require.NoError(t, err)
	code := h.codes.codes[view.ID.String()]
	wrong := "0000"
	if code == wrong {
		wrong = "0001"
	}

	for i := 0; i < 5; i++ {
		_, err := h.svc.VerifyPlacement(ctx, VerifyInput{OrderID: view.ID, Code: wrong})
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}

	// Sixth attempt trips the lockout even with the right code.
	_, err = h.svc.VerifyPlacement(ctx, VerifyInput{OrderID: view.ID, Code: code})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeRateLimit, appErr.Code())
	assert.Empty(t, h.codes.codes[view.ID.String()], "lockout clears the stored code")
}

func TestVerifyPlacementExpiredCode(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	ctx := context.Background()

	view, err := h.svc.Create(ctx, h.input)
	require.NoError(t, err)
	delete(h.codes.codes, view.ID.String())

	_, err = h.svc.VerifyPlacement(ctx, VerifyInput{OrderID: view.ID, Code: "1234"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestResendPlacementCooldown(t *testing.T) {
	h := newHarness(t, decimal.Zero)
	ctx := context.Background()

	view, err := h.svc.Create(ctx, h.input)
	require.NoError(t, err)
	firstCode := h.codes.codes[view.ID.String()]

	_, err = h.svc.ResendPlacement(ctx, view.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeRateLimit, appErr.Code())
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 30, details["retryAfterSeconds"])

	h.codes.endCooldown(view.ID.String())

	result, err := h.svc.ResendPlacement(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, result.CooldownSeconds)

	secondCode := h.codes.codes[view.ID.String()]
	require.Regexp(t, `^[0-9]{4}$`, secondCode)
	msg := h.sms.last(t)
	assert.Contains(t, msg.Body, secondCode)
	assert.NotEmpty(t, firstCode)
}
