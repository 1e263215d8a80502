package placement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// Stage is one of the five ordered wizard steps.
type Stage int

const (
	StageCustomer Stage = iota
	StageDelivery
	StageProducts
	StageAssets
	StagePayment
)

func (s Stage) String() string {
	switch s {
	case StageCustomer:
		return "customer"
	case StageDelivery:
		return "delivery"
	case StageProducts:
		return "products"
	case StageAssets:
		return "assets"
	case StagePayment:
		return "payment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// RefList names one of the dependent reference lists the wizard fetches.
type RefList string

const (
	RefProducts          RefList = "products"
	RefShippingAddresses RefList = "shipping_addresses"
	RefBillingAddresses  RefList = "billing_addresses"
	RefSlots             RefList = "slots"
)

// ProductLine is one selected product row in the draft.
type ProductLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
}

// draft accumulates the selections made across stages.
type draft struct {
	customerID     string
	businessName   string
	contactName    string
	email          string
	phone          string
	productLines   []ProductLine
	shippingAddrID string
	billingAddrID  string
	sameAsShipping bool
	slotID         string
	assetIDs       []string
	paymentMethod  string
}

// Wizard walks a draft order through the five stages and owns the reference
// data fetched for the selected customer.
type Wizard struct {
	client *Client
	logg   *logger.Logger

	onSubmitted func(PendingOrder) *Verifier
	onClosed    func()

	mu         sync.Mutex
	stage      Stage
	closed     bool
	draft      draft
	generation uint64

	customers    []Customer
	products     []Product
	shippingList []Address
	billingList  []Address
	slots        []DaySlots

	loading map[RefList]bool
}

func newWizard(client *Client, logg *logger.Logger, onSubmitted func(PendingOrder) *Verifier, onClosed func()) *Wizard {
	return &Wizard{
		client:      client,
		logg:        logg,
		onSubmitted: onSubmitted,
		onClosed:    onClosed,
		stage:       StageCustomer,
		loading:     map[RefList]bool{},
	}
}

// loadCustomers fetches the approved-customer list on open. A failure is
// logged and leaves the list empty so the wizard still renders.
func (w *Wizard) loadCustomers(ctx context.Context) {
	list, err := w.client.GetApprovedCustomers(ctx)
	if err != nil {
		if w.logg != nil {
			w.logg.Warn(w.logg.WithField(ctx, "list", "customers"), "wizard.reference_fetch_failed")
		}
		return
	}
	w.mu.Lock()
	w.customers = list
	w.mu.Unlock()
}

// Stage reports the active step.
func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// CanNext reports whether the Next transition is currently allowed.
func (w *Wizard) CanNext() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.stage == StagePayment {
		return false
	}
	if w.stage == StageCustomer && w.draft.customerID == "" {
		return false
	}
	return true
}

// Next advances one stage. It is blocked on the customer stage until a
// customer is selected, and the payment stage is terminal.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("wizard is closed")
	}
	if w.stage == StagePayment {
		return errors.New("payment stage is terminal; submit instead")
	}
	if w.stage == StageCustomer && w.draft.customerID == "" {
		return errors.New("select a customer first")
	}
	w.stage++
	return nil
}

// Back returns to the previous stage.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("wizard is closed")
	}
	if w.stage == StageCustomer {
		return errors.New("already on the first stage")
	}
	w.stage--
	return nil
}

// Customers returns the approved-customer list fetched on open.
func (w *Wizard) Customers() []Customer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.customers
}

// SelectCustomer records the selection, denormalizes the contact fields from
// the already-fetched list, and refreshes the dependent reference lists. The
// sibling fetches run concurrently; a failed fetch is logged and leaves that
// list empty rather than failing the selection.
func (w *Wizard) SelectCustomer(ctx context.Context, customerID string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.New("wizard is closed")
	}
	var selected *Customer
	for i := range w.customers {
		if w.customers[i].ID == customerID {
			selected = &w.customers[i]
			break
		}
	}
	if selected == nil {
		w.mu.Unlock()
		return fmt.Errorf("customer %s is not in the approved list", customerID)
	}

	w.draft.customerID = selected.ID
	w.draft.businessName = selected.BusinessName
	w.draft.contactName = selected.ContactName
	w.draft.email = selected.Email
	w.draft.phone = selected.Phone

	// Changing the selection invalidates any in-flight fetch for the
	// previous customer.
	w.generation++
	gen := w.generation
	w.loading[RefProducts] = true
	w.loading[RefShippingAddresses] = true
	w.loading[RefBillingAddresses] = true
	w.loading[RefSlots] = true
	w.mu.Unlock()

	var (
		errMu    sync.Mutex
		fetchErr error
	)
	record := func(err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		fetchErr = multierr.Append(fetchErr, err)
		errMu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error { record(w.refreshProducts(ctx, gen, customerID)); return nil })
	g.Go(func() error { record(w.refreshShippingAddresses(ctx, gen, customerID)); return nil })
	g.Go(func() error { record(w.refreshBillingAddresses(ctx, gen, customerID)); return nil })
	g.Go(func() error { record(w.refreshSlots(ctx, gen)); return nil })
	_ = g.Wait()

	if fetchErr != nil && w.logg != nil {
		logCtx := w.logg.WithCustomerID(ctx, customerID)
		for _, e := range multierr.Errors(fetchErr) {
			w.logg.Warn(w.logg.WithField(logCtx, "error", e.Error()), "wizard.reference_fetch_failed")
		}
	}
	return nil
}

func (w *Wizard) refreshProducts(ctx context.Context, gen uint64, customerID string) error {
	list, err := w.client.GetProducts(ctx, customerID)
	w.finishFetch(RefProducts, gen, err == nil, func() { w.products = list })
	if err != nil {
		return fmt.Errorf("products: %w", err)
	}
	return nil
}

func (w *Wizard) refreshShippingAddresses(ctx context.Context, gen uint64, customerID string) error {
	list, err := w.client.GetShippingAddresses(ctx, customerID)
	w.finishFetch(RefShippingAddresses, gen, err == nil, func() { w.shippingList = list })
	if err != nil {
		return fmt.Errorf("shipping addresses: %w", err)
	}
	return nil
}

func (w *Wizard) refreshBillingAddresses(ctx context.Context, gen uint64, customerID string) error {
	list, err := w.client.GetBillingAddresses(ctx, customerID)
	w.finishFetch(RefBillingAddresses, gen, err == nil, func() { w.billingList = list })
	if err != nil {
		return fmt.Errorf("billing addresses: %w", err)
	}
	return nil
}

func (w *Wizard) refreshSlots(ctx context.Context, gen uint64) error {
	list, err := w.client.TimeSlotsNextSevenDays(ctx)
	w.finishFetch(RefSlots, gen, err == nil, func() { w.slots = list })
	if err != nil {
		return fmt.Errorf("time slots: %w", err)
	}
	return nil
}

// finishFetch applies a completed fetch under the generation guard. A
// response from a superseded selection is discarded wholesale.
func (w *Wizard) finishFetch(list RefList, gen uint64, ok bool, apply func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return
	}
	w.loading[list] = false
	if ok {
		apply()
	}
}

// Loading reports whether the named reference list has a fetch outstanding.
func (w *Wizard) Loading(list RefList) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading[list]
}

// Products returns the current product reference list.
func (w *Wizard) Products() []Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.products
}

// ShippingAddresses returns the current shipping address list.
func (w *Wizard) ShippingAddresses() []Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shippingList
}

// BillingAddresses returns the current billing address list.
func (w *Wizard) BillingAddresses() []Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.billingList
}

// Slots returns the current week of delivery windows.
func (w *Wizard) Slots() []DaySlots {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slots
}

// CreateShippingAddress posts the new address then re-fetches the full list.
func (w *Wizard) CreateShippingAddress(ctx context.Context, input AddressInput) error {
	w.mu.Lock()
	customerID := w.draft.customerID
	gen := w.generation
	w.mu.Unlock()
	if customerID == "" {
		return errors.New("select a customer first")
	}
	if _, err := w.client.AddShippingAddress(ctx, customerID, input); err != nil {
		return err
	}
	return w.refreshShippingAddresses(ctx, gen, customerID)
}

// CreateBillingAddress posts the new address then re-fetches the full list.
func (w *Wizard) CreateBillingAddress(ctx context.Context, input AddressInput) error {
	w.mu.Lock()
	customerID := w.draft.customerID
	gen := w.generation
	w.mu.Unlock()
	if customerID == "" {
		return errors.New("select a customer first")
	}
	if _, err := w.client.AddBillingAddress(ctx, customerID, input); err != nil {
		return err
	}
	return w.refreshBillingAddresses(ctx, gen, customerID)
}

// SetProductLines replaces the selected product rows.
func (w *Wizard) SetProductLines(lines []ProductLine) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.productLines = lines
}

// SelectShippingAddress records the shipping selection.
func (w *Wizard) SelectShippingAddress(addressID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.shippingAddrID = addressID
}

// SelectBillingAddress records the billing selection and clears the
// same-as-shipping toggle.
func (w *Wizard) SelectBillingAddress(addressID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.billingAddrID = addressID
	w.draft.sameAsShipping = false
}

// SetSameAsShipping toggles copying the shipping selection into billing. The
// copy happens at submit time, so later shipping changes are honored.
func (w *Wizard) SetSameAsShipping(same bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.sameAsShipping = same
}

// SelectSlot records the delivery window selection.
func (w *Wizard) SelectSlot(slotID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.slotID = slotID
}

// SetAssetIDs records the bowser assignment.
func (w *Wizard) SetAssetIDs(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.assetIDs = ids
}

// SetPaymentMethod records the settlement choice.
func (w *Wizard) SetPaymentMethod(method string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.paymentMethod = method
}

// ContactPhone returns the denormalized phone of the selected customer.
func (w *Wizard) ContactPhone() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.phone
}

// Submit posts the draft from the payment stage. Only the first product line
// is sent; additional lines are dropped. Known behavior carried over from the
// dashboard, kept until product confirms multi-line orders.
func (w *Wizard) Submit(ctx context.Context) (*Verifier, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, errors.New("wizard is closed")
	}
	if w.stage != StagePayment {
		w.mu.Unlock()
		return nil, fmt.Errorf("submit is only available on the payment stage (on %s)", w.stage)
	}
	d := w.draft
	w.mu.Unlock()

	if len(d.productLines) == 0 {
		return nil, errors.New("select at least one product")
	}
	if d.shippingAddrID == "" {
		return nil, errors.New("select a shipping address")
	}
	billingID := d.billingAddrID
	if d.sameAsShipping {
		billingID = d.shippingAddrID
	}
	if billingID == "" {
		return nil, errors.New("select a billing address")
	}
	if d.slotID == "" {
		return nil, errors.New("select a delivery slot")
	}
	if d.paymentMethod == "" {
		return nil, errors.New("select a payment method")
	}

	first := d.productLines[0]
	payload := CreateOrderPayload{
		AssetIDs:          d.assetIDs,
		PaymentMethod:     d.paymentMethod,
		ProductID:         first.ProductID,
		Quantity:          first.Quantity,
		ShippingAddressID: d.shippingAddrID,
		BillingAddressID:  billingID,
		SlotID:            d.slotID,
	}

	pending, err := w.client.CreateOrder(ctx, d.customerID, payload)
	if err != nil {
		// The wizard stays open so the desk can retry.
		return nil, err
	}

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	if w.onSubmitted == nil {
		return nil, errors.New("wizard has no submission handler")
	}
	return w.onSubmitted(*pending), nil
}

// Close abandons the draft.
func (w *Wizard) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	if w.onClosed != nil {
		w.onClosed()
	}
}
