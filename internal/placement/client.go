package placement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// Customer is the approved-customer row the desk picks from.
type Customer struct {
	ID           string `json:"id"`
	BusinessName string `json:"businessName"`
	ContactName  string `json:"contactName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// Product is an orderable product in the customer's zone.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	MinQuantity int             `json:"minQuantity"`
	MaxQuantity int             `json:"maxQuantity"`
}

// Address is a shipping or billing address row.
type Address struct {
	ID       string  `json:"id"`
	Line1    string  `json:"line1"`
	Line2    *string `json:"line2,omitempty"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Pincode  string  `json:"pincode"`
	Landmark *string `json:"landmark,omitempty"`
	GSTIN    *string `json:"gstin,omitempty"`
}

// AddressInput carries a new address created inline from the wizard.
type AddressInput struct {
	Line1    string  `json:"line1"`
	Line2    *string `json:"line2,omitempty"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Pincode  string  `json:"pincode"`
	Landmark *string `json:"landmark,omitempty"`
	GSTIN    *string `json:"gstin,omitempty"`
}

// Slot is one bookable delivery window.
type Slot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartsAt  string `json:"startsAt"`
	EndsAt    string `json:"endsAt"`
	Remaining int    `json:"remaining"`
}

// DaySlots groups slots for one calendar date.
type DaySlots struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// CreateOrderPayload is the wire body for order creation.
type CreateOrderPayload struct {
	AssetIDs          []string `json:"assetIds"`
	PaymentMethod     string   `json:"paymentMethod"`
	ProductID         string   `json:"productId"`
	Quantity          int      `json:"quantity"`
	ShippingAddressID string   `json:"shippingAddressId"`
	BillingAddressID  string   `json:"billingAddressId"`
	SlotID            string   `json:"slotId"`
}

// PendingOrder is the correlation handle returned by order creation. The
// phone number is shown to the desk so they know where the code went.
type PendingOrder struct {
	OrderID     string `json:"orderId"`
	PhoneNumber string `json:"phoneNumber"`
}

// Client is a typed HTTP client for the order-desk endpoints.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logg    *logger.Logger
}

// NewClient builds a placement API client rooted at baseURL.
func NewClient(baseURL, token string, logg *logger.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("placement client base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logg:    logg,
	}, nil
}

// GetApprovedCustomers lists the customers orders may be placed for.
func (c *Client) GetApprovedCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, http.MethodGet, "/operations/orders/get-approved-customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProducts lists the products orderable for the customer.
func (c *Client) GetProducts(ctx context.Context, customerID string) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/operations/orders/get-products/"+customerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetShippingAddresses lists the customer's shipping addresses.
func (c *Client) GetShippingAddresses(ctx context.Context, customerID string) ([]Address, error) {
	var out []Address
	if err := c.do(ctx, http.MethodGet, "/operations/orders/get-shipping-addresses/"+customerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddShippingAddress creates a shipping address inline.
func (c *Client) AddShippingAddress(ctx context.Context, customerID string, input AddressInput) (*Address, error) {
	var out Address
	if err := c.do(ctx, http.MethodPost, "/operations/orders/add-shipping-address/"+customerID, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBillingAddresses lists the customer's billing addresses.
func (c *Client) GetBillingAddresses(ctx context.Context, customerID string) ([]Address, error) {
	var out []Address
	if err := c.do(ctx, http.MethodGet, "/operations/orders/get-billing-address/"+customerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddBillingAddress creates a billing address inline.
func (c *Client) AddBillingAddress(ctx context.Context, customerID string, input AddressInput) (*Address, error) {
	var out Address
	if err := c.do(ctx, http.MethodPost, "/operations/orders/add-billing-address/"+customerID, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TimeSlotsNextSevenDays lists the bookable windows for the coming week.
func (c *Client) TimeSlotsNextSevenDays(ctx context.Context) ([]DaySlots, error) {
	var out []DaySlots
	if err := c.do(ctx, http.MethodGet, "/operations/orders/time-slots/next-7-days", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder posts the draft and returns the pending order handle.
func (c *Client) CreateOrder(ctx context.Context, customerID string, payload CreateOrderPayload) (*PendingOrder, error) {
	var out PendingOrder
	if err := c.do(ctx, http.MethodPost, "/operations/orders/create-order/"+customerID, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPlacementOTP submits the code the customer read back.
func (c *Client) VerifyPlacementOTP(ctx context.Context, orderID, code string) error {
	body := map[string]string{"orderId": orderID, "placementOtp": code}
	return c.do(ctx, http.MethodPost, "/operations/orders/verify-placement-otp", body, nil)
}

// ResendPlacementOTP regenerates and redispatches the code.
func (c *Client) ResendPlacementOTP(ctx context.Context, orderID string) error {
	body := map[string]string{"orderId": orderID}
	return c.do(ctx, http.MethodPost, "/operations/orders/resend-placement-otp", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.httpc == nil {
		return errors.New("placement client not initialized")
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling placement api")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding response")
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding response data")
	}
	return nil
}

// APIError carries the server's message for a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("placement api returned status %d", e.StatusCode)
	}
	return e.Message
}

func apiError(status int, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	return &APIError{StatusCode: status, Message: strings.TrimSpace(body.Message)}
}
