package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/api/responses"
	"github.com/fuelflow/fuelops-backend/api/validators"
	"github.com/fuelflow/fuelops-backend/internal/addresses"
	"github.com/fuelflow/fuelops-backend/internal/assets"
	"github.com/fuelflow/fuelops-backend/internal/catalog"
	"github.com/fuelflow/fuelops-backend/internal/customers"
	internalorders "github.com/fuelflow/fuelops-backend/internal/orders"
	"github.com/fuelflow/fuelops-backend/internal/slots"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// GetApprovedCustomers lists customers the desk may place orders for.
func GetApprovedCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		list, err := svc.ListApproved(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetProducts lists the products orderable in the customer's zone.
func GetProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		customerID, err := parseCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ProductsForCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetShippingAddresses lists a customer's shipping addresses.
func GetShippingAddresses(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return listAddresses(svc, logg, enums.AddressKindShipping)
}

// GetBillingAddresses lists a customer's billing addresses.
func GetBillingAddresses(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return listAddresses(svc, logg, enums.AddressKindBilling)
}

func listAddresses(svc addresses.Service, logg *logger.Logger, kind enums.AddressKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addresses service unavailable"))
			return
		}

		customerID, err := parseCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), customerID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type addAddressRequest struct {
	Line1    string  `json:"line1" validate:"required,max=200"`
	Line2    *string `json:"line2" validate:"omitempty,max=200"`
	City     string  `json:"city" validate:"required,max=100"`
	State    string  `json:"state" validate:"required,max=100"`
	Pincode  string  `json:"pincode" validate:"required,len=6,numeric"`
	Landmark *string `json:"landmark" validate:"omitempty,max=200"`
	GSTIN    *string `json:"gstin" validate:"omitempty,max=15"`
}

// AddShippingAddress creates a shipping address for the customer.
func AddShippingAddress(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return addAddress(svc, logg, enums.AddressKindShipping)
}

// AddBillingAddress creates a billing address for the customer.
func AddBillingAddress(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return addAddress(svc, logg, enums.AddressKindBilling)
}

func addAddress(svc addresses.Service, logg *logger.Logger, kind enums.AddressKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addresses service unavailable"))
			return
		}

		customerID, err := parseCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addAddressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Add(r.Context(), addresses.AddInput{
			CustomerID: customerID,
			Kind:       kind,
			Line1:      req.Line1,
			Line2:      req.Line2,
			City:       req.City,
			State:      req.State,
			Pincode:    req.Pincode,
			Landmark:   req.Landmark,
			GSTIN:      req.GSTIN,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// TimeSlotsNextSevenDays returns the bookable delivery windows grouped by day.
func TimeSlotsNextSevenDays(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slots service unavailable"))
			return
		}

		days, err := svc.NextSevenDays(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, days)
	}
}

// GetAssets lists delivery assets free for assignment.
func GetAssets(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assets service unavailable"))
			return
		}

		list, err := svc.ListAvailable(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type createOrderRequest struct {
	AssetIDs          []string `json:"assetIds" validate:"required,min=1,dive,uuid"`
	PaymentMethod     string   `json:"paymentMethod" validate:"required,oneof=creditOnly walletAndCredit"`
	ProductID         string   `json:"productId" validate:"required,uuid"`
	Quantity          int      `json:"quantity" validate:"required,min=1"`
	ShippingAddressID string   `json:"shippingAddressId" validate:"required,uuid"`
	BillingAddressID  string   `json:"billingAddressId" validate:"required,uuid"`
	SlotID            string   `json:"slotId" validate:"required,uuid"`
}

type createOrderResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	PhoneNumber string    `json:"phoneNumber"`
}

// CreateOrder books a draft order and dispatches the placement code to the
// customer's registered phone. The phone number comes back so the desk can
// tell the customer where the code went.
func CreateOrder(ordersSvc internalorders.Service, customersSvc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil || customersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := parseCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := buildCreateInput(customerID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := ordersSvc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := customersSvc.GetApproved(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			OrderID:     view.ID,
			PhoneNumber: customer.Phone,
		})
	}
}

func buildCreateInput(customerID uuid.UUID, req createOrderRequest) (internalorders.CreateInput, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return internalorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	shippingID, err := uuid.Parse(req.ShippingAddressID)
	if err != nil {
		return internalorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address id")
	}
	billingID, err := uuid.Parse(req.BillingAddressID)
	if err != nil {
		return internalorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing address id")
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return internalorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid slot id")
	}

	assetIDs := make([]uuid.UUID, 0, len(req.AssetIDs))
	for _, raw := range req.AssetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return internalorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id")
		}
		assetIDs = append(assetIDs, id)
	}

	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return internalorders.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	return internalorders.CreateInput{
		CustomerID:        customerID,
		ProductID:         productID,
		Quantity:          req.Quantity,
		PaymentMethod:     method,
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
		SlotID:            slotID,
		AssetIDs:          assetIDs,
	}, nil
}

type verifyOTPRequest struct {
	OrderID      string `json:"orderId" validate:"required,uuid"`
	PlacementOTP string `json:"placementOtp" validate:"required"`
}

// VerifyPlacementOTP confirms the code the customer read back and places the order.
func VerifyPlacementOTP(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req verifyOTPRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		view, err := svc.VerifyPlacement(r.Context(), internalorders.VerifyInput{
			OrderID: orderID,
			Code:    req.PlacementOTP,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type resendOTPRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

// ResendPlacementOTP regenerates the code and redispatches the SMS.
func ResendPlacementOTP(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req resendOTPRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		result, err := svc.ResendPlacement(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseCustomerID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "cid"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return id, nil
}
