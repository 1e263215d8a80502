package placement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory stand-in for the order-desk REST surface.
type fakeAPI struct {
	mu       sync.Mutex
	requests []string

	customers []Customer
	products  map[string][]Product
	shipping  map[string][]Address
	billing   map[string][]Address
	slots     []DaySlots

	createResponse PendingOrder
	createStatus   int
	createBody     map[string]any
	createPath     string

	verifyStatus  int
	verifyMessage string
	verifyBodies  []map[string]any
	verifyGate    chan struct{}

	resendStatus  int
	resendMessage string
	resendCount   int

	productGates map[string]chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		products:     map[string][]Product{},
		shipping:     map[string][]Address{},
		billing:      map[string][]Address{},
		productGates: map[string]chan struct{}{},
		createStatus: http.StatusCreated,
		verifyStatus: http.StatusOK,
		resendStatus: http.StatusOK,
	}
}

func (f *fakeAPI) recordRequest(r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
}

func (f *fakeAPI) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeAPI) countRequests(prefix string) int {
	n := 0
	for _, req := range f.requestLog() {
		if strings.HasPrefix(req, prefix) {
			n++
		}
	}
	return n
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": message})
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.recordRequest(r)
		path := r.URL.Path

		switch {
		case path == "/operations/orders/get-approved-customers":
			f.mu.Lock()
			list := f.customers
			f.mu.Unlock()
			writeData(w, http.StatusOK, list)

		case strings.HasPrefix(path, "/operations/orders/get-products/"):
			cid := strings.TrimPrefix(path, "/operations/orders/get-products/")
			f.mu.Lock()
			gate := f.productGates[cid]
			list, ok := f.products[cid]
			f.mu.Unlock()
			if gate != nil {
				<-gate
			}
			if !ok {
				writeMessage(w, http.StatusInternalServerError, "products unavailable")
				return
			}
			writeData(w, http.StatusOK, list)

		case strings.HasPrefix(path, "/operations/orders/get-shipping-addresses/"):
			cid := strings.TrimPrefix(path, "/operations/orders/get-shipping-addresses/")
			f.mu.Lock()
			list := f.shipping[cid]
			f.mu.Unlock()
			writeData(w, http.StatusOK, list)

		case strings.HasPrefix(path, "/operations/orders/add-shipping-address/"):
			cid := strings.TrimPrefix(path, "/operations/orders/add-shipping-address/")
			var input AddressInput
			_ = json.NewDecoder(r.Body).Decode(&input)
			created := Address{ID: "addr-new", Line1: input.Line1, City: input.City, State: input.State, Pincode: input.Pincode}
			f.mu.Lock()
			f.shipping[cid] = append(f.shipping[cid], created)
			f.mu.Unlock()
			writeData(w, http.StatusCreated, created)

		case strings.HasPrefix(path, "/operations/orders/get-billing-address/"):
			cid := strings.TrimPrefix(path, "/operations/orders/get-billing-address/")
			f.mu.Lock()
			list := f.billing[cid]
			f.mu.Unlock()
			writeData(w, http.StatusOK, list)

		case strings.HasPrefix(path, "/operations/orders/add-billing-address/"):
			cid := strings.TrimPrefix(path, "/operations/orders/add-billing-address/")
			var input AddressInput
			_ = json.NewDecoder(r.Body).Decode(&input)
			created := Address{ID: "addr-new-billing", Line1: input.Line1, City: input.City, State: input.State, Pincode: input.Pincode}
			f.mu.Lock()
			f.billing[cid] = append(f.billing[cid], created)
			f.mu.Unlock()
			writeData(w, http.StatusCreated, created)

		case path == "/operations/orders/time-slots/next-7-days":
			f.mu.Lock()
			list := f.slots
			f.mu.Unlock()
			writeData(w, http.StatusOK, list)

		case strings.HasPrefix(path, "/operations/orders/create-order/"):
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.createBody = body
			f.createPath = path
			status := f.createStatus
			resp := f.createResponse
			f.mu.Unlock()
			if status >= http.StatusBadRequest {
				writeMessage(w, status, "order creation failed")
				return
			}
			writeData(w, status, resp)

		case path == "/operations/orders/verify-placement-otp":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.verifyBodies = append(f.verifyBodies, body)
			status := f.verifyStatus
			msg := f.verifyMessage
			gate := f.verifyGate
			f.mu.Unlock()
			if gate != nil {
				<-gate
			}
			if status >= http.StatusBadRequest {
				writeMessage(w, status, msg)
				return
			}
			writeData(w, http.StatusOK, map[string]any{"status": "placed"})

		case path == "/operations/orders/resend-placement-otp":
			f.mu.Lock()
			f.resendCount++
			status := f.resendStatus
			msg := f.resendMessage
			f.mu.Unlock()
			if status >= http.StatusBadRequest {
				writeMessage(w, status, msg)
				return
			}
			writeData(w, http.StatusOK, map[string]any{})

		default:
			writeMessage(w, http.StatusNotFound, "no such endpoint")
		}
	})
}

func seedFakeAPI(f *fakeAPI) {
	f.customers = []Customer{
		{ID: "C1", BusinessName: "Highway Fuels", ContactName: "Asha", Email: "asha@highwayfuels.example", Phone: "+911234567890"},
		{ID: "C2", BusinessName: "Transporters Co", ContactName: "Ravi", Email: "ravi@transporters.example", Phone: "+919999999999"},
	}
	f.products["C1"] = []Product{
		{ID: "P1", Name: "High Speed Diesel", Unit: "litre", UnitPrice: decimal.RequireFromString("89.50"), TaxRate: decimal.RequireFromString("18")},
	}
	f.products["C2"] = []Product{
		{ID: "P9", Name: "Petrol", Unit: "litre", UnitPrice: decimal.RequireFromString("102.00"), TaxRate: decimal.RequireFromString("18")},
	}
	f.shipping["C1"] = []Address{{ID: "A1", Line1: "12 Tank Farm Road", City: "Pune", State: "Maharashtra", Pincode: "411001"}, {ID: "A2", Line1: "44 Depot Lane", City: "Pune", State: "Maharashtra", Pincode: "411002"}}
	f.billing["C1"] = []Address{{ID: "B1", Line1: "HQ Block A", City: "Pune", State: "Maharashtra", Pincode: "411001"}}
	f.slots = []DaySlots{{Date: "2026-08-29", Slots: []Slot{{ID: "S1", Label: "06:00-09:00", Remaining: 4}}}}
	f.createResponse = PendingOrder{OrderID: "O1", PhoneNumber: "+911234567890"}
}

func newTestLauncher(t *testing.T, f *fakeAPI, refresh func()) (*Launcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-token", nil)
	require.NoError(t, err)

	launcher, err := NewLauncher(client, refresh, nil)
	require.NoError(t, err)
	return launcher, srv
}
