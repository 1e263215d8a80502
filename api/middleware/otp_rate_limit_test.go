package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLimiterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (s *memLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters == nil {
		s.counters = map[string]int64{}
	}
	s.counters[key]++
	return s.counters[key], nil
}

func otpTestRouter(policy OTPRateLimitPolicy, store rateLimiterStore) (http.Handler, *string) {
	var seenBody string
	r := chi.NewRouter()
	r.With(OTPRateLimit(policy, store, nil)).Post("/verify-placement-otp", func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		seenBody = string(raw)
		w.WriteHeader(http.StatusNoContent)
	})
	return r, &seenBody
}

func verifyRequest(orderID string) *http.Request {
	body := `{"orderId":"` + orderID + `","placementOtp":"1234"}`
	req := httptest.NewRequest(http.MethodPost, "/verify-placement-otp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestOTPRateLimitPerOrder(t *testing.T) {
	store := &memLimiterStore{}
	policy := NewOTPRateLimitPolicy("verify", time.Minute, 0, 3)
	router, seenBody := otpTestRouter(policy, store)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, verifyRequest("ord-1"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	// The handler still reads the full body after the limiter consumed it.
	require.Contains(t, *seenBody, "ord-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, verifyRequest("ord-1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different order has its own counter.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, verifyRequest("ord-2"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOTPRateLimitPerIP(t *testing.T) {
	store := &memLimiterStore{}
	policy := NewOTPRateLimitPolicy("verify", time.Minute, 2, 0)
	router, _ := otpTestRouter(policy, store)

	for i := 0; i < 2; i++ {
		req := verifyRequest("ord-1")
		req.Header.Set("X-Forwarded-For", "10.1.2.3")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	req := verifyRequest("ord-1")
	req.Header.Set("X-Forwarded-For", "10.1.2.3")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	req = verifyRequest("ord-1")
	req.Header.Set("X-Forwarded-For", "10.9.9.9")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOTPRateLimitSkipsUnparseableBody(t *testing.T) {
	store := &memLimiterStore{}
	policy := NewOTPRateLimitPolicy("verify", time.Minute, 0, 1)
	router, _ := otpTestRouter(policy, store)

	// No order id to key on, so the per-order counter never trips.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/verify-placement-otp", strings.NewReader("not-json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestOTPRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	router, _ := otpTestRouter(OTPRateLimitPolicy{}, &memLimiterStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, verifyRequest("ord-1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
