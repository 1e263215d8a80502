package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PlacementMetrics records order placement and OTP verification activity.
type PlacementMetrics struct {
	ordersCreated *prometheus.CounterVec
	ordersPlaced  *prometheus.CounterVec
	otpVerified   prometheus.Counter
	otpRejected   *prometheus.CounterVec
	otpResent     prometheus.Counter
	verifyLatency prometheus.Histogram
}

// NewPlacementMetrics registers the placement metrics on the provided registerer.
func NewPlacementMetrics(reg prometheus.Registerer) *PlacementMetrics {
	if reg == nil {
		return &PlacementMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Draft orders created, pending OTP verification.",
	}, []string{"payment_method"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders confirmed through OTP verification.",
	}, []string{"payment_method"})
	otpVerified := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "otp_verified_total",
		Help: "Successful placement code verifications.",
	})
	otpRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_rejected_total",
		Help: "Rejected placement code attempts.",
	}, []string{"reason"})
	otpResent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "otp_resent_total",
		Help: "Placement codes reissued on customer request.",
	})
	verifyLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "otp_verify_duration_seconds",
		Help:    "Duration of placement code verification in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(ordersCreated, ordersPlaced, otpVerified, otpRejected, otpResent, verifyLatency)
	return &PlacementMetrics{
		ordersCreated: ordersCreated,
		ordersPlaced:  ordersPlaced,
		otpVerified:   otpVerified,
		otpRejected:   otpRejected,
		otpResent:     otpResent,
		verifyLatency: verifyLatency,
	}
}

// IncOrderCreated increments the draft order counter for the payment method.
func (p *PlacementMetrics) IncOrderCreated(method string) {
	if p == nil || p.ordersCreated == nil {
		return
	}
	p.ordersCreated.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncOrderPlaced increments the placed order counter for the payment method.
func (p *PlacementMetrics) IncOrderPlaced(method string) {
	if p == nil || p.ordersPlaced == nil {
		return
	}
	p.ordersPlaced.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncOTPVerified increments the successful verification counter.
func (p *PlacementMetrics) IncOTPVerified() {
	if p == nil || p.otpVerified == nil {
		return
	}
	p.otpVerified.Inc()
}

// IncOTPRejected increments the rejection counter with the given reason.
func (p *PlacementMetrics) IncOTPRejected(reason string) {
	if p == nil || p.otpRejected == nil {
		return
	}
	p.otpRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncOTPResent increments the resend counter.
func (p *PlacementMetrics) IncOTPResent() {
	if p == nil || p.otpResent == nil {
		return
	}
	p.otpResent.Inc()
}

// ObserveVerifyDuration records how long a verification took end to end.
func (p *PlacementMetrics) ObserveVerifyDuration(duration time.Duration) {
	if p == nil || p.verifyLatency == nil {
		return
	}
	p.verifyLatency.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
