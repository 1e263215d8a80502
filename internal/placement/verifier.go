package placement

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// VerifyState is the verifier's lifecycle position.
type VerifyState int

const (
	StateEnteringCode VerifyState = iota
	StateVerifying
	StateVerified
)

func (s VerifyState) String() string {
	switch s {
	case StateEnteringCode:
		return "entering_code"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// Severity tags the last message shown next to the code input.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is the last user-visible status line.
type Message struct {
	Text     string
	Severity Severity
}

const (
	resendCooldownSeconds = 30
	invalidCodeMessage    = "please enter a valid 4-digit OTP"
	genericVerifyFailure  = "verification failed, please try again"
	genericResendFailure  = "could not resend the code, please try again"
	resendSuccessMessage  = "a fresh code has been sent"
)

var codeRe = regexp.MustCompile(`^[0-9]{4}$`)

// Verifier drives the placement-code confirmation for one pending order.
type Verifier struct {
	client  *Client
	logg    *logger.Logger
	pending PendingOrder

	onComplete func()
	onClose    func()

	// tickEvery and successDisplay are fixed in production and shortened
	// by tests.
	tickEvery      time.Duration
	successDisplay time.Duration

	mu       sync.Mutex
	state    VerifyState
	message  Message
	cooldown int
	stop     chan struct{}
}

func newVerifier(client *Client, logg *logger.Logger, pending PendingOrder, onComplete, onClose func()) *Verifier {
	return &Verifier{
		client:         client,
		logg:           logg,
		pending:        pending,
		onComplete:     onComplete,
		onClose:        onClose,
		tickEvery:      time.Second,
		successDisplay: 2 * time.Second,
		state:          StateEnteringCode,
	}
}

// PendingOrder returns the order handle under verification.
func (v *Verifier) PendingOrder() PendingOrder {
	return v.pending
}

// PhoneNumber returns the number the code was dispatched to.
func (v *Verifier) PhoneNumber() string {
	return v.pending.PhoneNumber
}

// State reports the verifier's lifecycle position.
func (v *Verifier) State() VerifyState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// LastMessage returns the last status line.
func (v *Verifier) LastMessage() Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

// Cooldown reports the seconds until resend is allowed again.
func (v *Verifier) Cooldown() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cooldown
}

// CanResend reports whether the resend action is enabled.
func (v *Verifier) CanResend() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cooldown == 0 && v.state == StateEnteringCode
}

// SubmitCode verifies the code the customer read back. Codes that are not
// exactly four digits are rejected before any network call.
func (v *Verifier) SubmitCode(ctx context.Context, code string) error {
	if !codeRe.MatchString(code) {
		v.setMessage(invalidCodeMessage, SeverityError)
		return errors.New(invalidCodeMessage)
	}

	v.mu.Lock()
	if v.state != StateEnteringCode {
		state := v.state
		v.mu.Unlock()
		return errors.New("verification already " + state.String())
	}
	v.state = StateVerifying
	v.mu.Unlock()

	err := v.client.VerifyPlacementOTP(ctx, v.pending.OrderID, code)
	if err != nil {
		msg := genericVerifyFailure
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		v.mu.Lock()
		v.state = StateEnteringCode
		v.message = Message{Text: msg, Severity: SeverityError}
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.state = StateVerified
	v.message = Message{Text: "order placed", Severity: SeveritySuccess}
	v.stopCooldownLocked()
	v.mu.Unlock()

	if v.logg != nil {
		v.logg.Info(v.logg.WithOrderID(ctx, v.pending.OrderID), "placement.verified")
	}

	// Hold the success indicator briefly before handing control back.
	go func() {
		time.Sleep(v.successDisplay)
		if v.onComplete != nil {
			v.onComplete()
		}
	}()
	return nil
}

// Resend asks for a fresh code. A success starts (or restarts) the cooldown;
// a failure leaves any running cooldown untouched.
func (v *Verifier) Resend(ctx context.Context) error {
	err := v.client.ResendPlacementOTP(ctx, v.pending.OrderID)
	if err != nil {
		msg := genericResendFailure
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		v.setMessage(msg, SeverityError)
		return err
	}

	v.setMessage(resendSuccessMessage, SeveritySuccess)
	v.startCooldown(resendCooldownSeconds)
	return nil
}

// Close dismisses the verifier. It is a no-op while a verification is in
// flight or has succeeded.
func (v *Verifier) Close() bool {
	v.mu.Lock()
	if v.state == StateVerifying || v.state == StateVerified {
		v.mu.Unlock()
		return false
	}
	v.stopCooldownLocked()
	v.cooldown = 0
	v.message = Message{}
	v.mu.Unlock()

	if v.onClose != nil {
		v.onClose()
	}
	return true
}

func (v *Verifier) setMessage(text string, severity Severity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = Message{Text: text, Severity: severity}
}

// startCooldown replaces any running countdown with a fresh one. Exactly one
// ticker goroutine exists at a time.
func (v *Verifier) startCooldown(seconds int) {
	v.mu.Lock()
	v.stopCooldownLocked()
	stop := make(chan struct{})
	v.stop = stop
	v.cooldown = seconds
	tick := v.tickEvery
	v.mu.Unlock()

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				v.mu.Lock()
				if v.stop != stop {
					v.mu.Unlock()
					return
				}
				v.cooldown--
				done := v.cooldown <= 0
				if done {
					v.cooldown = 0
					v.stop = nil
				}
				v.mu.Unlock()
				if done {
					return
				}
			}
		}
	}()
}

func (v *Verifier) stopCooldownLocked() {
	if v.stop != nil {
		close(v.stop)
		v.stop = nil
	}
}
