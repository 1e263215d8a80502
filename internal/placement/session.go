package placement

import (
	"context"
	"errors"
	"sync"

	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// SessionState is the launcher's tagged union over the modal chain. At most
// one wizard and one verifier exist at a time.
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionWizardOpen
	SessionVerifyingOpen
)

func (s SessionState) String() string {
	switch s {
	case SessionClosed:
		return "closed"
	case SessionWizardOpen:
		return "wizard_open"
	case SessionVerifyingOpen:
		return "verifying_open"
	default:
		return "unknown"
	}
}

// Launcher opens placement sessions and keeps the surrounding order list
// fresh. The refresh callback fires on every session close, whether or not
// an order was actually placed.
type Launcher struct {
	client  *Client
	logg    *logger.Logger
	refresh func()

	mu       sync.Mutex
	state    SessionState
	wizard   *Wizard
	verifier *Verifier
}

// NewLauncher wires a launcher to the placement API. A nil refresh callback
// is tolerated; the miss is logged when a session closes.
func NewLauncher(client *Client, refresh func(), logg *logger.Logger) (*Launcher, error) {
	if client == nil {
		return nil, errors.New("placement client required")
	}
	return &Launcher{
		client:  client,
		logg:    logg,
		refresh: refresh,
		state:   SessionClosed,
	}, nil
}

// State reports the session position.
func (l *Launcher) State() SessionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Wizard returns the open wizard, if any.
func (l *Launcher) Wizard() *Wizard {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wizard
}

// Verifier returns the open verifier, if any.
func (l *Launcher) Verifier() *Verifier {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verifier
}

// OpenWizard starts a new placement session and fetches the approved
// customers for the first stage.
func (l *Launcher) OpenWizard(ctx context.Context) (*Wizard, error) {
	l.mu.Lock()
	if l.state != SessionClosed {
		state := l.state
		l.mu.Unlock()
		return nil, errors.New("a placement session is already open: " + state.String())
	}

	w := newWizard(l.client, l.logg, l.wizardSubmitted, l.wizardClosed)
	l.wizard = w
	l.state = SessionWizardOpen
	l.mu.Unlock()

	w.loadCustomers(ctx)
	return w, nil
}

// wizardSubmitted swaps the wizard for a verifier holding the pending order.
func (l *Launcher) wizardSubmitted(pending PendingOrder) *Verifier {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := newVerifier(l.client, l.logg, pending, l.verifierCompleted, l.verifierClosed)
	l.wizard = nil
	l.verifier = v
	l.state = SessionVerifyingOpen
	return v
}

// wizardClosed ends the session when the wizard is abandoned.
func (l *Launcher) wizardClosed() {
	l.mu.Lock()
	l.wizard = nil
	l.state = SessionClosed
	l.mu.Unlock()
	l.fireRefresh()
}

// verifierCompleted ends the session after a successful verification.
func (l *Launcher) verifierCompleted() {
	l.mu.Lock()
	l.verifier = nil
	l.state = SessionClosed
	l.mu.Unlock()
	l.fireRefresh()
}

// verifierClosed ends the session when the verifier is dismissed.
func (l *Launcher) verifierClosed() {
	l.mu.Lock()
	l.verifier = nil
	l.state = SessionClosed
	l.mu.Unlock()
	l.fireRefresh()
}

func (l *Launcher) fireRefresh() {
	if l.refresh == nil {
		if l.logg != nil {
			l.logg.Warn(context.Background(), "launcher.refresh_callback_missing")
		}
		return
	}
	l.refresh()
}
