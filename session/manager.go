// Package session implements C5, the session state machine layered over a
// transport.Endpoint: LOGGED_OUT -> AUTHENTICATING -> AUTHORIZED ->
// REFRESHING -> LOGGED_OUT. It owns the single-writer/multi-reader access
// token slot that messaging/sender reads when stamping outbound headers.
//
// The refresh scheduling is grounded directly on franz-go's SASL
// reauthentication deadline: pkg/kgo/broker.go's brokerCxn.sasl() sets
// cxn.expiry = now + (lifetime - 1s) and reauthenticates when that deadline
// approaches. Here the safety margin is a configurable fraction of the
// grant's lifetime (RefreshSafetyFrac) rather than a flat second, since
// Omega access token lifetimes can range from seconds to hours.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	omegaerrors "github.com/fund3/omega-client/errors"
	"github.com/fund3/omega-client/logging"
	"github.com/fund3/omega-client/messaging/wiretypes"
)

// State is the session half of the duplex state machine (spec.md §5),
// orthogonal to transport.State.
type State int32

const (
	StateLoggedOut State = iota
	StateAuthenticating
	StateAuthorized
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "LOGGED_OUT"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateAuthorized:
		return "AUTHORIZED"
	case StateRefreshing:
		return "REFRESHING"
	default:
		return "UNKNOWN"
	}
}

// RefreshRequester sends an AuthorizationRefresh request on behalf of the
// Manager. messaging/sender.Sender implements this; it is expressed as an
// interface here to avoid an import cycle (sender needs to read the
// Manager's access token, so session cannot import sender back).
type RefreshRequester interface {
	SendAuthorizationRefresh(refreshToken string) error
}

// Manager tracks session state and the current access/refresh tokens for
// one Connection, and schedules the next refresh request as each
// AuthorizationGrant arrives.
type Manager struct {
	refreshSafetyFrac float64
	logger            logging.Logger

	state State32

	accessToken atomic.Value // string; written only by Manager, read by anyone

	mu           sync.Mutex
	refreshToken string
	timer        *time.Timer
	requester    RefreshRequester
	stopped      bool
}

// State32 is an atomically-accessed State, mirroring transport.State32.
type State32 struct{ v int32 }

func (s *State32) Load() State   { return State(atomic.LoadInt32(&s.v)) }
func (s *State32) Store(v State) { atomic.StoreInt32(&s.v, int32(v)) }

// New builds a Manager. SetRequester must be called before any grant
// arrives, since the refresh scheduling needs somewhere to send the
// refresh request.
func New(refreshSafetyFrac float64, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	m := &Manager{refreshSafetyFrac: refreshSafetyFrac, logger: logger}
	m.accessToken.Store("")
	return m
}

// SetRequester installs the RefreshRequester used for scheduled refreshes.
func (m *Manager) SetRequester(r RefreshRequester) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requester = r
}

// AccessToken returns the current access token, or "" if logged out. Safe
// for concurrent use by any number of readers (messaging/sender calls this
// for every outbound non-logon message).
func (m *Manager) AccessToken() string {
	return m.accessToken.Load().(string)
}

// State returns the current session state.
func (m *Manager) State() State { return m.state.Load() }

// BeginLogon transitions LOGGED_OUT -> AUTHENTICATING. Returns a
// SessionError if a logon is already in flight or the session is already
// authorized.
func (m *Manager) BeginLogon() error {
	if m.state.Load() != StateLoggedOut {
		return &omegaerrors.SessionError{Reason: "logon attempted outside LOGGED_OUT state"}
	}
	m.state.Store(StateAuthenticating)
	return nil
}

// OnLogonAck applies the gateway's response to a logon attempt. A
// successful ack with a Grant transitions to AUTHORIZED and schedules the
// first refresh; a failed ack (or a success with no Grant, which the wire
// format treats as malformed) returns to LOGGED_OUT.
func (m *Manager) OnLogonAck(ack wiretypes.LogonAck) error {
	if !ack.Success || ack.Grant == nil {
		m.state.Store(StateLoggedOut)
		m.accessToken.Store("")
		return &omegaerrors.SessionError{Reason: "logon rejected: " + ack.Message}
	}
	m.applyGrant(*ack.Grant)
	m.state.Store(StateAuthorized)
	return nil
}

// BeginRefresh transitions AUTHORIZED -> REFRESHING and sends the refresh
// request. Called both by the scheduled timer and by an explicit caller
// wanting to force an early refresh.
func (m *Manager) BeginRefresh() error {
	m.mu.Lock()
	refreshToken := m.refreshToken
	requester := m.requester
	m.mu.Unlock()

	if m.state.Load() != StateAuthorized {
		return &omegaerrors.SessionError{Reason: "refresh attempted outside AUTHORIZED state"}
	}
	if requester == nil {
		return &omegaerrors.SessionError{Reason: "no refresh requester configured"}
	}
	m.state.Store(StateRefreshing)
	if err := requester.SendAuthorizationRefresh(refreshToken); err != nil {
		// Stay authorized on a failed send: the old token is still valid
		// until it actually expires, so don't strand the session.
		m.state.Store(StateAuthorized)
		return &omegaerrors.SessionError{Reason: "failed to send authorization refresh", Cause: err}
	}
	return nil
}

// OnAuthorizationGrant applies a fresh grant received either as the reply
// to BeginRefresh or unsolicited, and reschedules the next refresh.
func (m *Manager) OnAuthorizationGrant(grant wiretypes.AuthorizationGrant) {
	m.applyGrant(grant)
	m.state.Store(StateAuthorized)
}

// Logout transitions to LOGGED_OUT and stops any pending refresh timer.
func (m *Manager) Logout() {
	m.state.Store(StateLoggedOut)
	m.accessToken.Store("")
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.refreshToken = ""
	m.mu.Unlock()
}

// Close stops the refresh timer permanently; no further scheduling occurs
// after this call.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) applyGrant(grant wiretypes.AuthorizationGrant) {
	m.accessToken.Store(grant.AccessToken)

	m.mu.Lock()
	defer m.mu.Unlock()
	if grant.RefreshToken != "" {
		m.refreshToken = grant.RefreshToken
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	if m.stopped || grant.ExpiresIn <= 0 {
		return
	}
	delay := time.Duration(grant.ExpiresIn * m.refreshSafetyFrac * float64(time.Second))
	m.logger.Log(logging.LogLevelDebug, "scheduling access token refresh", "delay", delay)
	m.timer = time.AfterFunc(delay, func() {
		if err := m.BeginRefresh(); err != nil {
			m.logger.Log(logging.LogLevelWarn, "scheduled refresh failed", "err", err)
		}
	})
}
