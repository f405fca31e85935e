package sender_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fund3/omega-client/messaging/codec"
	"github.com/fund3/omega-client/messaging/sender"
	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/session"
)

type stubEndpoint struct {
	mu   sync.Mutex
	sent [][]byte
}

func (e *stubEndpoint) Enqueue(raw []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, raw)
	return nil
}

func (e *stubEndpoint) last() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sent[len(e.sent)-1]
}

func authorize(t *testing.T, mgr *session.Manager) {
	t.Helper()
	require.NoError(t, mgr.BeginLogon())
	require.NoError(t, mgr.OnLogonAck(wiretypes.LogonAck{
		Success: true,
		Grant:   &wiretypes.AuthorizationGrant{AccessToken: "tok-1", RefreshToken: "refresh-1", ExpiresIn: 3600},
	}))
}

func TestLogonStampsEmptyAccessTokenAfterPriorSession(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")

	authorize(t, mgr)
	mgr.Logout() // back to LOGGED_OUT so BeginLogon succeeds again

	_, err := s.Logon("secret", nil)
	require.NoError(t, err)

	env, err := codec.Parse(ep.last())
	require.NoError(t, err)
	assert.Equal(t, "", env.Header.AccessToken)
}

func TestPlaceOrderStampsCurrentAccessToken(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")
	authorize(t, mgr)

	_, err := s.PlaceOrder(wiretypes.Order{Symbol: "BTC-USD", Side: wiretypes.SideBuy, OrderType: wiretypes.OrderTypeMarket, TimeInForce: wiretypes.TimeInForceIOC})
	require.NoError(t, err)

	env, err := codec.Parse(ep.last())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", env.Header.AccessToken)
	assert.Equal(t, wiretypes.KindPlaceOrder, env.Kind)
}

func TestOrderMethodsSendRegardlessOfSessionState(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")

	_, err := s.PlaceOrder(wiretypes.Order{})
	assert.NoError(t, err)

	env, err := codec.Parse(ep.last())
	require.NoError(t, err)
	assert.Equal(t, wiretypes.KindPlaceOrder, env.Kind)
}

func TestLogoffWhileLoggedOutIsSilentNoOp(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")

	env, err := s.Logoff()
	assert.NoError(t, err)
	assert.Equal(t, wiretypes.Envelope{}, env)
	assert.Empty(t, ep.sent)
}

func TestLogonWhileAuthorizingIsSilentNoOp(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")

	require.NoError(t, mgr.BeginLogon())
	env, err := s.Logon("secret", nil)
	assert.NoError(t, err)
	assert.Equal(t, wiretypes.Envelope{}, env)
	assert.Empty(t, ep.sent)
}

func TestHeartbeatAllowedWithoutAuthorization(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")

	_, err := s.Heartbeat()
	assert.NoError(t, err)
}

func TestRequestIDsIncreaseMonotonically(t *testing.T) {
	ep := &stubEndpoint{}
	mgr := session.New(0.75, nil)
	s := sender.New(ep, mgr, nil, 1, "machine-1")

	env1, _ := s.Heartbeat()
	env2, _ := s.Heartbeat()
	assert.Less(t, env1.Header.RequestID, env2.Header.RequestID)
}
