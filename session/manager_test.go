package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/session"
)

type stubRequester struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *stubRequester) SendAuthorizationRefresh(refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, refreshToken)
	return s.err
}

func (s *stubRequester) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestLogonSuccessTransitionsToAuthorized(t *testing.T) {
	m := session.New(0.75, nil)
	require.NoError(t, m.BeginLogon())
	assert.Equal(t, session.StateAuthenticating, m.State())

	err := m.OnLogonAck(wiretypes.LogonAck{
		Success: true,
		Grant:   &wiretypes.AuthorizationGrant{AccessToken: "tok-1", RefreshToken: "refresh-1", ExpiresIn: 3600},
	})
	require.NoError(t, err)
	assert.Equal(t, session.StateAuthorized, m.State())
	assert.Equal(t, "tok-1", m.AccessToken())
}

func TestLogonRejectedReturnsToLoggedOut(t *testing.T) {
	m := session.New(0.75, nil)
	require.NoError(t, m.BeginLogon())

	err := m.OnLogonAck(wiretypes.LogonAck{Success: false, Message: "bad credentials"})
	require.Error(t, err)
	assert.Equal(t, session.StateLoggedOut, m.State())
	assert.Equal(t, "", m.AccessToken())
}

func TestBeginLogonRejectedWhenNotLoggedOut(t *testing.T) {
	m := session.New(0.75, nil)
	require.NoError(t, m.BeginLogon())
	err := m.BeginLogon()
	assert.Error(t, err)
}

func TestScheduledRefreshFiresNearExpiry(t *testing.T) {
	m := session.New(0.1, nil) // refresh at 10% of lifetime
	req := &stubRequester{}
	m.SetRequester(req)

	require.NoError(t, m.BeginLogon())
	require.NoError(t, m.OnLogonAck(wiretypes.LogonAck{
		Success: true,
		Grant:   &wiretypes.AuthorizationGrant{AccessToken: "tok-1", RefreshToken: "refresh-1", ExpiresIn: 0.5}, // 50ms safety window
	}))

	assert.Eventually(t, func() bool { return req.callCount() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, session.StateRefreshing, m.State())
}

func TestOnAuthorizationGrantReturnsToAuthorized(t *testing.T) {
	m := session.New(0.75, nil)
	req := &stubRequester{}
	m.SetRequester(req)
	require.NoError(t, m.BeginLogon())
	require.NoError(t, m.OnLogonAck(wiretypes.LogonAck{
		Success: true,
		Grant:   &wiretypes.AuthorizationGrant{AccessToken: "tok-1", RefreshToken: "refresh-1", ExpiresIn: 3600},
	}))
	require.NoError(t, m.BeginRefresh())
	assert.Equal(t, session.StateRefreshing, m.State())

	m.OnAuthorizationGrant(wiretypes.AuthorizationGrant{AccessToken: "tok-2", RefreshToken: "refresh-2", ExpiresIn: 3600})
	assert.Equal(t, session.StateAuthorized, m.State())
	assert.Equal(t, "tok-2", m.AccessToken())
}

func TestLogoutClearsTokenAndTimer(t *testing.T) {
	m := session.New(0.75, nil)
	require.NoError(t, m.BeginLogon())
	require.NoError(t, m.OnLogonAck(wiretypes.LogonAck{
		Success: true,
		Grant:   &wiretypes.AuthorizationGrant{AccessToken: "tok-1", ExpiresIn: 3600},
	}))
	m.Logout()
	assert.Equal(t, session.StateLoggedOut, m.State())
	assert.Equal(t, "", m.AccessToken())
}
