// Package sender implements C3, the Request Sender: one method per wire
// operation, each building an Envelope via messaging/codec, stamping the
// current access token from session.Manager, and enqueueing the result on
// a transport.Endpoint. Every method returns the built Envelope
// synchronously as a structural echo (spec.md §4.3/§9); it does not mean a
// reply has arrived.
//
// C3 is a stateless facade modulo the access token (spec.md §2): only
// Logon and Logoff consult session state, and an illegal transition there
// is a silent no-op (spec.md §4.5/§7), not a returned error. Every other
// method sends regardless of session state; Omega itself is the authority
// on whether a given request is meaningful in the caller's current state.
package sender

import (
	"sync/atomic"

	"github.com/fund3/omega-client/logging"
	"github.com/fund3/omega-client/messaging/codec"
	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/session"
)

// endpoint is the subset of transport.Endpoint the Sender needs, kept as
// an interface so sender tests can stub it out without a live ZMQ socket.
type endpoint interface {
	Enqueue(raw []byte) error
}

// Sender is the concrete RequestSender. It implements
// session.RefreshRequester so the Manager can send refresh requests
// through it without sender importing session's internals.
type Sender struct {
	ep           endpoint
	sessionMgr   *session.Manager
	logger       logging.Logger
	clientID     int64
	senderCompID string
	nextRequest  int64
}

func New(ep endpoint, sessionMgr *session.Manager, logger logging.Logger, clientID int64, senderCompID string) *Sender {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Sender{ep: ep, sessionMgr: sessionMgr, logger: logger, clientID: clientID, senderCompID: senderCompID}
}

func (s *Sender) nextRequestID() int64 {
	return atomic.AddInt64(&s.nextRequest, 1)
}

// header builds the header stamped on every outbound message. bypassToken
// is true only for Logon, whose header always carries an empty access token
// rather than the session's current one.
func (s *Sender) header(bypassToken bool) wiretypes.RequestHeader {
	accessToken := ""
	if !bypassToken {
		accessToken = s.sessionMgr.AccessToken()
	}
	return wiretypes.RequestHeader{
		ClientID:     s.clientID,
		SenderCompID: s.senderCompID,
		AccessToken:  accessToken,
		RequestID:    s.nextRequestID(),
	}
}

func (s *Sender) send(raw []byte) error {
	if err := s.ep.Enqueue(raw); err != nil {
		return err
	}
	return nil
}

// Logon begins a logon attempt. If the session is not currently LOGGED_OUT
// (a logon already in flight, or already authorized), this is a silent
// no-op per spec.md §4.5/§7: nothing is sent and no error is returned.
func (s *Sender) Logon(clientSecret string, credentials []wiretypes.AccountCredentials) (wiretypes.Envelope, error) {
	if err := s.sessionMgr.BeginLogon(); err != nil {
		s.logger.Log(logging.LogLevelWarn, "logon requested in illegal state, ignoring", "err", err)
		return wiretypes.Envelope{}, nil
	}
	raw, env := codec.BuildLogon(s.header(true), clientSecret, credentials)
	if err := s.send(raw); err != nil {
		return wiretypes.Envelope{}, err
	}
	return env, nil
}

// Logoff requests logoff. If the session isn't currently AUTHORIZED, this
// is a silent no-op per spec.md §4.5/§7.
func (s *Sender) Logoff() (wiretypes.Envelope, error) {
	if s.sessionMgr.State() != session.StateAuthorized {
		s.logger.Log(logging.LogLevelWarn, "logoff requested in illegal state, ignoring", "state", s.sessionMgr.State())
		return wiretypes.Envelope{}, nil
	}
	raw, env := codec.BuildLogoff(s.header(false))
	return env, s.send(raw)
}

func (s *Sender) Heartbeat() (wiretypes.Envelope, error) {
	raw, env := codec.BuildHeartbeat(s.header(false))
	return env, s.send(raw)
}

func (s *Sender) ServerTimeRequest() (wiretypes.Envelope, error) {
	raw, env := codec.BuildServerTimeRequest(s.header(false))
	return env, s.send(raw)
}

func (s *Sender) PlaceOrder(order wiretypes.Order) (wiretypes.Envelope, error) {
	raw, env := codec.BuildPlaceOrder(s.header(false), order)
	return env, s.send(raw)
}

func (s *Sender) ReplaceOrder(body wiretypes.ReplaceOrderBody) (wiretypes.Envelope, error) {
	raw, env := codec.BuildReplaceOrder(s.header(false), body)
	return env, s.send(raw)
}

func (s *Sender) CancelOrder(accountInfo wiretypes.AccountInfo, orderID string) (wiretypes.Envelope, error) {
	raw, env := codec.BuildCancelOrder(s.header(false), accountInfo, orderID)
	return env, s.send(raw)
}

func (s *Sender) CancelAllOrders(accountInfo wiretypes.AccountInfo, symbol string, side wiretypes.Side) (wiretypes.Envelope, error) {
	raw, env := codec.BuildCancelAllOrders(s.header(false), accountInfo, symbol, side)
	return env, s.send(raw)
}

func (s *Sender) AccountDataRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	raw, env := codec.BuildAccountDataRequest(s.header(false), accountInfo)
	return env, s.send(raw)
}

func (s *Sender) AccountBalancesRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	raw, env := codec.BuildAccountBalancesRequest(s.header(false), accountInfo)
	return env, s.send(raw)
}

func (s *Sender) OpenPositionsRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	raw, env := codec.BuildOpenPositionsRequest(s.header(false), accountInfo)
	return env, s.send(raw)
}

func (s *Sender) WorkingOrdersRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	raw, env := codec.BuildWorkingOrdersRequest(s.header(false), accountInfo)
	return env, s.send(raw)
}

func (s *Sender) OrderStatusRequest(accountInfo wiretypes.AccountInfo, orderID string) (wiretypes.Envelope, error) {
	raw, env := codec.BuildOrderStatusRequest(s.header(false), accountInfo, orderID)
	return env, s.send(raw)
}

func (s *Sender) CompletedOrdersRequest(accountInfo wiretypes.AccountInfo, count *int32, since *float64) (wiretypes.Envelope, error) {
	raw, env := codec.BuildCompletedOrdersRequest(s.header(false), accountInfo, count, since)
	return env, s.send(raw)
}

func (s *Sender) ExchangePropertiesRequest(exchange wiretypes.Exchange) (wiretypes.Envelope, error) {
	raw, env := codec.BuildExchangePropertiesRequest(s.header(false), exchange)
	return env, s.send(raw)
}

func (s *Sender) PlaceContingentOrder(co wiretypes.ContingentOrder) (wiretypes.Envelope, error) {
	raw, env, err := codec.BuildPlaceContingentOrder(s.header(false), co)
	if err != nil {
		return wiretypes.Envelope{}, err
	}
	return env, s.send(raw)
}

func (s *Sender) TestMessage(payload string) (wiretypes.Envelope, error) {
	raw, env := codec.BuildTestMessage(s.header(false), payload)
	return env, s.send(raw)
}

// SendAuthorizationRefresh implements session.RefreshRequester. It is
// called by the Manager's scheduled timer, not by application code
// directly, which is why it returns a plain error rather than an Envelope.
func (s *Sender) SendAuthorizationRefresh(refreshToken string) error {
	raw, _ := codec.BuildAuthorizationRefresh(s.header(false), refreshToken)
	return s.send(raw)
}
