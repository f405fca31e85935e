// Package omega provides C6, the Connection facade: the single type
// application code constructs to talk to one Omega gateway endpoint. It
// wires together transport.Endpoint, session.Manager, messaging/sender.Sender,
// and messaging/dispatch.Dispatcher, mirroring the way franz-go's Client
// (pkg/kgo) is the one type users construct even though it's backed by
// several internal pieces (brokers, sinks, sources).
package omega

import (
	"context"
	"sync"

	"github.com/fund3/omega-client/config"
	omegaerrors "github.com/fund3/omega-client/errors"
	"github.com/fund3/omega-client/messaging/dispatch"
	"github.com/fund3/omega-client/messaging/sender"
	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/session"
	"github.com/fund3/omega-client/transport"
)

// Connection is the top-level client: one transport endpoint, one session,
// one sender, one dispatcher.
type Connection struct {
	cfg        *config.Config
	endpoint   *transport.Endpoint
	sessionMgr *session.Manager
	sender     *sender.Sender
	dispatcher *dispatch.Dispatcher

	mu      sync.Mutex
	started bool
}

// New builds a Connection without starting it. Call Start to dial the
// transport and begin running.
func New(cfg *config.Config, handler dispatch.Handler) *Connection {
	if handler == nil {
		handler = dispatch.NoopHandler{}
	}

	ep := transport.New(cfg.Endpoint, cfg.ServerPublicKey, cfg.PollInterval, cfg.OutboundQueueBound, cfg.Logger)
	sessionMgr := session.New(cfg.RefreshSafetyFrac, cfg.Logger)
	snd := sender.New(ep, sessionMgr, cfg.Logger, cfg.ClientID, cfg.SenderCompID)
	sessionMgr.SetRequester(snd)
	d := dispatch.New(handler, sessionMgr, cfg.Logger)
	ep.SetInboundSink(d.Dispatch)

	return &Connection{cfg: cfg, endpoint: ep, sessionMgr: sessionMgr, sender: snd, dispatcher: d}
}

// Connect is a convenience constructor: builds a Connection and starts it
// in one call.
func Connect(ctx context.Context, cfg *config.Config, handler dispatch.Handler) (*Connection, error) {
	c := New(cfg, handler)
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Start dials the transport endpoint. The session remains LOGGED_OUT until
// Logon is called.
func (c *Connection) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return &omegaerrors.TransportError{Endpoint: c.cfg.Endpoint, Cause: errAlreadyRunning}
	}
	if err := c.endpoint.Start(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}

// WaitUntilRunning blocks until the transport reports StateRunning or ctx
// is done. Useful in tests and demos that want to avoid racing Logon
// against Start.
func (c *Connection) WaitUntilRunning(ctx context.Context) error {
	for {
		if c.endpoint.IsRunning() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Stop halts the transport endpoint's goroutines and closes its socket.
// The session state is left as-is; call Logoff first for a clean shutdown.
func (c *Connection) Stop() {
	c.endpoint.Stop()
}

// Cleanup releases resources retained after Stop.
func (c *Connection) Cleanup() {
	c.endpoint.Cleanup()
	c.sessionMgr.Close()
}

// SessionState reports the current session state.
func (c *Connection) SessionState() session.State { return c.sessionMgr.State() }

// The following methods forward directly to the Sender; see
// messaging/sender.Sender for the per-operation documentation.

func (c *Connection) Logon(clientSecret string, credentials []wiretypes.AccountCredentials) (wiretypes.Envelope, error) {
	return c.sender.Logon(clientSecret, credentials)
}

func (c *Connection) Logoff() (wiretypes.Envelope, error) { return c.sender.Logoff() }

func (c *Connection) Heartbeat() (wiretypes.Envelope, error) { return c.sender.Heartbeat() }

func (c *Connection) ServerTimeRequest() (wiretypes.Envelope, error) {
	return c.sender.ServerTimeRequest()
}

func (c *Connection) PlaceOrder(order wiretypes.Order) (wiretypes.Envelope, error) {
	return c.sender.PlaceOrder(order)
}

func (c *Connection) ReplaceOrder(body wiretypes.ReplaceOrderBody) (wiretypes.Envelope, error) {
	return c.sender.ReplaceOrder(body)
}

func (c *Connection) CancelOrder(accountInfo wiretypes.AccountInfo, orderID string) (wiretypes.Envelope, error) {
	return c.sender.CancelOrder(accountInfo, orderID)
}

func (c *Connection) CancelAllOrders(accountInfo wiretypes.AccountInfo, symbol string, side wiretypes.Side) (wiretypes.Envelope, error) {
	return c.sender.CancelAllOrders(accountInfo, symbol, side)
}

func (c *Connection) AccountDataRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	return c.sender.AccountDataRequest(accountInfo)
}

func (c *Connection) AccountBalancesRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	return c.sender.AccountBalancesRequest(accountInfo)
}

func (c *Connection) OpenPositionsRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	return c.sender.OpenPositionsRequest(accountInfo)
}

func (c *Connection) WorkingOrdersRequest(accountInfo wiretypes.AccountInfo) (wiretypes.Envelope, error) {
	return c.sender.WorkingOrdersRequest(accountInfo)
}

func (c *Connection) OrderStatusRequest(accountInfo wiretypes.AccountInfo, orderID string) (wiretypes.Envelope, error) {
	return c.sender.OrderStatusRequest(accountInfo, orderID)
}

func (c *Connection) CompletedOrdersRequest(accountInfo wiretypes.AccountInfo, count *int32, since *float64) (wiretypes.Envelope, error) {
	return c.sender.CompletedOrdersRequest(accountInfo, count, since)
}

func (c *Connection) ExchangePropertiesRequest(exchange wiretypes.Exchange) (wiretypes.Envelope, error) {
	return c.sender.ExchangePropertiesRequest(exchange)
}

func (c *Connection) PlaceContingentOrder(co wiretypes.ContingentOrder) (wiretypes.Envelope, error) {
	return c.sender.PlaceContingentOrder(co)
}

func (c *Connection) TestMessage(payload string) (wiretypes.Envelope, error) {
	return c.sender.TestMessage(payload)
}
