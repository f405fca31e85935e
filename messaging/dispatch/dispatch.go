// Package dispatch implements C4, the Response Receiver/Dispatcher: it
// parses raw inbound frames via messaging/codec and routes each decoded
// Envelope to one method of a Handler, the capability-interface-of-
// callbacks pattern replacing the source's duck-typed handler object.
package dispatch

import (
	omegaerrors "github.com/fund3/omega-client/errors"
	"github.com/fund3/omega-client/logging"
	"github.com/fund3/omega-client/messaging/codec"
	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/session"
)

// Handler receives one callback per inbound message variant.
type Handler interface {
	OnLogonAck(wiretypes.LogonAck)
	OnLogoffAck(wiretypes.LogoffAck)
	OnAuthorizationGrant(wiretypes.AuthorizationGrant)
	OnSystemNotification(wiretypes.SystemNotification)
	OnTestReply(wiretypes.TestReply)
	OnHeartbeat()
	OnExecutionReport(wiretypes.ExecutionReport)
	OnOrderStatusReport(wiretypes.OrderStatusReport)
	OnWorkingOrdersReport(wiretypes.WorkingOrdersReport)
	OnCompletedOrdersReport(wiretypes.CompletedOrdersReport)
	OnOpenPositionsReport(wiretypes.OpenPositionsReport)
	OnAccountBalancesReport(wiretypes.AccountBalancesReport)
	OnAccountDataReport(wiretypes.AccountDataReport)
	OnExchangePropertiesReport(wiretypes.ExchangePropertiesReport)
	// OnUnknownMessage is called when a frame decodes fine but carries a
	// kind tag this client's schema doesn't recognize.
	OnUnknownMessage(header wiretypes.RequestHeader)
	// OnProtocolError is called when a raw frame fails to parse; raw is
	// the undecodable frame, for logging or replay.
	OnProtocolError(raw []byte, err error)
}

// NoopHandler implements every Handler method as a no-op. Embed it in a
// concrete handler to override only the callbacks you care about.
type NoopHandler struct{}

func (NoopHandler) OnLogonAck(wiretypes.LogonAck)                                 {}
func (NoopHandler) OnLogoffAck(wiretypes.LogoffAck)                               {}
func (NoopHandler) OnAuthorizationGrant(wiretypes.AuthorizationGrant)             {}
func (NoopHandler) OnSystemNotification(wiretypes.SystemNotification)             {}
func (NoopHandler) OnTestReply(wiretypes.TestReply)                               {}
func (NoopHandler) OnHeartbeat()                                                  {}
func (NoopHandler) OnExecutionReport(wiretypes.ExecutionReport)                   {}
func (NoopHandler) OnOrderStatusReport(wiretypes.OrderStatusReport)               {}
func (NoopHandler) OnWorkingOrdersReport(wiretypes.WorkingOrdersReport)           {}
func (NoopHandler) OnCompletedOrdersReport(wiretypes.CompletedOrdersReport)       {}
func (NoopHandler) OnOpenPositionsReport(wiretypes.OpenPositionsReport)           {}
func (NoopHandler) OnAccountBalancesReport(wiretypes.AccountBalancesReport)       {}
func (NoopHandler) OnAccountDataReport(wiretypes.AccountDataReport)               {}
func (NoopHandler) OnExchangePropertiesReport(wiretypes.ExchangePropertiesReport) {}
func (NoopHandler) OnUnknownMessage(wiretypes.RequestHeader)                      {}
func (NoopHandler) OnProtocolError([]byte, error)                                 {}

// Dispatcher parses raw inbound frames and routes them to a Handler,
// intercepting session-relevant variants (LogonAck, AuthorizationGrant) to
// feed session.Manager before forwarding them to the Handler as well.
type Dispatcher struct {
	handler    Handler
	sessionMgr *session.Manager
	logger     logging.Logger
}

func New(handler Handler, sessionMgr *session.Manager, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{handler: handler, sessionMgr: sessionMgr, logger: logger}
}

// Dispatch decodes raw and routes it. It never panics: a decode failure is
// routed to Handler.OnProtocolError rather than propagated, so the
// transport's read loop can keep running (spec.md §4.4/§7).
func (d *Dispatcher) Dispatch(raw []byte) {
	env, err := codec.Parse(raw)
	if err != nil {
		d.logger.Log(logging.LogLevelWarn, "failed to parse inbound frame", "err", err)
		d.handler.OnProtocolError(raw, err)
		return
	}

	switch body := env.Body.(type) {
	case wiretypes.LogonAck:
		if sessErr := d.sessionMgr.OnLogonAck(body); sessErr != nil {
			d.logger.Log(logging.LogLevelWarn, "logon rejected", "err", sessErr)
		}
		d.handler.OnLogonAck(body)
	case wiretypes.LogoffAck:
		d.sessionMgr.Logout()
		d.handler.OnLogoffAck(body)
	case wiretypes.AuthorizationGrant:
		d.sessionMgr.OnAuthorizationGrant(body)
		d.handler.OnAuthorizationGrant(body)
	case wiretypes.SystemNotification:
		if body.Severity == "error" || body.Severity == "critical" {
			d.logger.Log(logging.LogLevelError, "server reported severe notification",
				"err", &omegaerrors.ServerError{Message: body.Message, Severity: body.Severity})
		}
		d.handler.OnSystemNotification(body)
	case wiretypes.TestReply:
		d.handler.OnTestReply(body)
	case wiretypes.HeartbeatBody:
		d.handler.OnHeartbeat()
	case wiretypes.ExecutionReport:
		if body.Status == wiretypes.OrderStatusRejected {
			d.logger.Log(logging.LogLevelWarn, "order rejected",
				"err", &omegaerrors.ServerError{Message: "order " + body.OrderID + " rejected", Severity: "rejected"})
		}
		d.handler.OnExecutionReport(body)
	case wiretypes.OrderStatusReport:
		d.handler.OnOrderStatusReport(body)
	case wiretypes.WorkingOrdersReport:
		d.handler.OnWorkingOrdersReport(body)
	case wiretypes.CompletedOrdersReport:
		d.handler.OnCompletedOrdersReport(body)
	case wiretypes.OpenPositionsReport:
		d.handler.OnOpenPositionsReport(body)
	case wiretypes.AccountBalancesReport:
		d.handler.OnAccountBalancesReport(body)
	case wiretypes.AccountDataReport:
		d.handler.OnAccountDataReport(body)
	case wiretypes.ExchangePropertiesReport:
		d.handler.OnExchangePropertiesReport(body)
	default:
		// codec.Parse returns a header-only Envelope (Body == nil) for any
		// kind tag it doesn't have a case for, rather than erroring — this
		// is that branch, not a parse failure.
		d.logger.Log(logging.LogLevelWarn, "unknown inbound kind", "kind", env.Kind)
		d.handler.OnUnknownMessage(env.Header)
	}
}
