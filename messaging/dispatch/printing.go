package dispatch

import (
	"github.com/fund3/omega-client/logging"
	"github.com/fund3/omega-client/messaging/wiretypes"
)

// PrintingHandler emits one structured log line per inbound message via the
// ambient logger, for cmd/omega-logon-demo and quick manual testing. Real
// integrations should embed NoopHandler and override only the callbacks
// they need.
type PrintingHandler struct {
	NoopHandler
	Logger logging.Logger
}

func (h PrintingHandler) logger() logging.Logger {
	if h.Logger == nil {
		return logging.Nop()
	}
	return h.Logger
}

func (h PrintingHandler) OnLogonAck(ack wiretypes.LogonAck) {
	h.logger().Log(logging.LogLevelInfo, "logonAck", "success", ack.Success, "message", ack.Message)
}

func (h PrintingHandler) OnLogoffAck(ack wiretypes.LogoffAck) {
	h.logger().Log(logging.LogLevelInfo, "logoffAck", "message", ack.Message)
}

func (h PrintingHandler) OnAuthorizationGrant(grant wiretypes.AuthorizationGrant) {
	h.logger().Log(logging.LogLevelInfo, "authorizationGrant", "expiresIn", grant.ExpiresIn)
}

func (h PrintingHandler) OnSystemNotification(n wiretypes.SystemNotification) {
	h.logger().Log(logging.LogLevelInfo, "systemNotification", "severity", n.Severity, "message", n.Message)
}

func (h PrintingHandler) OnTestReply(r wiretypes.TestReply) {
	h.logger().Log(logging.LogLevelInfo, "testReply", "payload", r.Payload)
}

func (h PrintingHandler) OnHeartbeat() {
	h.logger().Log(logging.LogLevelDebug, "heartbeat")
}

func (h PrintingHandler) OnExecutionReport(r wiretypes.ExecutionReport) {
	h.logger().Log(logging.LogLevelInfo, "executionReport", "order", r.OrderID, "status", r.Status, "filled", r.FilledQty)
}

func (h PrintingHandler) OnUnknownMessage(header wiretypes.RequestHeader) {
	h.logger().Log(logging.LogLevelWarn, "unknownMessage", "requestId", header.RequestID)
}

func (h PrintingHandler) OnProtocolError(raw []byte, err error) {
	h.logger().Log(logging.LogLevelWarn, "protocolError", "bytes", len(raw), "err", err)
}
