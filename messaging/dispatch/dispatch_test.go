package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fund3/omega-client/internal/wire"
	"github.com/fund3/omega-client/messaging/dispatch"
	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/session"
)

type recordingHandler struct {
	dispatch.NoopHandler
	logonAcks     []wiretypes.LogonAck
	protocolErrs  int
	executionRpts []wiretypes.ExecutionReport
	unknown       []wiretypes.RequestHeader
	heartbeats    int
}

func (h *recordingHandler) OnLogonAck(ack wiretypes.LogonAck) {
	h.logonAcks = append(h.logonAcks, ack)
}

func (h *recordingHandler) OnProtocolError([]byte, error) {
	h.protocolErrs++
}

func (h *recordingHandler) OnExecutionReport(r wiretypes.ExecutionReport) {
	h.executionRpts = append(h.executionRpts, r)
}

func (h *recordingHandler) OnUnknownMessage(hdr wiretypes.RequestHeader) {
	h.unknown = append(h.unknown, hdr)
}

func (h *recordingHandler) OnHeartbeat() {
	h.heartbeats++
}

func rawHeader(w *wire.Writer) {
	w.Int64(1)
	w.String("machine-1")
	w.String("")
	w.Int64(99)
}

func TestDispatchLogonAckUpdatesSessionAndHandler(t *testing.T) {
	mgr := session.New(0.75, nil)
	require.NoError(t, mgr.BeginLogon())

	h := &recordingHandler{}
	d := dispatch.New(h, mgr, nil)

	w := wire.NewWriter(64)
	w.Byte(byte(wiretypes.KindLogonAck))
	rawHeader(w)
	w.Bool(true)
	w.String("ok")
	w.Bool(true)
	w.String("access-tok")
	w.String("refresh-tok")
	w.Float64(3600)

	d.Dispatch(w.Bytes())

	require.Len(t, h.logonAcks, 1)
	assert.True(t, h.logonAcks[0].Success)
	assert.Equal(t, session.StateAuthorized, mgr.State())
	assert.Equal(t, "access-tok", mgr.AccessToken())
}

func TestDispatchMalformedFrameRoutesToProtocolError(t *testing.T) {
	mgr := session.New(0.75, nil)
	h := &recordingHandler{}
	d := dispatch.New(h, mgr, nil)

	d.Dispatch([]byte{byte(wiretypes.KindLogonAck)}) // header truncated
	assert.Equal(t, 1, h.protocolErrs)
}

func TestDispatchUnknownKindRoutesToOnUnknownMessage(t *testing.T) {
	mgr := session.New(0.75, nil)
	h := &recordingHandler{}
	d := dispatch.New(h, mgr, nil)

	w := wire.NewWriter(64)
	w.Byte(0xFE) // no MessageKind assigns this tag
	rawHeader(w)

	d.Dispatch(w.Bytes())
	require.Len(t, h.unknown, 1)
	assert.Equal(t, 0, h.protocolErrs)
}

func TestDispatchHeartbeatRoutesToOnHeartbeat(t *testing.T) {
	mgr := session.New(0.75, nil)
	h := &recordingHandler{}
	d := dispatch.New(h, mgr, nil)

	w := wire.NewWriter(64)
	w.Byte(byte(wiretypes.KindHeartbeat))
	rawHeader(w)

	d.Dispatch(w.Bytes())
	assert.Equal(t, 1, h.heartbeats)
}

func TestDispatchExecutionReport(t *testing.T) {
	mgr := session.New(0.75, nil)
	h := &recordingHandler{}
	d := dispatch.New(h, mgr, nil)

	w := wire.NewWriter(64)
	w.Byte(byte(wiretypes.KindExecutionReport))
	rawHeader(w)
	w.Int64(5)
	w.String("order-9")
	w.String("client-9")
	w.String("ETH-USD")
	w.String("sell")
	w.String("limit")
	w.String("filled")
	w.Float64(2.0)
	w.Float64(1500)
	w.Float64(2.0)
	w.Float64(1499.5)

	d.Dispatch(w.Bytes())
	require.Len(t, h.executionRpts, 1)
	assert.Equal(t, wiretypes.OrderStatusFilled, h.executionRpts[0].Status)
}
