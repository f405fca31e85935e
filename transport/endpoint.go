// Package transport implements C2, the single DEALER-socket endpoint each
// Connection drives: one background worker goroutine per Endpoint, draining
// the outbound queue and polling the socket for inbound frames on a bounded
// timeout, the way pkg/kgo/broker.go in the example pack runs a broker's
// request/response pump per connection.
package transport

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zeromq/zmq4"

	omegaerrors "github.com/fund3/omega-client/errors"
	"github.com/fund3/omega-client/logging"
)

var errAlreadyStarted = errors.New("transport: already started")

// State is the transport lifecycle, independent of the session state
// machine layered on top of it in package session.
type State int32

const (
	StateUnstarted State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "UNSTARTED"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// InboundSink receives one raw inbound frame at a time, in the order the
// worker goroutine received them. It must not block for long: the worker
// goroutine calls it inline between Recv calls.
type InboundSink func(raw []byte)

// Endpoint owns one ZMQ DEALER socket dialed at a single Omega gateway
// address, authenticated via CurveZMQ against the gateway's public key when
// one is configured and unauthenticated (NullSecurity) otherwise.
type Endpoint struct {
	addr            string
	serverPublicKey string
	pollInterval    time.Duration
	logger          logging.Logger

	state State32

	sock zmq4.Socket
	out  *outboundQueue

	sinkMu sync.RWMutex
	sink   InboundSink

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// State32 is an atomically-accessed State.
type State32 struct{ v int32 }

func (s *State32) Load() State      { return State(atomic.LoadInt32(&s.v)) }
func (s *State32) Store(v State)    { atomic.StoreInt32(&s.v, int32(v)) }
func (s *State32) CAS(old, next State) bool {
	return atomic.CompareAndSwapInt32(&s.v, int32(old), int32(next))
}

// New builds an Endpoint against addr with no socket opened yet; call
// Start to dial and begin the background goroutines.
func New(addr, serverPublicKey string, pollInterval time.Duration, queueBound int, logger logging.Logger) *Endpoint {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Endpoint{
		addr:            addr,
		serverPublicKey: serverPublicKey,
		pollInterval:    pollInterval,
		logger:          logger,
		out:             newOutboundQueue(queueBound),
	}
}

// SetInboundSink installs the callback invoked for every inbound frame.
// Intended to be called before Start; the worker goroutine reads sink under
// a read lock for every inbound frame, so a sink swapped while running takes
// effect from the next frame.
func (e *Endpoint) SetInboundSink(sink InboundSink) {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	e.sink = sink
}

// Start dials the socket and launches the single worker goroutine (run).
// It returns once the socket is dialed; it does not wait for
// the gateway to acknowledge anything (that is the session layer's job).
func (e *Endpoint) Start(ctx context.Context) error {
	if !e.state.CAS(StateUnstarted, StateStarting) {
		return &omegaerrors.TransportError{Endpoint: e.addr, Cause: errAlreadyStarted}
	}

	security := zmq4.NewNullSecurity()
	if e.serverPublicKey != "" {
		security = zmq4.NewCurveClient(e.serverPublicKey)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	sock := zmq4.NewDealer(runCtx, zmq4.WithSecurity(security))
	if err := sock.Dial(e.addr); err != nil {
		cancel()
		e.state.Store(StateStopped)
		return &omegaerrors.TransportError{Endpoint: e.addr, Cause: err}
	}
	e.sock = sock

	e.wg.Add(1)
	go e.run(runCtx)

	e.state.Store(StateRunning)
	e.logger.Log(logging.LogLevelInfo, "transport endpoint started", "addr", e.addr)
	return nil
}

// Enqueue appends raw to the outbound queue. Returns a SendError if the
// transport is not running.
func (e *Endpoint) Enqueue(raw []byte) error {
	if e.state.Load() != StateRunning {
		return &omegaerrors.SendError{Kind: "enqueue", Reason: "transport not running"}
	}
	e.out.put(raw)
	return nil
}

// IsRunning reports whether the endpoint is in StateRunning.
func (e *Endpoint) IsRunning() bool { return e.state.Load() == StateRunning }

// Stop signals the worker goroutine to exit and closes the socket. It
// blocks until the goroutine has returned, which happens within
// pollInterval of the next poll tick since the worker never blocks on Recv
// longer than that.
func (e *Endpoint) Stop() {
	if !e.state.CAS(StateRunning, StateStopping) {
		return
	}
	e.out.close()
	if e.cancel != nil {
		e.cancel()
	}
	if e.sock != nil {
		_ = e.sock.Close()
	}
	e.wg.Wait()
	e.state.Store(StateStopped)
	e.logger.Log(logging.LogLevelInfo, "transport endpoint stopped", "addr", e.addr)
}

// Cleanup releases any resources retained after Stop. Present for symmetry
// with the session/Connection lifecycle (spec.md's cleanup() operation);
// the socket is already closed by Stop, so today this only resets state.
func (e *Endpoint) Cleanup() {
	e.state.Store(StateUnstarted)
}

// run is the endpoint's single background worker activity (spec.md §4.2/§5):
// each tick it sends at most one queued message, then polls the socket for
// at most pollInterval before looping back to re-check ctx. This bounds
// Stop()'s latency to pollInterval + epsilon instead of parking forever in
// a blocking Recv.
func (e *Endpoint) run(ctx context.Context) {
	defer e.wg.Done()

	poller := zmq4.NewPoller()
	poller.Add(e.sock, zmq4.POLLIN)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e.drainOutbound(ctx)

		polled, err := poller.Poll(e.pollInterval)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			e.logger.Log(logging.LogLevelWarn, "poll failed", "addr", e.addr, "err", err)
			continue
		}
		for range polled {
			msg, err := e.sock.Recv()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
				}
				e.logger.Log(logging.LogLevelWarn, "recv failed", "addr", e.addr, "err", err)
				continue
			}
			raw := joinFrames(msg.Frames)
			e.sinkMu.RLock()
			sink := e.sink
			e.sinkMu.RUnlock()
			if sink != nil {
				sink(raw)
			}
		}
	}
}

// drainOutbound dequeues at most one message and sends it, without blocking
// the worker loop when the queue is empty, so run can get back to polling
// for inbound frames. Messages still queued go out on later ticks, in FIFO
// order.
func (e *Endpoint) drainOutbound(ctx context.Context) {
	raw, ok := e.out.tryGet()
	if !ok {
		return
	}
	if err := e.sock.Send(zmq4.NewMsg(raw)); err != nil {
		select {
		case <-ctx.Done():
			return
		default:
		}
		e.logger.Log(logging.LogLevelWarn, "send failed", "addr", e.addr, "err", err)
	}
}

func joinFrames(frames [][]byte) []byte {
	if len(frames) == 1 {
		return frames[0]
	}
	var total int
	for _, f := range frames {
		total += len(f)
	}
	out := make([]byte, 0, total)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}
