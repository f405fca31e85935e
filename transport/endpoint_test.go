package transport_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fund3/omega-client/transport"
)

// newLoopbackRouter binds a ROUTER socket the test drives directly, playing
// the role of the Omega gateway the Endpoint (a DEALER) dials into.
func newLoopbackRouter(t *testing.T, addr string) zmq4.Socket {
	t.Helper()
	router := zmq4.NewRouter(context.Background())
	require.NoError(t, router.Listen(addr))
	t.Cleanup(func() { _ = router.Close() })
	return router
}

func TestEndpointDeliversInboundFramesToSink(t *testing.T) {
	const addr = "tcp://127.0.0.1:28901"
	router := newLoopbackRouter(t, addr)

	ep := transport.New(addr, "", 20*time.Millisecond, 0, nil)

	var mu sync.Mutex
	var received [][]byte
	gotFrame := make(chan struct{}, 1)
	ep.SetInboundSink(func(raw []byte) {
		mu.Lock()
		received = append(received, raw)
		mu.Unlock()
		select {
		case gotFrame <- struct{}{}:
		default:
		}
	})

	require.NoError(t, ep.Start(context.Background()))
	defer ep.Stop()

	// Wait for the dealer to connect and send an initial frame so the
	// router has an identity to reply to.
	require.NoError(t, ep.Enqueue([]byte("hello")))

	msg, err := router.Recv()
	require.NoError(t, err)
	require.Len(t, msg.Frames, 2) // identity + payload
	assert.Equal(t, "hello", string(msg.Frames[1]))

	reply := zmq4.NewMsgFrom(msg.Frames[0], []byte("world"))
	require.NoError(t, router.Send(reply))

	select {
	case <-gotFrame:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound frame to reach sink")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "world", string(received[0]))
}

func TestEndpointPreservesOutboundFIFOOrder(t *testing.T) {
	const addr = "tcp://127.0.0.1:28902"
	router := newLoopbackRouter(t, addr)

	ep := transport.New(addr, "", 20*time.Millisecond, 0, nil)
	require.NoError(t, ep.Start(context.Background()))
	defer ep.Stop()

	for _, payload := range []string{"a", "b", "c"} {
		require.NoError(t, ep.Enqueue([]byte(payload)))
	}

	for _, want := range []string{"a", "b", "c"} {
		msg, err := router.Recv()
		require.NoError(t, err)
		require.Len(t, msg.Frames, 2)
		assert.Equal(t, want, string(msg.Frames[1]))
	}
}

func TestEndpointStopReturnsWithinPollIntervalBound(t *testing.T) {
	const addr = "tcp://127.0.0.1:28903"
	_ = newLoopbackRouter(t, addr)

	pollInterval := 20 * time.Millisecond
	ep := transport.New(addr, "", pollInterval, 0, nil)
	require.NoError(t, ep.Start(context.Background()))

	start := time.Now()
	ep.Stop()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 500*time.Millisecond, "Stop should return within poll_interval_ms plus a small epsilon, not block indefinitely")
}
