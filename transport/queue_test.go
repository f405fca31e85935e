package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnboundedQueuePreservesFIFOOrder(t *testing.T) {
	q := newOutboundQueue(0)
	q.put([]byte("a"))
	q.put([]byte("b"))
	q.put([]byte("c"))

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.get()
		assert.True(t, ok)
		assert.Equal(t, want, string(got))
	}
}

func TestBoundedQueuePreservesFIFOOrder(t *testing.T) {
	q := newOutboundQueue(2)
	q.put([]byte("a"))
	q.put([]byte("b"))

	got, ok := q.get()
	assert.True(t, ok)
	assert.Equal(t, "a", string(got))

	got, ok = q.get()
	assert.True(t, ok)
	assert.Equal(t, "b", string(got))
}

func TestBoundedQueueBlocksWhenFull(t *testing.T) {
	q := newOutboundQueue(1)
	q.put([]byte("a"))

	done := make(chan struct{})
	go func() {
		q.put([]byte("b"))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("put on full bounded queue should have blocked")
	case <-time.After(50 * time.Millisecond):
	}

	_, _ = q.get()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("put should have unblocked after a slot freed")
	}
}

func TestCloseUnblocksPendingGet(t *testing.T) {
	q := newOutboundQueue(0)
	done := make(chan bool)
	go func() {
		_, ok := q.get()
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	q.close()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("close should have unblocked get")
	}
}
