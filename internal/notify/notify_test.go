package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcaster_AllSubscribersNotified(t *testing.T) {
	t.Parallel()
	b := New()

	var a, c int
	b.Subscribe(func() { a++ })
	b.Subscribe(func() { c++ })

	b.Notify()
	b.Notify()

	require.Equal(t, 2, a)
	require.Equal(t, 2, c)
}

func TestBroadcaster_UnsubscribeStopsImmediately(t *testing.T) {
	t.Parallel()
	b := New()

	var n int
	unsub := b.Subscribe(func() { n++ })

	b.Notify()
	unsub()
	b.Notify()

	require.Equal(t, 1, n)
}

func TestBroadcaster_UnsubscribeIsIdempotent(t *testing.T) {
	t.Parallel()
	b := New()

	var n int
	unsub := b.Subscribe(func() { n++ })
	unsub()
	unsub()

	b.Notify()
	require.Zero(t, n)
}

func TestBroadcaster_ConcurrentSubscribeNotify(t *testing.T) {
	t.Parallel()
	b := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := b.Subscribe(func() {})
			unsub()
		}()
		go func() {
			defer wg.Done()
			b.Notify()
		}()
	}
	wg.Wait()
}
