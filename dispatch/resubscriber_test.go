package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyDeliversToEverySubscriber(t *testing.T) {
	r := NewResubscriber()
	var a, b int
	r.Subscribe(func(n any) Intent { a++; return Resubscribe })
	r.Subscribe(func(n any) Intent { b++; return Resubscribe })

	r.Notify("ping")
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
	require.Equal(t, 2, r.Len())
}

func TestNotifyRemovesHandlersThatReturnStop(t *testing.T) {
	r := NewResubscriber()
	count := 0
	r.Subscribe(func(n any) Intent {
		count++
		return Stop
	})

	r.Notify("first")
	require.Equal(t, 1, count)
	require.Equal(t, 0, r.Len())

	r.Notify("second")
	require.Equal(t, 1, count)
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	r := NewResubscriber()
	called := false
	sub := r.Subscribe(func(n any) Intent {
		called = true
		return Resubscribe
	})
	r.Unsubscribe(sub)

	r.Notify("ping")
	require.False(t, called)
}

func TestHandlerMaySubscribeDuringNotifyWithoutDeadlock(t *testing.T) {
	r := NewResubscriber()
	var secondCalled bool

	var first Subscription
	first = r.Subscribe(func(n any) Intent {
		r.Subscribe(func(n any) Intent {
			secondCalled = true
			return Stop
		})
		return Stop
	})
	_ = first

	done := make(chan struct{})
	go func() {
		r.Notify("trigger")
		close(done)
	}()
	<-done

	require.False(t, secondCalled) // newly subscribed handler enrolls for the next notification only
	require.Equal(t, 1, r.Len())

	r.Notify("second")
	require.True(t, secondCalled)
}

func TestHandlerMayUnsubscribeItselfDuringNotify(t *testing.T) {
	r := NewResubscriber()
	var sub Subscription
	calls := 0
	sub = r.Subscribe(func(n any) Intent {
		calls++
		r.Unsubscribe(sub)
		return Resubscribe
	})

	r.Notify("ping")
	require.Equal(t, 1, calls)
	require.Equal(t, 0, r.Len())
}
