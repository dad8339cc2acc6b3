package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

func TestStateFeed_DeliversInOrder(t *testing.T) {
	feed := newStateFeed()
	ch, unsubscribe := feed.subscribe(domain.IdleState())
	defer unsubscribe()

	// Publish far more than any channel buffer without reading.
	for i := 0; i < 500; i++ {
		feed.publish(domain.InProgressState(string(rune('a' + i%26))))
	}

	assert.Equal(t, domain.StatusIdle, (<-ch).Status)
	for i := 0; i < 500; i++ {
		select {
		case s := <-ch:
			assert.Equal(t, string(rune('a'+i%26)), s.SessionID)
		case <-time.After(2 * time.Second):
			t.Fatalf("missing state %d", i)
		}
	}
}

func TestStateFeed_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	feed := newStateFeed()
	_, unsubscribeSlow := feed.subscribe(domain.IdleState())
	defer unsubscribeSlow()
	fast, unsubscribeFast := feed.subscribe(domain.IdleState())
	defer unsubscribeFast()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			feed.publish(domain.SucceededState("s", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a subscriber that never reads")
	}

	<-fast
	for i := 0; i < 100; i++ {
		s := <-fast
		assert.Equal(t, domain.StatusSucceeded, s.Status)
	}
}

func TestStateFeed_UnsubscribeStopsDelivery(t *testing.T) {
	feed := newStateFeed()
	ch, unsubscribe := feed.subscribe(domain.IdleState())

	unsubscribe()
	unsubscribe()
	feed.publish(domain.InProgressState("x"))

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStateFeed_Close(t *testing.T) {
	feed := newStateFeed()
	ch, _ := feed.subscribe(domain.IdleState())

	feed.close()
	feed.publish(domain.InProgressState("x"))

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

	late, unsubscribe := feed.subscribe(domain.IdleState())
	_, ok := <-late
	assert.False(t, ok)
	unsubscribe()
}
