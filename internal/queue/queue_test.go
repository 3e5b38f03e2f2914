package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/woodaudio/player/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func track(id string) types.Track { return types.Track{ID: id, Title: id} }

func TestPop_EmptyReturnsFalseNotError(t *testing.T) {
	p := New()
	_, ok := p.Pop()
	assert.False(t, ok)
}

func TestPushThenPushBufferedThenPop_FIFO(t *testing.T) {
	p := New()
	p.Push([]types.Track{track("a"), track("b")})
	p.PushBuffered([]types.BufferedTrack{
		{Track: track("a"), Stream: []byte{1}},
		{Track: track("b"), Stream: []byte{2}},
	})

	got, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", got.Track.ID)

	got, ok = p.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", got.Track.ID)

	_, ok = p.Pop()
	assert.False(t, ok)
}

// Scenario 3: preemption. push_force places new tracks ahead of whatever
// was already queued, across both pending and ready.
func TestPushForce_PlacesNewTracksAheadOfDrainedQueues(t *testing.T) {
	p := New()
	p.Push([]types.Track{track("b"), track("c")})
	p.PushBuffered([]types.BufferedTrack{{Track: track("a"), Stream: []byte{1}}})

	p.PushForce([]types.Track{track("x"), track("y")})

	pending, ready := p.Lens()
	assert.Equal(t, 5, pending) // x, y, b, c, a (drained pending then ready)
	assert.Equal(t, 0, ready)

	_, ok := p.Pop()
	assert.False(t, ok, "ready was drained by the force-replacement")

	ctx := context.Background()
	var order []string
	for i := 0; i < 5; i++ {
		tr, ok := p.TakePendingBlocking(ctx, time.Second)
		require.True(t, ok)
		order = append(order, tr.ID)
	}
	assert.Equal(t, []string{"x", "y", "b", "c", "a"}, order)
}

func TestForcePreempt_SetByPushForceAndClearedByReset(t *testing.T) {
	p := New()
	assert.False(t, p.ForcePreempt())
	p.PushForce([]types.Track{track("x")})
	assert.True(t, p.ForcePreempt())
	p.ResetForcePreempt()
	assert.False(t, p.ForcePreempt())
}

func TestTakePendingBlocking_ReturnsImmediatelyWhenNonEmpty(t *testing.T) {
	p := New()
	p.Push([]types.Track{track("a")})

	ctx := context.Background()
	got, ok := p.TakePendingBlocking(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestTakePendingBlocking_TimesOutOnEmpty(t *testing.T) {
	p := New()
	ctx := context.Background()
	start := time.Now()
	_, ok := p.TakePendingBlocking(ctx, 50*time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestTakePendingBlocking_WakesWhenTrackArrives(t *testing.T) {
	p := New()
	ctx := context.Background()

	resultCh := make(chan types.Track, 1)
	go func() {
		got, ok := p.TakePendingBlocking(ctx, 2*time.Second)
		if ok {
			resultCh <- got
		}
	}()

	time.Sleep(20 * time.Millisecond)
	p.Push([]types.Track{track("late")})

	select {
	case got := <-resultCh:
		assert.Equal(t, "late", got.ID)
	case <-time.After(time.Second):
		t.Fatal("TakePendingBlocking did not wake on push")
	}
}

func TestTakePendingBlocking_CancelledContextReturnsFalse(t *testing.T) {
	p := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_, ok := p.TakePendingBlocking(ctx, 5*time.Second)
		assert.False(t, ok)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TakePendingBlocking did not return after context cancellation")
	}
}
