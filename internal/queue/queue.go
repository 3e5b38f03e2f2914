// Package queue implements C2, the Playlist Queue: two ordered FIFOs
// (pending tracks, ready buffered tracks) plus the force_preempt flag that
// lets a user "force-play" intent jump ahead of whatever is already queued
// without touching the track the player is currently on.
//
// Grounded on original_source/src/playlist.rs's Playlist (push/pop shape)
// generalized with the force_preempt race-window handling spec.md §4.2
// adds on top of that source, and on the teacher's internal/download
// package for the "single mutex guards both queues" locking style.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/pkg/types"
)

// Playlist is safe for concurrent use. The zero value is not usable; use
// New.
type Playlist struct {
	log zerolog.Logger

	mu           sync.Mutex
	cond         *sync.Cond
	pending      []types.Track
	ready        []types.BufferedTrack
	forcePreempt bool
}

// New returns an empty Playlist.
func New() *Playlist {
	p := &Playlist{log: logging.For("queue")}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Push appends tracks to pending, in order. Non-blocking.
func (p *Playlist) Push(tracks []types.Track) {
	if len(tracks) == 0 {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, tracks...)
	p.mu.Unlock()
	p.cond.Broadcast()
	p.log.Debug().Int("count", len(tracks)).Msg("pushed pending tracks")
}

// PushBuffered appends tracks directly to ready, used when a track arrives
// already buffered (e.g. AddBufferedTracks from a local-cache seed).
func (p *Playlist) PushBuffered(tracks []types.BufferedTrack) {
	if len(tracks) == 0 {
		return
	}
	p.mu.Lock()
	p.ready = append(p.ready, tracks...)
	p.mu.Unlock()
	p.log.Debug().Int("count", len(tracks)).Msg("pushed ready tracks")
}

// Pop is a non-blocking try-take from ready. ok is false when ready is
// empty — not an error.
func (p *Playlist) Pop() (bt types.BufferedTrack, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ready) == 0 {
		return types.BufferedTrack{}, false
	}
	bt, p.ready = p.ready[0], p.ready[1:]
	return bt, true
}

// PushForce performs the preemptive replacement described in spec §4.2:
// atomically set force_preempt, drain both queues in FIFO order, and
// replace them with [tracks... drained...] — the new tracks win the head
// of the line, everything previously queued survives behind them. The
// currently-playing track in the Player is untouched; this only rewrites
// what has not started playing yet.
func (p *Playlist) PushForce(tracks []types.Track) {
	p.mu.Lock()
	p.forcePreempt = true

	drained := make([]types.Track, 0, len(p.pending)+len(p.ready))
	drained = append(drained, p.pending...)
	for _, bt := range p.ready {
		drained = append(drained, bt.Track)
	}

	newPending := make([]types.Track, 0, len(tracks)+len(drained))
	newPending = append(newPending, tracks...)
	newPending = append(newPending, drained...)

	p.pending = newPending
	p.ready = nil
	p.mu.Unlock()
	p.cond.Broadcast()

	p.log.Info().
		Int("new", len(tracks)).
		Int("drained", len(drained)).
		Msg("preemptive replacement")
}

// ForcePreempt reports the current value of the force_preempt flag. The
// Fetcher snapshots this before and after a fetch to detect whether a
// PushForce raced its in-flight call (see ResetForcePreempt).
func (p *Playlist) ForcePreempt() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forcePreempt
}

// ResetForcePreempt clears the flag. Called by the Fetcher exactly once
// it has detected and discarded a raced fetch result.
func (p *Playlist) ResetForcePreempt() {
	p.mu.Lock()
	p.forcePreempt = false
	p.mu.Unlock()
}

// TakePendingBlocking removes and returns the head of pending, waiting up
// to timeout for an item to appear if pending is currently empty. ok is
// false on timeout or context cancellation — neither is an error, per
// spec §4.4's "pending.take_blocking(timeout=3s)".
func (p *Playlist) TakePendingBlocking(ctx context.Context, timeout time.Duration) (t types.Track, ok bool) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.cond.Broadcast()
		case <-done:
		}
	}()

	deadline := time.Now().Add(timeout)
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.pending) == 0 {
		if ctx.Err() != nil {
			return types.Track{}, false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return types.Track{}, false
		}
		timer := time.AfterFunc(remaining, p.cond.Broadcast)
		p.cond.Wait()
		timer.Stop()
	}
	t, p.pending = p.pending[0], p.pending[1:]
	return t, true
}

// Lens reports the current queue depths, for metrics and the backpressure
// gate in the fetcher.
func (p *Playlist) Lens() (pending, ready int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending), len(p.ready)
}
