// Package bus implements C1, the Message Bus: a single State snapshot
// mutated only by a pure reducer under an exclusive lock, and a filtered
// command broadcaster handing each subscription its own unbounded FIFO.
// Grounded on original_source/src/playerbus.rs's PlayerBus (same two
// facilities, same lock-state-then-broadcast ordering) and on the
// teacher's internal/handlers/event_bus.go for the subscriber-registry
// shape, generalized here to non-dropping delivery per spec §4.1.
package bus

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/internal/metrics"
	"github.com/woodaudio/player/pkg/types"
)

// Bus is safe for concurrent use. The zero value is not usable; use New.
type Bus struct {
	log zerolog.Logger

	stateMu sync.Mutex
	state   types.State

	subsMu sync.Mutex
	subs   []*Subscription
}

// New returns a bus initialized to types.DefaultState().
func New() *Bus {
	return &Bus{
		log:   logging.For("bus"),
		state: types.DefaultState(),
	}
}

// ReadState returns a snapshot of the current state. Per spec §4.1, reads
// never block writers beyond the time it takes to clone the snapshot.
func (b *Bus) ReadState() types.State {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.state.Clone()
}

// PublishMessage applies the reducer to the current state under the state
// lock, commits the result, and only then broadcasts any commands the
// reducer emitted — so a subscriber that wakes on a derived command always
// observes state consistent with it (spec §5).
func (b *Bus) PublishMessage(msg types.Message) {
	b.stateMu.Lock()
	prev := b.state
	next, cmds := reduce(prev, msg)
	b.state = next
	b.stateMu.Unlock()

	b.log.Debug().Str("message", string(msg.Tag())).Msg("message published")

	for _, cmd := range cmds {
		b.PublishCommand(cmd)
	}
}

// PublishCommand fans a command out to every subscription whose filter
// includes its tag. Delivery is non-blocking and at-least-once per
// subscription; subscriptions are never dropped on a slow reader because
// each holds its own unbounded queue.
func (b *Bus) PublishCommand(cmd types.Command) {
	metrics.RecordCommandPublished(string(cmd.Tag()))

	b.subsMu.Lock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.subsMu.Unlock()

	delivered := 0
	for _, sub := range subs {
		if sub.matches(cmd.Tag()) {
			sub.q.push(cmd)
			delivered++
		}
	}
	b.log.Debug().
		Str("command", string(cmd.Tag())).
		Int("delivered_to", delivered).
		Msg("command published")
}

// Subscribe registers a new filtered command subscription. The
// subscription's queue is closed when ctx is done; the returned
// Subscription is then registered permanently (the bus does not currently
// garbage-collect closed subscriptions from its list, since PublishCommand
// treats a push to a closed queue as a no-op).
func (b *Bus) Subscribe(ctx context.Context, tags ...types.CommandTag) *Subscription {
	sub := newSubscription(ctx, tags)
	b.subsMu.Lock()
	b.subs = append(b.subs, sub)
	b.subsMu.Unlock()
	return sub
}
