// Package player implements C5, the Player Loop: a single-threaded state
// machine driving the abstract Decoder/Sink capabilities of spec §6,
// publishing now-playing/elapsed messages and reacting to transport
// commands from its own bus subscription.
//
// Grounded on spec §4.5's Idle/Playing/Paused contract and on the
// teacher's internal/audio.Player for the "elapsed is wall-clock delta,
// not sink position" progress-tracking idiom (teacher's progress_tracker.go),
// generalized away from its beep/oto backend onto the abstract Sink/Decoder
// interfaces spec §6 defines.
package player

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/internal/metrics"
	"github.com/woodaudio/player/internal/queue"
	"github.com/woodaudio/player/pkg/types"
)

// Source is an abstract decoded-audio stream the Sink can append. Its
// shape is intentionally opaque to the Player; spec §6 scopes Decoder and
// Sink as external collaborators.
type Source interface{}

// Decoder turns a BufferedTrack's compressed bytes into a playable Source.
type Decoder interface {
	Decode(stream []byte) (Source, error)
}

// Sink drives the audio output device.
type Sink interface {
	Append(src Source) error
	Play()
	Pause()
	IsPaused() bool
	Empty() bool
	Clear()
}

// SinkFactory opens the default output device. It may fail (device not
// ready yet); the Player retries it every 3s indefinitely, per spec §4.5's
// "only place the core retries vs. panics".
type SinkFactory func() (Sink, error)

// Bus is the subset of *bus.Bus the player needs.
type Bus interface {
	PublishMessage(msg types.Message)
}

// CommandSource is the subset of *bus.Subscription the player needs: a
// blocking receive that returns false once its owning context is done.
type CommandSource interface {
	Next(ctx context.Context) (types.Command, bool)
}

// State is the player's own case, distinct from the bus's PlayerCase:
// Idle exists only inside this package (the bus projects it as Loading).
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

const (
	idlePollInterval = 200 * time.Millisecond
	elapsedTickRate  = 20 * time.Millisecond // ≥ 20 Hz per spec §4.5
)

// deviceRetryBackoff is a var (not const) so tests can shrink it.
var deviceRetryBackoff = 3 * time.Second

// Player is C5. The zero value is not usable; use New.
type Player struct {
	queue   *queue.Playlist
	bus     Bus
	decoder Decoder
	sinkFn  SinkFactory
	log     zerolog.Logger

	state State
	sink  Sink

	// elapsed/lastTick carry the wall-clock progress sum across Playing <->
	// Paused transitions; only runIdle resets them, on starting a new track.
	elapsed  time.Duration
	lastTick time.Time
}

// New returns a Player.
func New(q *queue.Playlist, b Bus, d Decoder, sinkFn SinkFactory) *Player {
	return &Player{
		queue:   q,
		bus:     b,
		decoder: d,
		sinkFn:  sinkFn,
		log:     logging.For("player"),
		state:   StateIdle,
	}
}

// Commands is the filter the caller passes to Bus.Subscribe for the
// player: Play/Pause/Next. (AddTracks* etc. go to the router's
// subscription and from there to the queue, not the player — see
// internal/router.)
func Commands() []types.CommandTag {
	return []types.CommandTag{types.CommandTagPlay, types.CommandTagPause, types.CommandTagNext}
}

// Run drives the state machine until ctx is cancelled. sub is the player's
// bus subscription, filtered (by the caller) to Play/Pause/Next — see
// Commands.
func (p *Player) Run(ctx context.Context, sub CommandSource) {
	sink := p.openSinkWithRetry(ctx)
	if sink == nil {
		return // ctx cancelled while waiting for the device
	}
	p.sink = sink

	cmds := make(chan types.Command)
	go func() {
		for {
			cmd, ok := sub.Next(ctx)
			if !ok {
				return
			}
			select {
			case cmds <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	for ctx.Err() == nil {
		switch p.state {
		case StateIdle:
			p.runIdle(ctx, cmds)
		case StatePlaying:
			p.runPlaying(ctx, cmds)
		case StatePaused:
			p.runPaused(ctx, cmds)
		}
	}
}

func (p *Player) openSinkWithRetry(ctx context.Context) Sink {
	for {
		sink, err := p.sinkFn()
		if err == nil {
			return sink
		}
		p.log.Warn().Err(err).Msg("output device unavailable, retrying")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(deviceRetryBackoff):
		}
	}
}

func (p *Player) runIdle(ctx context.Context, cmds <-chan types.Command) {
	bt, ok := p.queue.Pop()
	if !ok {
		p.bus.PublishMessage(types.MessagePlayerQueueEmpty{})
		select {
		case <-ctx.Done():
		case cmd := <-cmds:
			p.handleIdleCommand(cmd)
		case <-time.After(idlePollInterval):
		}
		return
	}

	src, err := p.decoder.Decode(bt.Stream)
	if err != nil {
		p.log.Warn().Err(err).Str("track_id", bt.Track.ID).Msg("decode failed, skipping track")
		return
	}
	if err := p.sink.Append(src); err != nil {
		p.log.Warn().Err(err).Str("track_id", bt.Track.ID).Msg("sink append failed, skipping track")
		return
	}
	p.sink.Play()
	p.elapsed = 0
	p.bus.PublishMessage(types.MessagePlayerPlayingNewTrack{Track: bt})
	p.state = StatePlaying
	metrics.SetPlayerState(int(StatePlaying))
}

func (p *Player) handleIdleCommand(cmd types.Command) {
	if _, ok := cmd.(types.CommandNext); ok {
		p.sink.Clear()
	}
}

// runPlaying resumes from p.elapsed, the sum carried over any prior
// Playing spell on this track — it is reset only in runIdle, on
// PlayerPlayingNewTrack, so a Pause/Play cycle doesn't regress it. Per
// spec §4.5, elapsed is a monotonic wall-clock sum that excludes paused
// time, not a sink-reported position.
func (p *Player) runPlaying(ctx context.Context, cmds <-chan types.Command) {
	ticker := time.NewTicker(elapsedTickRate)
	defer ticker.Stop()
	p.lastTick = time.Now()

	for p.state == StatePlaying {
		select {
		case <-ctx.Done():
			return
		case cmd := <-cmds:
			switch cmd.(type) {
			case types.CommandPause:
				p.sink.Pause()
				p.bus.PublishMessage(types.MessagePlayerPaused{})
				p.state = StatePaused
				metrics.SetPlayerState(int(StatePaused))
				return
			case types.CommandNext:
				p.sink.Clear()
				p.state = StateIdle
				metrics.SetPlayerState(int(StateIdle))
				return
			}
		case now := <-ticker.C:
			p.elapsed += now.Sub(p.lastTick)
			p.lastTick = now
			p.bus.PublishMessage(types.MessagePlayerElapsed{Elapsed: p.elapsed})
			if p.sink.Empty() {
				p.state = StateIdle
				metrics.SetPlayerState(int(StateIdle))
				return
			}
		}
	}
}

func (p *Player) runPaused(ctx context.Context, cmds <-chan types.Command) {
	select {
	case <-ctx.Done():
		return
	case cmd := <-cmds:
		switch cmd.(type) {
		case types.CommandPlay:
			p.sink.Play()
			p.bus.PublishMessage(types.MessagePlayerPlaying{})
			p.state = StatePlaying
			metrics.SetPlayerState(int(StatePlaying))
		case types.CommandNext:
			p.sink.Clear()
			p.state = StateIdle
			metrics.SetPlayerState(int(StateIdle))
		}
	}
}
