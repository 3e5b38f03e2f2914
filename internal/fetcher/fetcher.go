// Package fetcher implements C4, the Fetcher/Buffer Worker: drains
// Playlist.pending, calls the external Catalog to materialize audio
// bytes, and pushes the result to Playlist.ready — subject to the
// backpressure gate and the preemption race-window rule of spec §4.4.
//
// Grounded on original_source/src/downloader.rs's retry loop and cache
// write-back, and on the teacher's internal/download.Manager for the
// semaphore/worker-loop shape (generalized here to a single long-lived
// worker per spec §5's "Fetcher thread (long-lived)").
package fetcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/internal/metrics"
	"github.com/woodaudio/player/internal/queue"
	"github.com/woodaudio/player/pkg/types"
)

const (
	// DefaultBufferLimit is spec §4.4's default BufferLimit (≈15 minutes
	// of audio at typical track lengths).
	DefaultBufferLimit = 3

	backpressureSleep = 3 * time.Second
	pendingTimeout    = 3 * time.Second
	maxFetchAttempts  = 4
)

// Catalog is the subset of *catalog.Client the fetcher needs.
type Catalog interface {
	FetchTrack(ctx context.Context, id string) ([]byte, error)
}

// Cache is the external collaborator described in SPEC_FULL's [EXPANSION
// 4.4]: an optional key-value store the fetcher consults before
// hitting the network, keyed by a normalized "artist - title.flac" string.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Worker is C4. The zero value is not usable; use New.
type Worker struct {
	catalog     Catalog
	queue       *queue.Playlist
	cache       Cache // nil disables cache layering
	bufferLimit int
	log         zerolog.Logger
}

// Option configures a Worker at construction time.
type Option func(*Worker)

// WithCache enables cache layering with the given collaborator.
func WithCache(c Cache) Option {
	return func(w *Worker) { w.cache = c }
}

// WithBufferLimit overrides DefaultBufferLimit.
func WithBufferLimit(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.bufferLimit = n
		}
	}
}

// New returns a Worker.
func New(catalog Catalog, q *queue.Playlist, opts ...Option) *Worker {
	w := &Worker{
		catalog:     catalog,
		queue:       q,
		bufferLimit: DefaultBufferLimit,
		log:         logging.For("fetcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run is the buffer_worker main loop of spec §4.4. It blocks until ctx is
// cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		pending, ready := w.queue.Lens()
		metrics.SetQueueDepths(pending, ready)
		if ready > w.bufferLimit {
			sleepOrDone(ctx, backpressureSleep)
			continue
		}

		track, ok := w.queue.TakePendingBlocking(ctx, pendingTimeout)
		if !ok {
			continue
		}

		pre := w.queue.ForcePreempt()
		bt, err := w.fetch(ctx, track)
		post := w.queue.ForcePreempt()

		if !pre && post {
			w.queue.ResetForcePreempt()
			metrics.RecordFetchOutcome("dropped_preempted")
			w.log.Info().Str("track_id", track.ID).Msg("dropping preempted fetch result")
			continue
		}
		if err != nil {
			metrics.RecordFetchOutcome("exhausted")
			w.log.Warn().Err(err).Str("track_id", track.ID).Msg("fetch exhausted retries, dropping track")
			continue
		}
		metrics.RecordFetchOutcome("success")
		w.queue.PushBuffered([]types.BufferedTrack{bt})
	}
}

// fetch implements cache layering plus the bounded retry of spec §4.4/§9:
// up to 4 attempts, short-circuit on first success, no recursion.
func (w *Worker) fetch(ctx context.Context, t types.Track) (types.BufferedTrack, error) {
	key := cacheKey(t)

	if w.cache != nil {
		if data, hit, err := w.cache.Get(ctx, key); err != nil {
			w.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to network")
		} else if hit {
			metrics.RecordFetchOutcome("cache_hit")
			return types.BufferedTrack{Track: t, Stream: data}, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		metrics.FetchAttemptsTotal.Inc()
		data, err := w.catalog.FetchTrack(ctx, t.ID)
		if err == nil {
			if w.cache != nil {
				go w.writeBack(key, data)
			}
			return types.BufferedTrack{Track: t, Stream: data}, nil
		}
		lastErr = err
	}
	return types.BufferedTrack{}, lastErr
}

func (w *Worker) writeBack(key string, data []byte) {
	if err := w.cache.Put(context.Background(), key, data); err != nil {
		w.log.Warn().Err(err).Str("key", key).Msg("cache write-back failed")
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
