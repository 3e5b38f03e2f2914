// Package discovery implements C3, the Discovery Coordinator: a stateless
// translator from catalog listings and user intents into TrackDiscovered /
// TracksDiscoveredHighPriority messages on the bus.
//
// Grounded on original_source/src/backend/tidal/mod.rs's discover_mixes
// and discover_favorities_tracks (double shuffle, ad-supported filter) and
// on spec §4.3's seed()/radio()/track()/album()/artist() contract.
package discovery

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/catalog"
	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/pkg/types"
)

// Bus is the subset of *bus.Bus the coordinator needs; declared as an
// interface so tests can stub it without spinning up a real bus.
type Bus interface {
	PublishMessage(msg types.Message)
}

// Catalog is the subset of *catalog.Client the coordinator needs. Spec §1
// treats Catalog as an abstract capability; this interface is that
// boundary inside the process, letting tests substitute a stub instead of
// an HTTP client.
type Catalog interface {
	ListFavorites(ctx context.Context) ([]catalog.TrackJSON, error)
	ListForYouMixes(ctx context.Context) ([]catalog.MixJSON, error)
	ListMixTracks(ctx context.Context, mixID string) ([]catalog.TrackJSON, error)
	ListTrackRadio(ctx context.Context, id string) ([]catalog.TrackJSON, error)
	ListAlbumTracks(ctx context.Context, id string) ([]catalog.TrackJSON, error)
	ListArtistTop(ctx context.Context, id string) ([]catalog.TrackJSON, error)
}

// Coordinator is stateless beyond its collaborators; safe for concurrent
// use since its Catalog/Bus calls don't share state, and rng is guarded by
// rngMu (only Seed's helpers shuffle with it).
type Coordinator struct {
	catalog Catalog
	bus     Bus
	log     zerolog.Logger
	rngMu   sync.Mutex
	rng     *rand.Rand
}

// New returns a Coordinator with its own process-local RNG (spec §4.3),
// a rand.New source seeded from the current time and guarded by rngMu.
func New(c Catalog, b Bus) *Coordinator {
	return &Coordinator{
		catalog: c,
		bus:     b,
		log:     logging.For("discovery"),
		rng:     rand.New(rand.NewSource(randSeed())),
	}
}

// Seed pulls favorites and the for-you mix catalog, shuffles, filters to
// ad-supported-stream-ready, and emits each admitted track individually as
// TrackDiscovered — per spec §4.3, this is the only entrypoint that
// publishes one message per track rather than a single batch.
func (c *Coordinator) Seed(ctx context.Context) {
	c.seedFavorites(ctx)
	c.seedForYouMixes(ctx)
}

func (c *Coordinator) seedFavorites(ctx context.Context) {
	items, err := c.catalog.ListFavorites(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("list favorites failed")
		return
	}
	c.rngMu.Lock()
	shuffled := shuffle(c.rng, items)
	c.rngMu.Unlock()
	for _, tj := range shuffled {
		if !tj.AdSupportedStreamReady {
			continue
		}
		c.bus.PublishMessage(types.MessageTrackDiscovered{Track: tj.ToTrack()})
	}
}

// seedForYouMixes applies spec §4.3's double shuffle: the list of mixes is
// shuffled, then each mix's own track list is independently shuffled, so
// head-biased catalog ordering cannot dominate the first hour of playback.
func (c *Coordinator) seedForYouMixes(ctx context.Context) {
	mixes, err := c.catalog.ListForYouMixes(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("list for-you mixes failed")
		return
	}
	c.rngMu.Lock()
	shuffledMixes := shuffleMixes(c.rng, mixes)
	c.rngMu.Unlock()
	for _, mix := range shuffledMixes {
		tracks, err := c.catalog.ListMixTracks(ctx, mix.ID)
		if err != nil {
			c.log.Warn().Err(err).Str("mix_id", mix.ID).Msg("list mix tracks failed")
			continue
		}
		c.rngMu.Lock()
		shuffledTracks := shuffle(c.rng, tracks)
		c.rngMu.Unlock()
		for _, tj := range shuffledTracks {
			if !tj.AdSupportedStreamReady {
				continue
			}
			c.bus.PublishMessage(types.MessageTrackDiscovered{Track: tj.ToTrack()})
		}
	}
}

// Radio fetches the track-radio list seeded from id and emits it as a
// single high-priority batch.
func (c *Coordinator) Radio(ctx context.Context, id string) error {
	items, err := c.catalog.ListTrackRadio(ctx, id)
	if err != nil {
		return err
	}
	c.publishHighPriority(items)
	return nil
}

// Track is an alias for Radio, matching original_source's
// discovery_track/discovery_radio aliasing: it emits the track-radio list
// seeded from id as one high-priority batch. It does not fetch the single
// track on its own.
func (c *Coordinator) Track(ctx context.Context, id string) error {
	return c.Radio(ctx, id)
}

// Album fetches an album's tracks and emits them as a high-priority batch.
func (c *Coordinator) Album(ctx context.Context, id string) error {
	items, err := c.catalog.ListAlbumTracks(ctx, id)
	if err != nil {
		return err
	}
	c.publishHighPriority(items)
	return nil
}

// Artist fetches an artist's top tracks and emits them as a high-priority
// batch.
func (c *Coordinator) Artist(ctx context.Context, id string) error {
	items, err := c.catalog.ListArtistTop(ctx, id)
	if err != nil {
		return err
	}
	c.publishHighPriority(items)
	return nil
}

func (c *Coordinator) publishHighPriority(items []catalog.TrackJSON) {
	tracks := make([]types.Track, 0, len(items))
	for _, tj := range items {
		if !tj.AdSupportedStreamReady {
			continue
		}
		tracks = append(tracks, tj.ToTrack())
	}
	c.bus.PublishMessage(types.MessageTracksDiscoveredHighPriority{Tracks: tracks})
}

func shuffle(rng *rand.Rand, items []catalog.TrackJSON) []catalog.TrackJSON {
	out := make([]catalog.TrackJSON, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func shuffleMixes(rng *rand.Rand, mixes []catalog.MixJSON) []catalog.MixJSON {
	out := make([]catalog.MixJSON, len(mixes))
	copy(out, mixes)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
