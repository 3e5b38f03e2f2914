// Package router implements C6, the Command Router: the single long-lived
// consumer that owns the subscription covering every pipeline command and
// translates each into the concrete action spec §4.6 names — queue
// mutation, a Discovery call, a favorites write, or a cover fetch.
//
// Grounded on spec.md §4.6's dispatch table and on the teacher's
// internal/handlers package for the "one goroutine polling one filtered
// subscription, dispatching by type switch" shape.
package router

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/internal/queue"
	"github.com/woodaudio/player/pkg/types"
)

// Bus is the subset of *bus.Bus the router needs.
type Bus interface {
	PublishMessage(msg types.Message)
}

// CommandSource is the subset of *bus.Subscription the router needs.
type CommandSource interface {
	Next(ctx context.Context) (types.Command, bool)
}

// Discovery is the subset of *discovery.Coordinator the router needs.
type Discovery interface {
	Radio(ctx context.Context, id string) error
	Track(ctx context.Context, id string) error
	Album(ctx context.Context, id string) error
	Artist(ctx context.Context, id string) error
}

// Catalog is the subset of *catalog.Client the router needs for Like.
type Catalog interface {
	AddToFavorites(ctx context.Context, id string) error
}

// CoverProcessor fetches and persists a cover image, returning its local
// path. It is the "external cover processor" of spec §4.6.
type CoverProcessor interface {
	Process(ctx context.Context, url string) (path string, err error)
}

// Router is C6. The zero value is not usable; use New.
type Router struct {
	queue     *queue.Playlist
	bus       Bus
	discovery Discovery
	catalog   Catalog
	cover     CoverProcessor
	log       zerolog.Logger
}

// New returns a Router.
func New(q *queue.Playlist, b Bus, d Discovery, c Catalog, cover CoverProcessor) *Router {
	return &Router{
		queue:     q,
		bus:       b,
		discovery: d,
		catalog:   c,
		cover:     cover,
		log:       logging.For("router"),
	}
}

// Commands is the filter the caller must pass to Bus.Subscribe: every
// pipeline command spec §4.6 dispatches on.
func Commands() []types.CommandTag {
	return []types.CommandTag{
		types.CommandTagAddTracks,
		types.CommandTagAddTracksForce,
		types.CommandTagAddBufferedTracks,
		types.CommandTagRadio,
		types.CommandTagPlayTrackForce,
		types.CommandTagPlayAlbumForce,
		types.CommandTagPlayArtistForce,
		types.CommandTagLike,
		types.CommandTagLoadCover,
		types.CommandTagShowScreen,
	}
}

// Run drains sub until ctx is cancelled, dispatching each command per
// spec §4.6's table. sub.Next blocks until a command arrives or ctx (the
// same context sub was created with) closes the subscription — that's
// what actually bounds the loop, not a per-iteration tick.
func (r *Router) Run(ctx context.Context, sub CommandSource) {
	for {
		cmd, ok := sub.Next(ctx)
		if !ok {
			return
		}
		r.dispatch(ctx, cmd)
	}
}

func (r *Router) dispatch(ctx context.Context, cmd types.Command) {
	switch c := cmd.(type) {
	case types.CommandAddTracks:
		r.queue.Push(c.Tracks)

	case types.CommandAddTracksForce:
		r.queue.PushForce(c.Tracks)

	case types.CommandAddBufferedTracks:
		r.queue.PushBuffered(c.Tracks)

	case types.CommandRadio:
		if err := r.discovery.Radio(ctx, c.TrackID); err != nil {
			r.log.Warn().Err(err).Str("track_id", c.TrackID).Msg("radio discovery failed")
			return
		}
		r.bus.PublishMessage(types.MessageRadioTracksLoaded{})

	case types.CommandPlayTrackForce:
		if err := r.discovery.Track(ctx, c.ID); err != nil {
			r.log.Warn().Err(err).Str("id", c.ID).Msg("track discovery failed")
			return
		}
		r.bus.PublishMessage(types.MessageTrackLoaded{})

	case types.CommandPlayAlbumForce:
		if err := r.discovery.Album(ctx, c.ID); err != nil {
			r.log.Warn().Err(err).Str("id", c.ID).Msg("album discovery failed")
			return
		}
		r.bus.PublishMessage(types.MessageAlbumTracksLoaded{})

	case types.CommandPlayArtistForce:
		if err := r.discovery.Artist(ctx, c.ID); err != nil {
			r.log.Warn().Err(err).Str("id", c.ID).Msg("artist discovery failed")
			return
		}
		r.bus.PublishMessage(types.MessageArtistTracksLoaded{})

	case types.CommandLike:
		if err := r.catalog.AddToFavorites(ctx, c.TrackID); err != nil {
			r.log.Warn().Err(err).Str("track_id", c.TrackID).Msg("add to favorites failed")
			return
		}
		r.bus.PublishMessage(types.MessageTrackAddedToFavorites{})

	case types.CommandLoadCover:
		path, err := r.cover.Process(ctx, c.URL)
		if err != nil {
			r.log.Warn().Err(err).Str("url", c.URL).Msg("cover processing failed")
			return
		}
		r.bus.PublishMessage(types.MessageCoverLoaded{URL: c.URL, Path: path})

	case types.CommandShowScreen:
		// [EXPANSION 4.6]: no in-process GUI consumer exists, so the router
		// re-publishes navigation intent as a message an external GUI
		// collaborator can subscribe to.
		r.bus.PublishMessage(types.MessageBrowserNavigated{Path: c.Path})
	}
}
