package bus

import (
	"time"

	"github.com/woodaudio/player/pkg/types"
)

// reduce is the bus's total reducer: (State, Message) -> (State, []Command).
// It is pure — no locking, no I/O — so PublishMessage can commit the state
// transition and only then broadcast the derived commands, matching
// spec §5's "state transition commits before any derived commands are
// broadcast".
func reduce(prev types.State, msg types.Message) (types.State, []types.Command) {
	next := prev

	switch m := msg.(type) {
	case types.MessagePlayerPlayingNewTrack:
		ts := types.NewTrackStateFromBufferedTrack(m.Track)
		zero := time.Duration(0)
		next.Track = &ts
		next.Player.Case = types.PlayerCasePlaying
		next.Player.PlayingTime = &zero

	case types.MessagePlayerElapsed:
		d := m.Elapsed
		next.Player.PlayingTime = &d

	case types.MessagePlayerQueueEmpty:
		next.Track = nil
		next.Player.Case = types.PlayerCaseLoading
		next.Player.PlayingTime = nil

	case types.MessagePlayerPlaying:
		next.Player.Case = types.PlayerCasePlaying

	case types.MessagePlayerPaused:
		next.Player.Case = types.PlayerCasePaused

	case types.MessageUserPlay:
		return next, []types.Command{types.CommandPlay{}}

	case types.MessageUserPause:
		return next, []types.Command{types.CommandPause{}}

	case types.MessageUserPlayNext:
		return next, []types.Command{types.CommandNext{}}

	case types.MessageUserLoadRadio:
		if prev.Track == nil {
			return next, nil
		}
		return next, []types.Command{
			types.CommandPause{},
			types.CommandRadio{TrackID: prev.Track.ID},
		}

	case types.MessageUserPlayTrack:
		return next, []types.Command{
			types.CommandPause{},
			types.CommandPlayTrackForce{ID: m.ID},
		}

	case types.MessageUserPlayAlbum:
		return next, []types.Command{
			types.CommandPause{},
			types.CommandPlayAlbumForce{ID: m.ID},
		}

	case types.MessageUserPlayArtist:
		return next, []types.Command{
			types.CommandPause{},
			types.CommandPlayArtistForce{ID: m.ID},
		}

	case types.MessageUserLike:
		if prev.Track == nil {
			return next, nil
		}
		return next, []types.Command{types.CommandLike{TrackID: prev.Track.ID}}

	case types.MessageTrackAddedToFavorites:
		// no state change, no emitted command.

	case types.MessageTrackDiscovered:
		return next, []types.Command{types.CommandAddTracks{Tracks: []types.Track{m.Track}}}

	case types.MessageTracksDiscoveredHighPriority:
		return next, []types.Command{types.CommandAddTracksForce{Tracks: m.Tracks}}

	case types.MessageTrackDiscoveredLocally:
		return next, []types.Command{types.CommandAddBufferedTracks{Tracks: []types.BufferedTrack{m.Track}}}

	case types.MessageRadioTracksLoaded, types.MessageTrackLoaded,
		types.MessageAlbumTracksLoaded, types.MessageArtistTracksLoaded:
		// Open Question #2: push_force while mid-track does not interrupt
		// the current track; these completion messages additionally emit
		// Next so a forced selection starts as soon as the router sees it.
		return next, []types.Command{types.CommandNext{}}

	case types.MessageTidalBackendInitializing:
		next.Backends.TidalCase = types.TidalBackendInitializing
		next.Backends.TidalLoginURL = ""

	case types.MessageTidalBackendLoginLinkCreated:
		next.Backends.TidalCase = types.TidalBackendWaitingForLogin
		next.Backends.TidalLoginURL = m.URL

	case types.MessageTidalBackendInitialized:
		next.Backends.TidalCase = types.TidalBackendReady
		next.Backends.TidalLoginURL = ""
		return next, []types.Command{types.CommandShowScreen{Path: "/player"}}

	case types.MessageCoverLoaded:
		covers := cloneCovers(prev.Covers)
		covers[m.URL] = m.Path
		next.Covers = covers

	case types.MessageBrowserItemsLoaded:
		next.Browser = &types.BrowserState{Items: m.Items}

	case types.MessageBrowserNavigated:
		// GUI-facing only; no core state change.
	}

	return next, nil
}

func cloneCovers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
