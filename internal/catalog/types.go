// Package catalog implements the one concrete Catalog collaborator this
// repo ships: a Tidal-shaped JSON HTTP client. spec §6 treats Catalog as
// an abstract capability consumed by C3/C4/C6; this package is the
// adapter from that capability onto the wire format described in
// original_source/src/backend/tidal/mod.rs.
package catalog

import "github.com/woodaudio/player/pkg/types"

// TrackJSON mirrors the subset of Tidal's track object the client reads,
// per spec §6: id, title, artists[].name, album.title/cover, duration
// (seconds), adSupportedStreamReady. Exported so internal/discovery can
// apply the ad-supported filter before projecting.
type TrackJSON struct {
	ID                     int64        `json:"id"`
	Title                  string       `json:"title"`
	Duration               int64        `json:"duration"`
	AdSupportedStreamReady bool         `json:"adSupportedStreamReady"`
	Artists                []artistJSON `json:"artists"`
	Album                  albumJSON    `json:"album"`
}

type artistJSON struct {
	Name string `json:"name"`
}

type albumJSON struct {
	Title string `json:"title"`
	Cover string `json:"cover"`
}

const defaultCoverUUID = "0dfd3368-3aa1-49a3-935f-10ffb39803c0"

// ToTrack projects a TrackJSON into the strict types.Track record, per
// spec §9's "narrow projection layer at the boundary" design note.
// Missing optional fields fall back to documented defaults.
func (tj TrackJSON) ToTrack() types.Track {
	cover := tj.Album.Cover
	if cover == "" {
		cover = defaultCoverUUID
	}
	return types.Track{
		ID:            formatID(tj.ID),
		Title:         tj.Title,
		ArtistName:    joinArtists(tj.Artists),
		AlbumName:     tj.Album.Title,
		AlbumImageURL: coverURL(cover),
		Duration:      secondsToDuration(tj.Duration),
	}
}
