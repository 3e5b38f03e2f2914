// Package types holds the data model shared by every pipeline component:
// catalog-level tracks, buffered (decoded-ready) tracks, covers, and the
// Command/Message/State vocabulary the bus moves between them.
package types

import "time"

// Track is a catalog-level descriptor. It is immutable once constructed
// and compared by ID alone.
type Track struct {
	ID            string
	Title         string
	ArtistName    string
	AlbumName     string
	AlbumImageURL string
	Duration      time.Duration
}

// Equal compares tracks by ID, per the data model's equality rule.
func (t Track) Equal(other Track) bool {
	return t.ID == other.ID
}

// Cover is a pair of optional filesystem paths to pre-rendered cover
// images. The zero value is the canonical empty cover.
type Cover struct {
	Foreground string
	Background string
}

// Empty reports whether neither image path is set.
func (c Cover) Empty() bool {
	return c.Foreground == "" && c.Background == ""
}

// BufferedTrack is a Track plus its fully-materialized compressed audio
// bytes and an optional cover. It is created only by the fetcher and is
// owned by exactly one stage of the pipeline at a time: the ready queue,
// then the player.
type BufferedTrack struct {
	Track  Track
	Stream []byte
	Cover  Cover
}

// Valid reports the §3 invariant that a BufferedTrack in the ready stage
// always carries a non-empty byte stream.
func (b BufferedTrack) Valid() bool {
	return len(b.Stream) > 0
}
