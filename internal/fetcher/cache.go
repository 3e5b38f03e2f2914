package fetcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/woodaudio/player/pkg/types"
)

// cacheKey normalizes a track into the "artist - title.flac" form
// original_source/src/downloader.rs uses as its cache filename: lowercase,
// path-separator-safe, control characters dropped. Accents are kept as-is.
func cacheKey(t types.Track) string {
	raw := t.ArtistName + " - " + t.Title + ".flac"
	return sanitize(strings.ToLower(raw))
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileCache is a filesystem-backed Cache. It stores one file per key under
// Dir. cmd/woodaudio always enables it; internal/config has no setting for
// it.
type FileCache struct {
	Dir string
}

// NewFileCache returns a FileCache rooted at dir, creating it if absent.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{Dir: dir}, nil
}

// Get returns the cached bytes for key, or (nil, false, nil) on a miss.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(c.Dir, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put writes data for key. Cache write failures never fail the fetch that
// triggered them (spec §7); callers should log and continue, never retry.
func (c *FileCache) Put(_ context.Context, key string, data []byte) error {
	return os.WriteFile(filepath.Join(c.Dir, key), data, 0o644)
}
