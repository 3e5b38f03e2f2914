package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func joinArtists(artists []artistJSON) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// coverURL applies the template and `-`->`/` substitution from
// original_source/src/backend/tidal/mod.rs's Track::build_from_json.
func coverURL(cover string) string {
	slashed := strings.ReplaceAll(cover, "-", "/")
	return fmt.Sprintf("https://resources.tidal.com/images/%s/320x320.jpg", slashed)
}

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}
