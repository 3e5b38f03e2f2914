package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/woodaudio/player/internal/logging"
)

// Config configures a Client. Token is a pre-obtained bearer token read
// from the persisted config; this client never performs the Tidal
// device-auth flow itself (spec §1 scopes the catalog HTTP client as an
// external collaborator; session/auth is out of scope here too).
type Config struct {
	BaseURL           string
	Token             string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client is the concrete Catalog collaborator, built on
// hashicorp/go-retryablehttp (matching the teacher's internal/api.Client)
// with client-side rate limiting via golang.org/x/time/rate.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *retryablehttp.Client
	limiter   *rate.Limiter
	log       zerolog.Logger
}

// New returns a Client ready to issue requests.
func New(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	} else {
		rc.HTTPClient.Timeout = 300 * time.Second // spec §5: catalog calls 300s
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		http:      rc,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		log:       logging.For("catalog"),
	}
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("catalog request failed")
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("catalog request rejected")
		return nil, fmt.Errorf("catalog HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchTrack downloads a track's compressed audio bytes. The track-level
// retry policy lives one layer up, in internal/fetcher, per spec §4.4/§9
// ("up to 4 retries, short-circuit on success", implemented as an explicit
// loop); each HTTP request is additionally retried by the retryablehttp
// client's own default policy.
func (c *Client) FetchTrack(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/tracks/"+id+"/stream")
}

// FetchCover downloads cover-image bytes from an already-templated URL.
func (c *Client) FetchCover(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cover HTTP %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) listTracks(ctx context.Context, path string) ([]TrackJSON, error) {
	body, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Items []TrackJSON `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal track list: %w", err)
	}
	return envelope.Items, nil
}

// ListFavorites returns the user's favorited tracks, unfiltered.
func (c *Client) ListFavorites(ctx context.Context) ([]TrackJSON, error) {
	return c.listTracks(ctx, "/favorites/tracks")
}

// ListTrackRadio returns the track-radio list seeded from id.
func (c *Client) ListTrackRadio(ctx context.Context, id string) ([]TrackJSON, error) {
	return c.listTracks(ctx, "/tracks/"+id+"/radio")
}

// ListAlbumTracks returns an album's track listing.
func (c *Client) ListAlbumTracks(ctx context.Context, id string) ([]TrackJSON, error) {
	return c.listTracks(ctx, "/albums/"+id+"/items")
}

// ListArtistTop returns an artist's top tracks.
func (c *Client) ListArtistTop(ctx context.Context, id string) ([]TrackJSON, error) {
	return c.listTracks(ctx, "/artists/"+id+"/toptracks")
}

// MixJSON is one row of the for-you page's module list before it is
// expanded into that mix's own track list.
type MixJSON struct {
	ID      string `json:"id"`
	MixType string `json:"mixType"`
}

// ListForYouMixes returns the mixes on the personalized "for you" page,
// traversing rows[].modules[].pagedList.items[] per
// original_source's parse_modules.
func (c *Client) ListForYouMixes(ctx context.Context) ([]MixJSON, error) {
	body, err := c.do(ctx, http.MethodGet, "/pages/for_you")
	if err != nil {
		return nil, err
	}
	items, err := parseModules(body)
	if err != nil {
		return nil, err
	}
	mixes := make([]MixJSON, 0, len(items))
	for _, raw := range items {
		var m MixJSON
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		if m.MixType == "" {
			continue
		}
		mixes = append(mixes, m)
	}
	return mixes, nil
}

// ListMixTracks returns one mix's tracks, same rows[].modules[].pagedList
// traversal as the for-you page itself.
func (c *Client) ListMixTracks(ctx context.Context, mixID string) ([]TrackJSON, error) {
	body, err := c.do(ctx, http.MethodGet, "/pages/mix?mixId="+mixID)
	if err != nil {
		return nil, err
	}
	items, err := parseModules(body)
	if err != nil {
		return nil, err
	}
	tracks := make([]TrackJSON, 0, len(items))
	for _, raw := range items {
		var tj TrackJSON
		if err := json.Unmarshal(raw, &tj); err != nil {
			continue
		}
		tracks = append(tracks, tj)
	}
	return tracks, nil
}

// AddToFavorites marks a track as favorited server-side.
func (c *Client) AddToFavorites(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/favorites/tracks/"+id)
	return err
}

// parseModules implements original_source's parse_modules: flatten
// rows[].modules[].pagedList.items[], skipping modules without a
// pagedList.
func parseModules(body []byte) ([]json.RawMessage, error) {
	var page struct {
		Rows []struct {
			Modules []struct {
				PagedList struct {
					Items []json.RawMessage `json:"items"`
				} `json:"pagedList"`
			} `json:"modules"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("unmarshal page: %w", err)
	}
	var items []json.RawMessage
	for _, row := range page.Rows {
		for _, mod := range row.Modules {
			items = append(items, mod.PagedList.Items...)
		}
	}
	return items, nil
}
