package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/woodaudio/player/internal/catalog"
	"github.com/woodaudio/player/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubCatalog struct {
	favorites []catalog.TrackJSON
	mixes     []catalog.MixJSON
	mixTracks map[string][]catalog.TrackJSON
	radio     []catalog.TrackJSON
	album     []catalog.TrackJSON
	artist    []catalog.TrackJSON
}

func (s *stubCatalog) ListFavorites(context.Context) ([]catalog.TrackJSON, error) { return s.favorites, nil }
func (s *stubCatalog) ListForYouMixes(context.Context) ([]catalog.MixJSON, error) { return s.mixes, nil }
func (s *stubCatalog) ListMixTracks(_ context.Context, mixID string) ([]catalog.TrackJSON, error) {
	return s.mixTracks[mixID], nil
}
func (s *stubCatalog) ListTrackRadio(context.Context, string) ([]catalog.TrackJSON, error) { return s.radio, nil }
func (s *stubCatalog) ListAlbumTracks(context.Context, string) ([]catalog.TrackJSON, error) { return s.album, nil }
func (s *stubCatalog) ListArtistTop(context.Context, string) ([]catalog.TrackJSON, error)   { return s.artist, nil }

type recordingBus struct {
	messages []types.Message
}

func (r *recordingBus) PublishMessage(msg types.Message) {
	r.messages = append(r.messages, msg)
}

func TestSeed_FiltersToAdSupportedAndEmitsOnePerTrack(t *testing.T) {
	cat := &stubCatalog{
		favorites: []catalog.TrackJSON{
			{ID: 1, Title: "ready", AdSupportedStreamReady: true},
			{ID: 2, Title: "not-ready", AdSupportedStreamReady: false},
		},
	}
	rb := &recordingBus{}
	c := New(cat, rb)

	c.Seed(context.Background())

	require.Len(t, rb.messages, 1)
	msg, ok := rb.messages[0].(types.MessageTrackDiscovered)
	require.True(t, ok)
	assert.Equal(t, "1", msg.Track.ID)
}

func TestRadio_EmitsSingleHighPriorityBatchFilteredToAdSupported(t *testing.T) {
	cat := &stubCatalog{
		radio: []catalog.TrackJSON{
			{ID: 10, AdSupportedStreamReady: true},
			{ID: 11, AdSupportedStreamReady: false},
			{ID: 12, AdSupportedStreamReady: true},
		},
	}
	rb := &recordingBus{}
	c := New(cat, rb)

	err := c.Radio(context.Background(), "seed-track")
	require.NoError(t, err)
	require.Len(t, rb.messages, 1)

	batch, ok := rb.messages[0].(types.MessageTracksDiscoveredHighPriority)
	require.True(t, ok)
	require.Len(t, batch.Tracks, 2)
	assert.Equal(t, "10", batch.Tracks[0].ID)
	assert.Equal(t, "12", batch.Tracks[1].ID)
}

func TestSeedForYouMixes_ShufflesMixesAndTracksIndependently(t *testing.T) {
	cat := &stubCatalog{
		mixes: []catalog.MixJSON{
			{ID: "m1", MixType: "MIX"},
			{ID: "m2", MixType: "MIX"},
		},
		mixTracks: map[string][]catalog.TrackJSON{
			"m1": {{ID: 1, AdSupportedStreamReady: true}, {ID: 2, AdSupportedStreamReady: true}},
			"m2": {{ID: 3, AdSupportedStreamReady: true}},
		},
	}
	rb := &recordingBus{}
	c := New(cat, rb)

	c.Seed(context.Background())

	// 3 mix tracks total, all ad-supported; order is not asserted since
	// the shuffle is intentionally non-deterministic.
	require.Len(t, rb.messages, 3)
	seen := map[string]bool{}
	for _, m := range rb.messages {
		td := m.(types.MessageTrackDiscovered)
		seen[td.Track.ID] = true
	}
	assert.True(t, seen["1"] && seen["2"] && seen["3"])
}
