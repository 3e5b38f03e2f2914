package router

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/woodaudio/player/internal/queue"
	"github.com/woodaudio/player/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingBus struct {
	mu       sync.Mutex
	messages []types.Message
}

func (r *recordingBus) PublishMessage(msg types.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingBus) last() types.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return nil
	}
	return r.messages[len(r.messages)-1]
}

type stubDiscovery struct {
	radioErr, trackErr, albumErr, artistErr error
	radioID, trackID, albumID, artistID     string
}

func (s *stubDiscovery) Radio(_ context.Context, id string) error  { s.radioID = id; return s.radioErr }
func (s *stubDiscovery) Track(_ context.Context, id string) error  { s.trackID = id; return s.trackErr }
func (s *stubDiscovery) Album(_ context.Context, id string) error  { s.albumID = id; return s.albumErr }
func (s *stubDiscovery) Artist(_ context.Context, id string) error { s.artistID = id; return s.artistErr }

type stubCatalog struct {
	favoritedID string
	err         error
}

func (s *stubCatalog) AddToFavorites(_ context.Context, id string) error {
	s.favoritedID = id
	return s.err
}

type stubCover struct {
	path string
	err  error
}

func (s *stubCover) Process(_ context.Context, url string) (string, error) { return s.path, s.err }

func newRouter() (*Router, *recordingBus, *queue.Playlist, *stubDiscovery, *stubCatalog, *stubCover) {
	q := queue.New()
	rb := &recordingBus{}
	d := &stubDiscovery{}
	c := &stubCatalog{}
	cv := &stubCover{path: "/covers/x.jpg"}
	return New(q, rb, d, c, cv), rb, q, d, c, cv
}

func TestDispatch_AddTracksPushesToPending(t *testing.T) {
	r, _, q, _, _, _ := newRouter()
	r.dispatch(context.Background(), types.CommandAddTracks{Tracks: []types.Track{{ID: "a"}}})
	pending, _ := q.Lens()
	assert.Equal(t, 1, pending)
}

func TestDispatch_AddTracksForceInvokesPushForce(t *testing.T) {
	r, _, q, _, _, _ := newRouter()
	q.Push([]types.Track{{ID: "old"}})
	r.dispatch(context.Background(), types.CommandAddTracksForce{Tracks: []types.Track{{ID: "new"}}})
	pending, _ := q.Lens()
	assert.Equal(t, 2, pending)
	assert.True(t, q.ForcePreempt())
}

func TestDispatch_RadioPublishesRadioTracksLoadedOnSuccess(t *testing.T) {
	r, rb, _, d, _, _ := newRouter()
	r.dispatch(context.Background(), types.CommandRadio{TrackID: "seed"})
	assert.Equal(t, "seed", d.radioID)
	_, ok := rb.last().(types.MessageRadioTracksLoaded)
	assert.True(t, ok)
}

func TestDispatch_RadioFailureDoesNotPublish(t *testing.T) {
	r, rb, _, d, _, _ := newRouter()
	d.radioErr = errors.New("boom")
	r.dispatch(context.Background(), types.CommandRadio{TrackID: "seed"})
	assert.Nil(t, rb.last())
}

func TestDispatch_LikePublishesTrackAddedToFavorites(t *testing.T) {
	r, rb, _, _, c, _ := newRouter()
	r.dispatch(context.Background(), types.CommandLike{TrackID: "t1"})
	assert.Equal(t, "t1", c.favoritedID)
	_, ok := rb.last().(types.MessageTrackAddedToFavorites)
	assert.True(t, ok)
}

func TestDispatch_LoadCoverPublishesCoverLoadedWithPath(t *testing.T) {
	r, rb, _, _, _, _ := newRouter()
	r.dispatch(context.Background(), types.CommandLoadCover{URL: "http://x/cover.jpg"})
	msg, ok := rb.last().(types.MessageCoverLoaded)
	require.True(t, ok)
	assert.Equal(t, "/covers/x.jpg", msg.Path)
}

func TestDispatch_ShowScreenPublishesBrowserNavigated(t *testing.T) {
	r, rb, _, _, _, _ := newRouter()
	r.dispatch(context.Background(), types.CommandShowScreen{Path: "/player"})
	msg, ok := rb.last().(types.MessageBrowserNavigated)
	require.True(t, ok)
	assert.Equal(t, "/player", msg.Path)
}

type fakeSource struct {
	mu   sync.Mutex
	cmds []types.Command
}

func (f *fakeSource) push(c types.Command) {
	f.mu.Lock()
	f.cmds = append(f.cmds, c)
	f.mu.Unlock()
}

func (f *fakeSource) Next(ctx context.Context) (types.Command, bool) {
	for {
		f.mu.Lock()
		if len(f.cmds) > 0 {
			c := f.cmds[0]
			f.cmds = f.cmds[1:]
			f.mu.Unlock()
			return c, true
		}
		f.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRun_DispatchesQueuedCommandsUntilCancelled(t *testing.T) {
	r, _, q, _, _, _ := newRouter()
	src := &fakeSource{}
	src.push(types.CommandAddTracks{Tracks: []types.Track{{ID: "a"}}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { r.Run(ctx, src); close(done) }()

	require.Eventually(t, func() bool {
		pending, _ := q.Lens()
		return pending == 1
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}
