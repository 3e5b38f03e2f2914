package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodaudio/player/pkg/types"
)

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

func TestHandleNext_PublishesUserPlayNext(t *testing.T) {
	rb := &recordingBus{}
	s := New(rb)
	req := httptest.NewRequest(http.MethodPost, "/action/next", nil)
	rr := httptest.NewRecorder()

	s.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, ok := rb.last().(types.MessageUserPlayNext)
	assert.True(t, ok)
}

func TestHandlePlayByURL_ClassifiesTrack(t *testing.T) {
	rb := &recordingBus{}
	s := New(rb)
	body := `{"url": "https://tidal.com/browse/track/555"}`
	req := httptest.NewRequest(http.MethodPost, "/action/play_by_url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	s.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	msg, ok := rb.last().(types.MessageUserPlayTrack)
	require.True(t, ok)
	assert.Equal(t, "555", msg.ID)
}

func TestHandlePlayByURL_ClassifiesAlbum(t *testing.T) {
	rb := &recordingBus{}
	s := New(rb)
	body := `{"url": "https://tidal.com/browse/album/777"}`
	req := httptest.NewRequest(http.MethodPost, "/action/play_by_url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	s.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	msg, ok := rb.last().(types.MessageUserPlayAlbum)
	require.True(t, ok)
	assert.Equal(t, "777", msg.ID)
}

func TestHandlePlayByURL_RejectsMalformedURL(t *testing.T) {
	rb := &recordingBus{}
	s := New(rb)
	body := `{"url": "not-a-url"}`
	req := httptest.NewRequest(http.MethodPost, "/action/play_by_url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	s.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, rb.last())
}

func TestHandlePlayByURL_RejectsInvalidJSON(t *testing.T) {
	rb := &recordingBus{}
	s := New(rb)
	req := httptest.NewRequest(http.MethodPost, "/action/play_by_url", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	s.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, rb.last())
}
