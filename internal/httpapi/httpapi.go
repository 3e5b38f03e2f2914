// Package httpapi implements the Control HTTP surface of spec §6: four
// action routes that translate an external trigger (a hotkey daemon, a phone
// widget) into a user-intent message on the bus, plus a Prometheus
// /metrics endpoint.
//
// Grounded on ManuGH-xg2g's go-chi/chi usage (the teacher has no HTTP
// server of its own to generalize) for router construction and handler
// shape, and on spec.md §6's route contract.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/pkg/types"
)

// Bus is the subset of *bus.Bus the control surface needs.
type Bus interface {
	PublishMessage(msg types.Message)
}

// Server is the control HTTP surface. The zero value is not usable; use
// New.
type Server struct {
	bus Bus
	log zerolog.Logger
}

// New returns a Server.
func New(b Bus) *Server {
	return &Server{bus: b, log: logging.For("httpapi")}
}

// Router builds the chi.Router serving spec §6's four action routes plus
// /metrics.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/action/next", s.handleNext)
	r.Post("/action/play", s.handlePlay)
	r.Post("/action/pause", s.handlePause)
	r.Post("/action/play_by_url", s.handlePlayByURL)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	s.bus.PublishMessage(types.MessageUserPlayNext{})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlay(w http.ResponseWriter, _ *http.Request) {
	s.bus.PublishMessage(types.MessageUserPlay{})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.bus.PublishMessage(types.MessageUserPause{})
	w.WriteHeader(http.StatusNoContent)
}

// playByURLRequest is the JSON body spec §6 and original_source/src/http.rs
// both require: {"url": "https://tidal.com/browse/track/12345"}.
type playByURLRequest struct {
	URL string `json:"url"`
}

// handlePlayByURL implements spec §6's "POST /action/play_by_url": decode
// the JSON body's url field, extract its last path segment as the item ID,
// and classify track/album/artist from the segment preceding it.
func (s *Server) handlePlayByURL(w http.ResponseWriter, r *http.Request) {
	var body playByURLRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	kind, id, ok := parsePlayByURL(body.URL)
	if !ok {
		http.Error(w, "unrecognized url shape", http.StatusBadRequest)
		return
	}

	switch kind {
	case "track":
		s.bus.PublishMessage(types.MessageUserPlayTrack{ID: id})
	case "album":
		s.bus.PublishMessage(types.MessageUserPlayAlbum{ID: id})
	case "artist":
		s.bus.PublishMessage(types.MessageUserPlayArtist{ID: id})
	default:
		http.Error(w, "unrecognized url shape", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parsePlayByURL takes a Tidal-shaped URL such as
// "https://tidal.com/browse/track/12345" and returns ("track", "12345",
// true). kind is whatever segment precedes the ID, unvalidated beyond
// non-empty — the caller maps the recognized set.
func parsePlayByURL(url string) (kind, id string, ok bool) {
	segments := strings.Split(strings.TrimRight(url, "/"), "/")
	if len(segments) < 2 {
		return "", "", false
	}
	id = segments[len(segments)-1]
	kind = segments[len(segments)-2]
	if id == "" || kind == "" {
		return "", "", false
	}
	return kind, id, true
}
