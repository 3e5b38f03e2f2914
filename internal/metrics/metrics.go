// Package metrics exposes the pipeline's Prometheus instrumentation:
// queue depth, fetch outcomes, commands published per tag, and player
// state, all scraped at /metrics by internal/httpapi.
//
// Grounded on ManuGH-xg2g/internal/api/metrics.go's promauto-registered
// package-level vars plus small Record* wrapper functions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueuePendingDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "woodaudio_queue_pending_depth",
		Help: "Number of tracks currently queued but not yet fetched.",
	})

	QueueReadyDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "woodaudio_queue_ready_depth",
		Help: "Number of buffered tracks ready for playback.",
	})

	FetchAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "woodaudio_fetch_attempts_total",
		Help: "Total catalog fetch attempts, including retries.",
	})

	FetchOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woodaudio_fetch_outcomes_total",
		Help: "Total fetch results by outcome.",
	}, []string{"outcome"}) // success, exhausted, dropped_preempted, cache_hit

	CommandsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woodaudio_commands_published_total",
		Help: "Total commands published to the bus, by tag.",
	}, []string{"tag"})

	PlayerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "woodaudio_player_state",
		Help: "Current player state: 0=idle, 1=playing, 2=paused.",
	})
)

// RecordFetchOutcome increments FetchOutcomesTotal for outcome.
func RecordFetchOutcome(outcome string) {
	FetchOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordCommandPublished increments CommandsPublishedTotal for tag.
func RecordCommandPublished(tag string) {
	CommandsPublishedTotal.WithLabelValues(tag).Inc()
}

// SetPlayerState encodes state as 0/1/2 per the PlayerState gauge's Help.
func SetPlayerState(state int) {
	PlayerState.Set(float64(state))
}

// SetQueueDepths updates both queue gauges in one call, matching the
// shape Lens() returns.
func SetQueueDepths(pending, ready int) {
	QueuePendingDepth.Set(float64(pending))
	QueueReadyDepth.Set(float64(ready))
}
