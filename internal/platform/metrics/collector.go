package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/watercycle-memory/internal/events"
)

// Namespace prefixes every metric name.
const Namespace = "cycle"

// Collector turns game events into Prometheus metrics.
type Collector struct {
	events       *prometheus.CounterVec
	gamesWon     prometheus.Counter
	liveSessions prometheus.Gauge
	moves        prometheus.Histogram
	seconds      prometheus.Histogram
}

// Ensure Collector implements events.EventHandler.
var _ events.EventHandler = (*Collector)(nil)

// NewCollector creates the game metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "game_events_total",
			Help:      "Game events published, by type.",
		}, []string{"type"}),
		gamesWon: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "games_won_total",
			Help:      "Games in which every pair was found.",
		}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "live_sessions",
			Help:      "Game sessions currently held in memory.",
		}),
		moves: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "game_moves",
			Help:      "Moves needed to complete a game.",
			Buckets:   []float64{8, 10, 12, 15, 20, 25, 30, 40, 60},
		}),
		seconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "game_duration_seconds",
			Help:      "Elapsed game clock when a game is completed.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 8),
		}),
	}

	for _, m := range []prometheus.Collector{c.events, c.gamesWon, c.liveSessions, c.moves, c.seconds} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return c, nil
}

type wonPayload struct {
	Game struct {
		Moves   int `json:"moves"`
		Seconds int `json:"seconds"`
	} `json:"game"`
}

// HandleEvent implements events.EventHandler.
func (c *Collector) HandleEvent(ctx context.Context, event *events.GameEvent) error {
	c.events.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case events.TypeSessionStarted:
		c.liveSessions.Inc()
	case events.TypeSessionEnded:
		c.liveSessions.Dec()
	case events.TypeGameWon:
		c.gamesWon.Inc()
		var p wonPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		c.moves.Observe(float64(p.Game.Moves))
		c.seconds.Observe(float64(p.Game.Seconds))
	}
	return nil
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
