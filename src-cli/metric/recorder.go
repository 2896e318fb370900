package metric

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the metrics of one invocation. They are written to a
// node_exporter textfile rather than served.
type Recorder struct {
	registry *prometheus.Registry

	databaseRead  prometheus.Gauge
	databaseWrite prometheus.Gauge
	eventsWritten *prometheus.CounterVec
}

func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		databaseRead: factory.NewGauge(prometheus.GaugeOpts{
			Name: "toki_database_read_microsec",
			Help: "The latency of the last database read in microseconds",
		}),
		databaseWrite: factory.NewGauge(prometheus.GaugeOpts{
			Name: "toki_database_write_microsec",
			Help: "The latency of the last database write in microseconds",
		}),
		eventsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toki_events_written_total",
			Help: "Events stored, moved or deleted, by operation",
		}, []string{"op"}),
	}
}

// Registry exposes the recorder's metrics for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) DatabaseRead(since time.Time) {
	r.databaseRead.Set(float64(time.Since(since).Microseconds()))
}

func (r *Recorder) DatabaseWrite(since time.Time) {
	r.databaseWrite.Set(float64(time.Since(since).Microseconds()))
}

func (r *Recorder) EventsWritten(op string, n int) {
	if n <= 0 {
		return
	}
	r.eventsWritten.WithLabelValues(op).Add(float64(n))
}

// WriteTextfile dumps every metric to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("WriteTextfile: %w", err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}
