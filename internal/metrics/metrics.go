package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	DepartureQueries *prometheus.CounterVec // stop label
	QueryDuration    prometheus.Histogram

	ScheduleRecords *prometheus.GaugeVec // stop label
	BuildDuration   prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		DepartureQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transpors_departure_queries_total",
			Help: "Departure queries answered, per stop.",
		}, []string{"stop"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "transpors_query_duration_seconds",
			Help:    "Time spent filtering and sorting a stop's schedule.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),
		ScheduleRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "transpors_schedule_records",
			Help: "Records in the loaded schedule of each stop.",
		}, []string{"stop"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "transpors_schedule_build_duration_seconds",
			Help:    "Time spent building the schedules of all configured stops.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	reg.MustRegister(c.DepartureQueries, c.QueryDuration, c.ScheduleRecords, c.BuildDuration)

	return c
}

// ObserveQuery counts a departure query for stopID and records its duration.
func (c *Collector) ObserveQuery(stopID string, d time.Duration) {
	c.DepartureQueries.WithLabelValues(stopID).Inc()
	c.QueryDuration.Observe(d.Seconds())
}

// SetScheduleRecords publishes the size of a stop's schedule.
func (c *Collector) SetScheduleRecords(stopID string, records int) {
	c.ScheduleRecords.WithLabelValues(stopID).Set(float64(records))
}

// ObserveBuild records how long building all schedules took.
func (c *Collector) ObserveBuild(d time.Duration) {
	c.BuildDuration.Observe(d.Seconds())
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }
