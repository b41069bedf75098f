package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	refreshCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leadpane",
		Subsystem: "dashboard",
		Name:      "refreshes_total",
		Help:      "Number of successful dashboard refreshes.",
	})
	lastRefreshGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leadpane",
		Subsystem: "dashboard",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful refresh.",
	})
	leadsByStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "leadpane",
		Subsystem: "dashboard",
		Name:      "leads",
		Help:      "Leads per known status as of the last refresh.",
	}, []string{"status"})
	storeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadpane",
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Record store failures by operation.",
	}, []string{"op"})
	renderSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leadpane",
		Subsystem: "chart",
		Name:      "render_seconds",
		Help:      "Time spent drawing a chart.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"chart"})
	exportCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadpane",
		Subsystem: "export",
		Name:      "snapshots_total",
		Help:      "Snapshot pushes to the sink by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(refreshCounter, lastRefreshGauge, leadsByStatus, storeErrors, renderSeconds, exportCounter)
}

// RecordRefresh bumps the refresh counter and publishes the status counts.
func RecordRefresh(perStatus map[string]int) {
	refreshCounter.Inc()
	lastRefreshGauge.SetToCurrentTime()
	for status, n := range perStatus {
		leadsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

func RecordStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}

func ObserveRender(chart string, d time.Duration) {
	renderSeconds.WithLabelValues(chart).Observe(d.Seconds())
}

// RecordExport counts one push attempt; ok reports whether the sink accepted it.
func RecordExport(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	exportCounter.WithLabelValues(result).Inc()
}
