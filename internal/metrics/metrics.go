// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brokerdesk/internal/docpath"
	"brokerdesk/internal/domain"
)

const namespace = "brokerdesk"

// Registry is the registry every collector of this package is registered on.
var Registry = prometheus.NewRegistry()

var (
	reqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "path", "status"},
	)
	resolutionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_resolutions_total", Help: "Document resolutions by the strategy that located them"},
		[]string{"method"},
	)
	repairRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_repair_runs_total", Help: "Document repair runs by outcome"},
		[]string{"outcome"},
	)
	repairFixed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_repair_fixed_total", Help: "Document references rewritten by repair runs"},
	)
	repairMissing = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "document_repair_missing", Help: "Documents the last repair run could not locate"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		reqDuration, reqTotal, resolutionTotal, repairRuns, repairFixed, repairMissing,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	s := strconv.Itoa(status)
	reqDuration.WithLabelValues(method, path, s).Observe(elapsed.Seconds())
	reqTotal.WithLabelValues(method, path, s).Inc()
}

// ObserveResolution counts a document resolution; it matches the resolver observer signature.
func ObserveResolution(m docpath.Method) {
	resolutionTotal.WithLabelValues(string(m)).Inc()
}

// ObserveRepair records the outcome of a repair run. report may be nil when the run failed early.
func ObserveRepair(report *domain.RepairReport, err error) {
	if err != nil {
		repairRuns.WithLabelValues("error").Inc()
	} else {
		repairRuns.WithLabelValues("ok").Inc()
	}
	if report == nil || report.DryRun {
		return
	}
	repairFixed.Add(float64(report.FixedPaths))
	repairMissing.Set(float64(len(report.Missing)))
}
