// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hr_admin"

type metrics struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	batchCommits *prometheus.CounterVec
	batchOps     *prometheus.CounterVec

	countCorrections prometheus.Counter
	unresolved       prometheus.Gauge

	auditAppends *prometheus.CounterVec
	liveClients  prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		batchCommits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_commits_total",
			Help:      "Total number of atomic batch commits by operation and result.",
		}, []string{"op", "result"}),
		batchOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_staged_ops_total",
			Help:      "Total number of staged operations in committed batches.",
		}, []string{"op"}),
		countCorrections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "member_count_corrections_total",
			Help:      "Department counters rewritten by recounts.",
		}),
		unresolved: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unresolved_employees",
			Help:      "Employees whose department did not resolve at the last recount.",
		}),
		auditAppends: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_appends_total",
			Help:      "Audit event appends by result.",
		}, []string{"result"}),
		liveClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_feed_subscribers",
			Help:      "Currently connected change feed subscribers.",
		}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m := getMetrics()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBatch records a batch commit attempt for op.
func ObserveBatch(op string, staged int, err error) {
	m := getMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.batchCommits.WithLabelValues(op, result).Inc()
	if err == nil {
		m.batchOps.WithLabelValues(op).Add(float64(staged))
	}
}

// ObserveRecount records the outcome of a full recount.
func ObserveRecount(corrections, unresolved int) {
	m := getMetrics()
	m.countCorrections.Add(float64(corrections))
	m.unresolved.Set(float64(unresolved))
}

// ObserveAuditAppend records one background audit write.
func ObserveAuditAppend(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	getMetrics().auditAppends.WithLabelValues(result).Inc()
}

// LiveSubscriberConnected adjusts the live subscriber gauge by +1 and
// returns the matching release func.
func LiveSubscriberConnected() func() {
	g := getMetrics().liveClients
	g.Inc()
	var once sync.Once
	return func() { once.Do(g.Dec) }
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	getMetrics()
	return promhttp.Handler()
}
