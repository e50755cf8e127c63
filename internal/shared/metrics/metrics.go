package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by route and status code.",
	}, []string{"route", "status"})

	// RequestDuration observes HTTP request latency in seconds.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// ConversionsTotal counts document conversions by outcome.
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "document_conversions_total",
		Help: "Total document conversions by outcome.",
	}, []string{"outcome"})

	// CollabAuthTotal counts collaboration session authorizations by outcome.
	CollabAuthTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collab_auth_total",
		Help: "Total collaboration session authorizations by outcome.",
	}, []string{"outcome"})

	// UploadBytes observes uploaded document sizes in bytes.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_upload_bytes",
		Help:    "Uploaded document size in bytes.",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
