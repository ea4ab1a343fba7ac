// Package metrics holds the Prometheus collectors of the fee service. They are
// package level so any package can record without an import cycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultMissing  = "missing"

	OutcomeAdded         = "added"
	OutcomeRemoved       = "removed"
	OutcomeNothingToDo   = "noop"
	OutcomeInvalidAmount = "invalid_amount"
	OutcomeNotFound      = "not_found"
	OutcomeMissingID     = "missing_id"
	OutcomeFailed        = "failed"
)

var (
	TokenVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posfee_token_verifications_total",
		Help: "Security token checks by result",
	}, []string{"result"})

	FeeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posfee_fee_operations_total",
		Help: "Credit card fee add/remove requests by outcome",
	}, []string{"operation", "outcome"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posfee_http_requests_total",
		Help: "Requests processed, by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posfee_http_request_duration_seconds",
		Help:    "Request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Register registers the collectors on reg (or the default registry if nil).
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	for _, c := range []prometheus.Collector{TokenVerifications, FeeOperations, HTTPRequests, HTTPDuration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

func RecordToken(result string) {
	TokenVerifications.WithLabelValues(result).Inc()
}

func RecordFee(operation, outcome string) {
	FeeOperations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware counts and times requests. Routes are labelled by their pattern so
// order ids do not blow up the label cardinality.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method

		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
