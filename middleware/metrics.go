package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/corvidhttp/corvid"
)

// MetricsConfig configures Metrics.
type MetricsConfig struct {
	// Namespace prefixes every metric name (see prometheus.Opts).
	Namespace string
	// Registerer is where the collectors below register themselves;
	// prometheus.DefaultRegisterer when nil.
	Registerer prometheus.Registerer
}

// Metrics instruments dispatch outcomes the way an operator diagnoses a
// routing layer: a counter of outcomes (handled/not_found/handler_failure)
// and a latency histogram, both labelled by the request's Name when set
// and by its request path otherwise, mirroring the teacher's
// logger-middleware wrapping shape but emitting to Prometheus instead
// of a log line.
func Metrics(config MetricsConfig) corvid.MiddlewareFunc {
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "corvid_requests_total",
		Help:      "Total dispatched requests by route pattern and outcome.",
	}, []string{"pattern", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      "corvid_request_duration_seconds",
		Help:      "Latency of dispatched requests by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pattern"})

	config.Registerer.MustRegister(requestsTotal, requestDuration)

	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			start := time.Now()
			err := next(c)
			pattern := c.Request.Path
			if name := c.Request.Name; name != "" {
				pattern = name
			}

			outcome := "handled"
			if err != nil {
				outcome = "handler_failure"
				if corvid.IsNotFound(err) {
					outcome = "not_found"
				}
			}

			requestsTotal.WithLabelValues(pattern, outcome).Inc()
			requestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
