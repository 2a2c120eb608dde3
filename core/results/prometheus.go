package results

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink exports the samples as Prometheus metrics.
type PrometheusSink struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytes    *prometheus.CounterVec
}

// NewPrometheusSink creates the metrics under the given namespace and
// registers them on registerer.
func NewPrometheusSink(namespace string, registerer prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of requests sent, by outcome",
		}, []string{"kind", "name", "outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_milliseconds",
			Help:      "Round trip latency of requests in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"kind", "name"}),

		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_bytes_total",
			Help:      "Total number of bytes received in responses",
		}, []string{"kind", "name"}),
	}

	for _, c := range []prometheus.Collector{s.requests, s.duration, s.bytes} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *PrometheusSink) Report(kind, name string, elapsedMs int64, length int, err error, context map[string]interface{}) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	s.requests.WithLabelValues(kind, name, outcome).Inc()
	s.duration.WithLabelValues(kind, name).Observe(float64(elapsedMs))
	s.bytes.WithLabelValues(kind, name).Add(float64(length))
}
