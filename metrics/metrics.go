package metrics

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metrics instruments outgoing requests to the cypher service.
type Metrics struct {
	// RequestsTotal counts finished requests by status code and method.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration is the latency of requests, headers received.
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New creates the client metrics and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cypher_client_requests_total",
				Help: "Total number of requests sent to the cypher service",
			},
			[]string{"code", "method"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cypher_client_request_duration_seconds",
				Help:    "Cypher service request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cypher_client_in_flight_requests",
			Help: "Requests to the cypher service currently in flight",
		}),
	}
	for _, c := range []prometheus.Collector{m.RequestsTotal, m.RequestDuration, m.InFlight} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register client metrics")
		}
	}
	return m, nil
}

// InstrumentRoundTripper wraps next so every request is counted and timed.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(m.InFlight,
		promhttp.InstrumentRoundTripperCounter(m.RequestsTotal,
			promhttp.InstrumentRoundTripperDuration(m.RequestDuration, next),
		),
	)
}

// WriteText writes everything g collects in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}
