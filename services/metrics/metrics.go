// Package metrics records schedule resolutions and HTTP traffic with Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/bellplus/core/schedule"
)

type Recorder struct {
	registry      *prometheus.Registry
	resolutions   *prometheus.CounterVec
	indeterminate prometheus.Counter
	remaining     *prometheus.GaugeVec
	requests      *prometheus.CounterVec
	streams       prometheus.Gauge
}

var _ schedule.Observer = (*Recorder)(nil)

// NewRecorder registers the app collectors (and the Go/process ones) on a fresh registry.
func NewRecorder(namespace string) *Recorder {
	rec := &Recorder{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Schedule resolutions, by schedule and whether the time was within active hours.",
		}, []string{"schedule", "outside"}),
		indeterminate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indeterminate_resolutions_total",
			Help:      "Resolutions that could not determine the current period.",
		}),
		remaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "period_remaining_seconds",
			Help:      "Time left in the current period at the last resolution, by schedule.",
		}, []string{"schedule"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timer_streams_active",
			Help:      "Open timer event streams.",
		}),
	}
	rec.registry.MustRegister(
		rec.resolutions,
		rec.indeterminate,
		rec.remaining,
		rec.requests,
		rec.streams,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return rec
}

func (rec *Recorder) ObserveResolution(res schedule.Result) {
	rec.resolutions.WithLabelValues(res.Schedule, strconv.FormatBool(res.Outside)).Inc()
	if res.Indeterminate {
		rec.indeterminate.Inc()
	}
	rec.remaining.WithLabelValues(res.Schedule).Set(res.Remaining().Seconds())
}

func (rec *Recorder) ObserveRequest(route string, code int) {
	rec.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// StreamOpened tracks an open event stream, call the returned func when it closes.
func (rec *Recorder) StreamOpened() func() {
	rec.streams.Inc()
	return rec.streams.Dec
}

// Handler serves the registry in the Prometheus exposition format.
func (rec *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(rec.registry, promhttp.HandlerOpts{})
}
