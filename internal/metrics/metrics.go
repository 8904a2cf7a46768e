package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shinyyama/leaderboard-backend/internal/webhook"
)

const namespace = "leaderboard"

// Metrics owns a private registry. A nil *Metrics records nothing and
// serves 404 from Handler.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	webhookEvents *prometheus.CounterVec
	ledgerWrites  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"route", "method", "status"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Webhook events received, by event type and outcome.",
	}, []string{"event", "outcome"})
	ledgerWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_writes_total",
		Help:      "Ledger mutations, by kind.",
	}, []string{"kind"})
	registry.MustRegister(requests, durations, webhookEvents, ledgerWrites)
	return &Metrics{
		registry:      registry,
		requests:      requests,
		durations:     durations,
		webhookEvents: webhookEvents,
		ledgerWrites:  ledgerWrites,
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(route, method).Observe(d.Seconds())
}

// WebhookEvent counts one webhook by kind and outcome. Kinds outside the
// known set share the "none" label so senders cannot mint new series.
func (m *Metrics) WebhookEvent(kind webhook.Kind, outcome string) {
	if m == nil {
		return
	}
	event := string(webhook.ParseKind(string(kind)))
	if event == "" {
		event = "none"
	}
	m.webhookEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) LedgerWrite(kind string) {
	if m == nil {
		return
	}
	m.ledgerWrites.WithLabelValues(kind).Inc()
}

// WebhookEvents exposes the counter for tests.
func (m *Metrics) WebhookEvents() *prometheus.CounterVec {
	return m.webhookEvents
}

// LedgerWrites exposes the counter for tests.
func (m *Metrics) LedgerWrites() *prometheus.CounterVec {
	return m.ledgerWrites
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
