// Package metrics defines the Prometheus instruments exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
//
// Exported series:
//   - notes_http_requests_total{method,route,status}
//   - notes_http_request_duration_seconds{method,route}
//   - notes_signups_total{result}
//   - notes_logins_total{result}
//   - notes_note_operations_total{op,result}
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SignupsTotal    *prometheus.CounterVec
	LoginsTotal     *prometheus.CounterVec
	NoteOpsTotal    *prometheus.CounterVec
}

// New registers the collectors with reg. Pass a fresh registry in tests to avoid
// duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_http_requests_total",
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notes_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"method", "route"},
		),
		SignupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_signups_total",
				Help: "Signup attempts by result",
			},
			[]string{"result"},
		),
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		NoteOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_note_operations_total",
				Help: "Note operations by kind and result",
			},
			[]string{"op", "result"},
		),
	}
}

// Result labels an outcome for the counters above.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Signup records a signup attempt. Safe on a nil receiver.
func (m *Metrics) Signup(err error) {
	if m == nil {
		return
	}
	m.SignupsTotal.WithLabelValues(Result(err)).Inc()
}

// Login records a login attempt. Safe on a nil receiver.
func (m *Metrics) Login(err error) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(Result(err)).Inc()
}

// NoteOp records a note operation. Safe on a nil receiver.
func (m *Metrics) NoteOp(op string, err error) {
	if m == nil {
		return
	}
	m.NoteOpsTotal.WithLabelValues(op, Result(err)).Inc()
}
