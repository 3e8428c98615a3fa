// Package metrics holds the prometheus collectors for event processing.
//
// Label values are drawn from small fixed sets (event types, ignore reasons,
// dialog actions) so cardinality stays bounded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ignore reasons used as the "reason" label of EventsIgnored
const (
	ReasonMalformed     = "malformed"
	ReasonUninteresting = "uninteresting"
	ReasonDuplicate     = "duplicate"
	ReasonUpstream      = "upstream_error"
)

// Metrics groups the collectors shared by the services
type Metrics struct {
	EventsReceived    *prometheus.CounterVec
	EventsIgnored     *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
	DialogActions     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telltale_events_received_total",
				Help: "Channel lifecycle events received, by event type.",
			},
			[]string{"type"},
		),
		EventsIgnored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telltale_events_ignored_total",
				Help: "Channel lifecycle events dropped without a notification, by reason.",
			},
			[]string{"reason"},
		),
		NotificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telltale_notifications_sent_total",
				Help: "Messages posted by the bot, by kind.",
			},
			[]string{"kind"},
		),
		DialogActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telltale_dialog_actions_total",
				Help: "Photo dialog button clicks, by action.",
			},
			[]string{"action"},
		),
	}

	reg.MustRegister(m.EventsReceived, m.EventsIgnored, m.NotificationsSent, m.DialogActions)
	return m
}

// NewNop returns collectors registered against a throwaway registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
