// Package metrics provides Prometheus metrics for the counselling engine.
// Labels stay low-cardinality: no case or session ids.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionTransitions counts lifecycle actions by name (create, accept, reschedule, cancel, close, refer, refer_feedback, continue, edit).
	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "counselling_session_transitions_total",
		Help: "Total number of session lifecycle transitions, by action.",
	}, []string{"action"})

	// Notifications counts notification deliveries by channel (inapp, email) and result (ok, error).
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "counselling_notifications_total",
		Help: "Total number of notification deliveries, by channel and result.",
	}, []string{"channel", "result"})

	// NotificationsDropped counts envelopes dropped because the dispatch queue was full or closed.
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "counselling_notifications_dropped_total",
		Help: "Total number of notification envelopes dropped before dispatch.",
	})

	// ReminderMails counts event reminder mails sent by the cron job.
	ReminderMails = promauto.NewCounter(prometheus.CounterOpts{
		Name: "counselling_event_reminders_total",
		Help: "Total number of event reminder mails queued.",
	})
)
