package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReminderTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cradle_reminder_ticks_total",
			Help: "Total number of reminder engine ticks by outcome.",
		},
		[]string{"result"},
	)

	ReminderNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cradle_reminder_notifications_total",
			Help: "Reminder decisions per category and result (sent, quota, quiet, failed).",
		},
		[]string{"category", "result"},
	)

	BootstrapUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cradle_bootstrap_uploads_total",
			Help: "Local-to-cloud bootstrap attempts by result.",
		},
		[]string{"result"},
	)

	TokenRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cradle_token_refreshes_total",
			Help: "Access token refresh requests issued to the backend by result.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// MustRegister adds the collectors to the default registry. Safe to call from
// several entry points.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ReminderTicksTotal,
			ReminderNotificationsTotal,
			BootstrapUploadsTotal,
			TokenRefreshesTotal,
		)
	})
}
