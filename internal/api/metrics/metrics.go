// Package metrics defines the custom Prometheus metrics of the game service.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/richschool/compound-school/internal/core/domain"
)

const namespace = "compound_school"

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsAcceptedTotal counts events the engine applied.
// Labels:
//   - event: event name (e.g. "roll_dice", "choose_option")
//   - screen: screen the session was on when the event arrived
var EventsAcceptedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_accepted_total",
		Help:      "Total number of session events applied.",
	},
	[]string{"event", "screen"},
)

// EventsRejectedTotal counts events whose guard failed.
// Labels:
//   - event: event name
//   - reason: "guard", "stale", "wrong_answer", "blank_filled", "out_of_range", "invalid_input" or "other"
var EventsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_rejected_total",
		Help:      "Total number of session events rejected by the engine.",
	},
	[]string{"event", "reason"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new command, applied)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ScreenTransitionsTotal counts moves between screens.
var ScreenTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screen_transitions_total",
		Help:      "Total number of screen transitions, by source and target screen.",
	},
	[]string{"from", "to"},
)

// CuesPlayedTotal counts sound cues queued for clients.
var CuesPlayedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cues_played_total",
		Help:      "Total number of sound cues queued, by cue.",
	},
	[]string{"cue"},
)

// ── Persistence metrics ──────────────────────────────────────────────────────

// SnapshotDecodeTotal counts snapshots that did not decode cleanly.
// Label:
//   - result: "partial" (some fields reset to defaults) or "discarded"
var SnapshotDecodeTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_decode_failures_total",
		Help:      "Total number of snapshots restored partially or discarded.",
	},
	[]string{"result"},
)

// SnapshotFieldsSkippedTotal counts individual snapshot fields reset to defaults.
var SnapshotFieldsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_fields_skipped_total",
		Help:      "Total number of snapshot fields that failed validation, by field.",
	},
	[]string{"field"},
)

// CertificatesTotal counts certificate exports.
// Label:
//   - result: "ok" or "error"
var CertificatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_exported_total",
		Help:      "Total number of certificate images rendered.",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LiveSessions tracks the number of sessions held in memory.
var LiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions",
		Help:      "Current number of sessions in the live table.",
	},
)

// RegisterQueueDepth exposes the number of jobs waiting in the session
// executor. pending is sampled on every scrape.
func RegisterQueueDepth(reg prometheus.Registerer, pending func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "executor_queue_depth",
			Help:      "Current number of session jobs waiting in the executor.",
		},
		func() float64 { return float64(pending()) },
	))
}

// Observer records game activity into the metrics above.
type Observer struct{}

func NewObserver() *Observer { return &Observer{} }

func (Observer) EventAccepted(event string, screen domain.Screen) {
	EventsAcceptedTotal.WithLabelValues(event, string(screen)).Inc()
}

func (Observer) EventRejected(event, reason string) {
	EventsRejectedTotal.WithLabelValues(event, reason).Inc()
}

func (Observer) Transition(from, to domain.Screen) {
	ScreenTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (Observer) CuePlayed(cue domain.Cue) {
	CuesPlayedTotal.WithLabelValues(string(cue)).Inc()
}

func (Observer) SnapshotSkipped(fields []string, discarded bool) {
	if discarded {
		SnapshotDecodeTotal.WithLabelValues("discarded").Inc()
		return
	}
	SnapshotDecodeTotal.WithLabelValues("partial").Inc()
	for _, f := range fields {
		SnapshotFieldsSkippedTotal.WithLabelValues(f).Inc()
	}
}

func (Observer) DedupChecked(hit bool) {
	if hit {
		EventsDedupTotal.WithLabelValues("hit").Inc()
		return
	}
	EventsDedupTotal.WithLabelValues("miss").Inc()
}

func (Observer) CertificateExported(ok bool) {
	if ok {
		CertificatesTotal.WithLabelValues("ok").Inc()
		return
	}
	CertificatesTotal.WithLabelValues("error").Inc()
}

func (Observer) LiveSessions(n int) {
	LiveSessions.Set(float64(n))
}
