// Package metrics exposes Prometheus counters for bot and flow activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/giftdesk/giftdesk-bot/internal/flow"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of Telegram updates received labeled by type and status",
		},
		[]string{"type", "status"},
	)
	updatesDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_updates_denied_total",
			Help: "Total number of updates dropped by the operator allow-list",
		},
	)
	flowStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_steps_total",
			Help: "Total number of consumed conversation steps labeled by flow and step",
		},
		[]string{"flow", "step"},
	)
	flowFinalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_finalizations_total",
			Help: "Total number of flow finalization attempts labeled by flow and status",
		},
		[]string{"flow", "status"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

func init() {
	flow.RegisterStepRecorder(RecordFlowStep)
	flow.RegisterFinalizeRecorder(RecordFlowFinalization)
}

// RecordUpdate increments the update counter.
func RecordUpdate(updateType, status string) {
	if updateType == "" {
		updateType = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(updateType, status).Inc()
}

// RecordDenied counts an update dropped by the allow-list.
func RecordDenied() {
	updatesDeniedTotal.Inc()
}

// RecordFlowStep tracks one consumed conversation step.
func RecordFlowStep(flowName, step string) {
	if flowName == "" {
		flowName = "unknown"
	}
	if step == "" {
		step = "unknown"
	}

	flowStepsTotal.WithLabelValues(flowName, step).Inc()
}

// RecordFlowFinalization tracks one finalization attempt and its outcome.
func RecordFlowFinalization(flowName string, ok bool) {
	if flowName == "" {
		flowName = "unknown"
	}

	status := "ok"
	if !ok {
		status = "failed"
	}

	flowFinalizationsTotal.WithLabelValues(flowName, status).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}
