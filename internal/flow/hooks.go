package flow

import "github.com/giftdesk/giftdesk-bot/internal/state"

// Recorder hooks let the metrics package observe flow activity without the
// engine importing it. Registration happens once at startup.
var (
	stepRecorder     func(flow, step string)
	finalizeRecorder func(flow string, ok bool)
)

// RegisterStepRecorder installs a callback invoked on every consumed step.
func RegisterStepRecorder(fn func(flow, step string)) {
	stepRecorder = fn
}

// RegisterFinalizeRecorder installs a callback invoked on every finalization
// attempt with its outcome.
func RegisterFinalizeRecorder(fn func(flow string, ok bool)) {
	finalizeRecorder = fn
}

func recordStep(f state.Flow, step string) {
	if stepRecorder != nil {
		stepRecorder(string(f), step)
	}
}

func recordFinalize(f state.Flow, ok bool) {
	if finalizeRecorder != nil {
		finalizeRecorder(string(f), ok)
	}
}
