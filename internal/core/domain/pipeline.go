package domain

import "time"

// PipelineSteps is the fixed forward order a project moves through. Archived
// sits outside the pipeline and is reachable only from submitted via the
// archive operation.
var PipelineSteps = []ProjectStatus{
	StatusPending,
	StatusDesigning,
	StatusQuoting,
	StatusSubmitted,
}

func pipelineIndex(status ProjectStatus) int {
	for i, step := range PipelineSteps {
		if step == status {
			return i
		}
	}
	return -1
}

// NextStatus returns the step after the given one. ok is false at the last
// step and for statuses outside the pipeline.
func NextStatus(status ProjectStatus) (ProjectStatus, bool) {
	idx := pipelineIndex(status)
	if idx < 0 || idx+1 >= len(PipelineSteps) {
		return "", false
	}
	return PipelineSteps[idx+1], true
}

// Progress reports display progress in percent: submitted is 100, other
// pipeline steps scale linearly, statuses outside the pipeline report 0.
func Progress(status ProjectStatus) float64 {
	if status == StatusSubmitted {
		return 100
	}
	idx := pipelineIndex(status)
	if idx < 0 {
		return 0
	}
	return float64(idx+1) / float64(len(PipelineSteps)) * 100
}

type UrgencyLevel string

const (
	UrgencyExpired  UrgencyLevel = "expired"
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyNormal   UrgencyLevel = "normal"
)

const criticalWindowDays = 3

// ClassifyUrgency reports the remaining whole days until the deadline and
// the urgency tier used for display.
func ClassifyUrgency(deadline Date, now time.Time) (int, UrgencyLevel) {
	days := deadline.DaysUntil(now)
	switch {
	case days <= 0:
		return days, UrgencyExpired
	case days <= criticalWindowDays:
		return days, UrgencyCritical
	default:
		return days, UrgencyNormal
	}
}
