package aggregates

import (
	"time"

	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/observability"
)

// WriteEvent describes one finished aggregate write.
type WriteEvent struct {
	Op       string
	Status   string
	Reason   string // set only for validation rejections
	Duration time.Duration
}

// Hooks receives one WriteEvent per executeWrite call.
type Hooks interface {
	WriteFinished(evt WriteEvent)
}

type noopHooks struct{}

func (noopHooks) WriteFinished(WriteEvent) {}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks fans write events out to prometheus series.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func (h metricsHooks) WriteFinished(evt WriteEvent) {
	h.metrics.ObserveAggregateOperation(evt.Op, evt.Status, evt.Duration)
	switch domainagg.ErrorCode(evt.Status) {
	case domainagg.CodeConflict:
		h.metrics.IncAggregateConflict(evt.Op)
	case domainagg.CodeRetryable:
		h.metrics.IncAggregateRetry(evt.Op)
	case domainagg.CodeValidation:
		if evt.Reason != "" {
			h.metrics.IncRecipeRejection(evt.Op, evt.Reason)
		}
	}
}

// rejectionReason buckets validation messages into a small label set.
func rejectionReason(err error) string {
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		return ""
	}
	switch domainagg.MessageOf(err) {
	case msgInvalidTags:
		return "invalid_tags"
	case msgInvalidChildren:
		return "invalid_children"
	case msgDuplicateChild:
		return "duplicate_child"
	case msgCycleDetected:
		return "cycle"
	default:
		return "input"
	}
}
