package testutil

import (
	"sync"

	"github.com/yungbote/recipebook-backend/internal/data/aggregates"
)

// HooksRecorder keeps every write event for assertions. Safe for concurrent use.
type HooksRecorder struct {
	mu     sync.Mutex
	events []aggregates.WriteEvent
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) WriteFinished(evt aggregates.WriteEvent) {
	h.mu.Lock()
	h.events = append(h.events, evt)
	h.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (h *HooksRecorder) Events() []aggregates.WriteEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]aggregates.WriteEvent(nil), h.events...)
}

// Statuses lists the statuses recorded for op, oldest first.
func (h *HooksRecorder) Statuses(op string) []string {
	var out []string
	for _, evt := range h.Events() {
		if evt.Op == op {
			out = append(out, evt.Status)
		}
	}
	return out
}

// Rejections lists the non-empty rejection reasons recorded for op.
func (h *HooksRecorder) Rejections(op string) []string {
	var out []string
	for _, evt := range h.Events() {
		if evt.Op == op && evt.Reason != "" {
			out = append(out, evt.Reason)
		}
	}
	return out
}
