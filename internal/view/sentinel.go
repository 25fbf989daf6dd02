package view

import "context"

// DefaultThreshold is the visible fraction of the sentinel that triggers a load.
const DefaultThreshold = 0.5

// Sentinel sits after the last displayed item and asks for the next page once enough
// of it becomes visible.
type Sentinel struct {
	engine    *Engine
	threshold float64
}

func NewSentinel(e *Engine) *Sentinel {
	return &Sentinel{engine: e, threshold: DefaultThreshold}
}

// ShouldLoad reports whether a visibility ratio would trigger a load right now.
func (s *Sentinel) ShouldLoad(ratio float64) bool {
	if ratio < s.threshold {
		return false
	}
	snap := s.engine.Snapshot()
	return !snap.Loading && snap.HasMore && snap.State == Ready
}

// Observe triggers LoadMore when ShouldLoad holds. It reports whether a load ran.
func (s *Sentinel) Observe(ctx context.Context, ratio float64) (bool, error) {
	if !s.ShouldLoad(ratio) {
		return false, nil
	}
	return true, s.engine.LoadMore(ctx)
}

// VisibleRatio is how much of a one-row sentinel placed after the last of total rows is
// inside a viewport showing rows [offset, offset+height).
func VisibleRatio(total, offset, height int) float64 {
	if height <= 0 {
		return 0
	}
	if total >= offset && total < offset+height {
		return 1
	}
	return 0
}
