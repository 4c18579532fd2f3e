package cli

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/licensetower/pkg/observability"
)

// runStats tallies skipped packages for the end-of-run summary and forwards
// every event to next.
type runStats struct {
	next observability.LicenseHooks

	mu       sync.Mutex
	skipped  map[observability.SkipReason]int
	included int
}

func newRunStats(next observability.LicenseHooks) *runStats {
	return &runStats{next: next, skipped: make(map[observability.SkipReason]int)}
}

func (s *runStats) OnPackageSkipped(ctx context.Context, artifact, locator string, reason observability.SkipReason) {
	s.mu.Lock()
	s.skipped[reason]++
	s.mu.Unlock()
	s.next.OnPackageSkipped(ctx, artifact, locator, reason)
}

func (s *runStats) OnArtifactBuilt(ctx context.Context, artifact string, included, skipped int, duration time.Duration) {
	s.mu.Lock()
	s.included = included
	s.mu.Unlock()
	s.next.OnArtifactBuilt(ctx, artifact, included, skipped, duration)
}

// skipCount is one line of the skip summary.
type skipCount struct {
	Reason observability.SkipReason
	Count  int
}

// summary returns the number of included packages and skip counts ordered by
// reason. Duplicate visits are not reported; they are not a data problem.
func (s *runStats) summary() (int, []skipCount) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []skipCount
	for reason, n := range s.skipped {
		if reason == observability.SkipDuplicate {
			continue
		}
		out = append(out, skipCount{Reason: reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reason < out[j].Reason })
	return s.included, out
}
