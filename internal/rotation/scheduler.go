// Package rotation implements the keypress-interval trigger used to swap
// themes, extensions, and background images. One generic scheduler tracks
// a counter against a randomly resampled threshold; one generic manager
// owns a candidate set and the current selection. The three rotation
// domains differ only in what they rotate over, never in how they trigger.
package rotation

import (
	"fmt"

	"github.com/user-mgrei/bambam-extended/internal/rng"
)

// Scheduler fires after a randomized number of keypresses.
//
// It starts disabled. Configure arms it with a [min, max] range and samples
// a threshold; each OnKeypress increments a counter and, once the counter
// reaches the threshold, reports a trigger, resamples a fresh threshold from
// the same range, and resets the counter. There is no terminal state while
// enabled.
type Scheduler struct {
	src       rng.Source
	min       int
	max       int
	counter   int
	threshold int
	enabled   bool
}

// NewScheduler creates a disabled scheduler backed by the given source.
func NewScheduler(src rng.Source) *Scheduler {
	return &Scheduler{src: src}
}

// Configure arms the scheduler with an inclusive keypress range.
// It requires min >= 1 and min <= max; a violating range is rejected rather
// than silently corrected, leaving the scheduler state untouched.
func (s *Scheduler) Configure(min, max int) error {
	if min < 1 {
		return fmt.Errorf("rotation: min keypresses must be >= 1, got %d", min)
	}
	if min > max {
		return fmt.Errorf("rotation: invalid keypress range [%d, %d]", min, max)
	}
	s.min = min
	s.max = max
	s.enabled = true
	s.resample()
	return nil
}

// Disable clears the range and threshold. OnKeypress becomes a no-op.
func (s *Scheduler) Disable() {
	s.enabled = false
	s.min = 0
	s.max = 0
	s.threshold = 0
	s.counter = 0
}

// Enabled reports whether a keypress range is configured.
func (s *Scheduler) Enabled() bool {
	return s.enabled
}

// OnKeypress advances the counter and reports whether the rotation fired.
// On a trigger the threshold is resampled and the counter reset, so the
// scheduler never fires twice without intervening keypresses.
func (s *Scheduler) OnKeypress() bool {
	if !s.enabled {
		return false
	}
	s.counter++
	if s.counter >= s.threshold {
		s.resample()
		return true
	}
	return false
}

func (s *Scheduler) resample() {
	s.threshold = s.src.IntBetween(s.min, s.max)
	s.counter = 0
}
