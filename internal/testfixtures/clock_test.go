package testfixtures

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	t.Parallel()

	t.Run("defaults to reference time", func(t *testing.T) {
		t.Parallel()
		clock := NewClock(time.Time{})
		if !clock.Now().Equal(ReferenceTime()) {
			t.Fatalf("expected ReferenceTime, got %v", clock.Now())
		}
	})

	t.Run("advance moves now", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
		clock := NewClock(start)

		updated := clock.Advance(90 * time.Minute)
		if !updated.Equal(start.Add(90 * time.Minute)) {
			t.Fatalf("advance returned %v", updated)
		}
		if !clock.NowFunc()().Equal(updated) {
			t.Fatalf("NowFunc disagrees with Advance: %v", clock.NowFunc()())
		}
	})

	t.Run("nil clock falls back to wall time", func(t *testing.T) {
		t.Parallel()
		var clock *Clock
		before := time.Now()
		if got := clock.NowFunc()(); got.Before(before) {
			t.Fatalf("expected wall clock time, got %v", got)
		}
	})
}
