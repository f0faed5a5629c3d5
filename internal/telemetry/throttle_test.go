package telemetry

import (
	"testing"
	"time"
)

func TestThrottle(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	throttle := NewThrottle(5 * time.Minute)

	t.Run("first upload always permitted", func(t *testing.T) {
		if !throttle.MayUpload(t0) {
			t.Error("MayUpload() = false before any attempt, want true")
		}
	})

	throttle.RecordAttempt(t0)

	t.Run("blocked inside interval", func(t *testing.T) {
		if throttle.MayUpload(t0.Add(4 * time.Minute)) {
			t.Error("MayUpload(T0+4m) = true, want false")
		}
	})

	t.Run("permitted at interval boundary", func(t *testing.T) {
		if !throttle.MayUpload(t0.Add(5 * time.Minute)) {
			t.Error("MayUpload(T0+5m) = false, want true")
		}
	})

	t.Run("attempt resets the window", func(t *testing.T) {
		throttle.RecordAttempt(t0.Add(5 * time.Minute))
		if throttle.MayUpload(t0.Add(6 * time.Minute)) {
			t.Error("MayUpload(T0+6m) = true after attempt at T0+5m, want false")
		}
		if !throttle.MayUpload(t0.Add(10 * time.Minute)) {
			t.Error("MayUpload(T0+10m) = false, want true")
		}
	})
}
