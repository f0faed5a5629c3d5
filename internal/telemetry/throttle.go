package telemetry

import "time"

// Throttle gates uploads to at most one pass per interval. The timestamp
// is stamped once per attempted pass, success or not, so repeated failures
// cannot tighten the cadence below the interval.
type Throttle struct {
	interval   time.Duration
	lastUpload time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// MayUpload reports whether an upload pass is permitted at now. The first
// pass is always permitted.
func (t *Throttle) MayUpload(now time.Time) bool {
	return t.lastUpload.IsZero() || !now.Before(t.lastUpload.Add(t.interval))
}

// RecordAttempt marks an upload pass as attempted at now.
func (t *Throttle) RecordAttempt(now time.Time) {
	t.lastUpload = now
}
