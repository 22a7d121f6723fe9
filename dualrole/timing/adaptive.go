package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy, which keeps
// the tapping term honest at millisecond scan intervals.
type AdaptiveLimiter struct {
	interval     time.Duration
	nextScanTime time.Time
	scanCounter  int64
}

func NewAdaptiveLimiter(interval time.Duration) *AdaptiveLimiter {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &AdaptiveLimiter{
		interval:     interval,
		nextScanTime: time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextScan() {
	now := time.Now()
	sleepTime := a.nextScanTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextScanTime) {
				// busy-wait under 2ms, sleep granularity is too coarse.
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextScanTime) {
			}
		}
	} else if sleepTime < -5*a.interval {
		// Too far behind to catch up; drop the missed scans.
		a.nextScanTime = now
	}

	a.nextScanTime = a.nextScanTime.Add(a.interval)
	a.scanCounter++

	if a.scanCounter%1000 == 0 {
		drift := time.Now().Sub(a.nextScanTime)
		if drift.Abs() > 10*a.interval {
			a.nextScanTime = a.nextScanTime.Add(drift / 10)
			slog.Debug("Scan timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextScanTime = time.Now()
	a.scanCounter = 0
}
