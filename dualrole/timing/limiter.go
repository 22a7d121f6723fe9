// Package timing paces the host scan loop and supplies the clock the
// tapping term is measured against.
package timing

import "time"

// Limiter paces the scan loop.
type Limiter interface {
	// WaitForNextScan blocks until the next scan is due. Returns
	// immediately if the loop is behind schedule.
	WaitForNextScan()

	// Reset resets the timing state, useful after a stall.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't wait (for headless replay).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextScan() {}
func (n *noOpLimiter) Reset()           {}

// DefaultScanInterval matches a typical keyboard matrix scan rate.
const DefaultScanInterval = time.Millisecond

// NewLimiter picks a limiter by name: "ticker", "adaptive" or "none".
func NewLimiter(name string, interval time.Duration) Limiter {
	switch name {
	case "none":
		return NewNoOpLimiter()
	case "adaptive":
		return NewAdaptiveLimiter(interval)
	default:
		return NewTickerLimiter(interval)
	}
}
