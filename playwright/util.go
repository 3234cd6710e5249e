package playwright

import "time"

// msToDuration converts a driver-style millisecond timeout (0 meaning "no
// deadline") into a time.Duration for the waiter subsystem.
func msToDuration(ms float64) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}
