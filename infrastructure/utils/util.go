package utils

import "time"

// GetCurrentTime is the clock the use cases and token clients default to.
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
