package reconciler

import (
	"time"
)

// SelectStale returns the resources whose age is strictly before
// now minus rotationDays. A negative rotationDays disables cleanup and
// always returns an empty selection; zero selects anything older than now.
func SelectStale[T any](resources []T, age func(T) time.Time, rotationDays int, now time.Time) []T {
	if rotationDays < 0 {
		return nil
	}

	cutoff := now.AddDate(0, 0, -rotationDays)
	var stale []T
	for _, resource := range resources {
		if age(resource).Before(cutoff) {
			stale = append(stale, resource)
		}
	}
	return stale
}
