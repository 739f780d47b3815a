// Package streak maintains the daily activity streak. The decision runs
// once per process start against a persisted last-active-day marker, at
// calendar-day granularity so intra-day relaunches and odd hours never
// break a streak.
package streak

import "time"

// dayFormat is the serialized marker form, a local calendar date.
const dayFormat = "2006-01-02"

// Result describes what a start-of-process streak check decided.
type Result struct {
	// StreakDays is the streak value after applying the decision.
	StreakDays int
	// Changed reports whether the streak value or marker moved. False only
	// for the already-seen-today branch.
	Changed bool
	// Marker is the serialized marker to persist when Changed is true.
	Marker string
}

// Bump applies the start-of-day streak rules. marker is the persisted
// last-active day ("" when none exists), current is the streak counter in
// effect, and now supplies today's date.
//
// No marker: streak starts at 1. Marker is today: nothing changes. Marker
// is yesterday: streak increments. Marker is older: streak resets to 1.
func Bump(marker string, current int, now time.Time) Result {
	today := civilDay(now)
	if marker == "" {
		return Result{StreakDays: 1, Changed: true, Marker: today.Format(dayFormat)}
	}
	last, err := time.ParseInLocation(dayFormat, marker, now.Location())
	if err != nil {
		// Unreadable marker: treat as a fresh start rather than guessing.
		return Result{StreakDays: 1, Changed: true, Marker: today.Format(dayFormat)}
	}
	switch daysBetween(last, today) {
	case 0:
		return Result{StreakDays: current, Changed: false, Marker: marker}
	case 1:
		return Result{StreakDays: current + 1, Changed: true, Marker: today.Format(dayFormat)}
	default:
		return Result{StreakDays: 1, Changed: true, Marker: today.Format(dayFormat)}
	}
}

// MarkerFor returns the serialized marker for a wall-clock instant.
func MarkerFor(now time.Time) string {
	return civilDay(now).Format(dayFormat)
}

// civilDay truncates an instant to midnight of its local calendar day.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b. The dates are
// re-anchored in UTC so DST transitions in the local zone cannot produce a
// 23- or 25-hour "day" and skew the count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
