// Package schedule decides when a dismissed entry resurfaces and renders
// the relative times shown next to it.
package schedule

import (
	"fmt"
	"time"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

const day = 24 * time.Hour

// storageLayout is fixed width so stored values sort as text.
const storageLayout = "2006-01-02T15:04:05.000000Z07:00"

// sqliteLayout is what CURRENT_TIMESTAMP and older rows produce.
const sqliteLayout = "2006-01-02 15:04:05"

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	sqliteLayout,
	"2006-01-02T15:04:05",
}

// AvailableAt is dismissedAt pushed forward by duration units. Calendar
// days are added in UTC so long durations do not overflow time.Duration.
func AvailableAt(duration int64, unit domain.Interval, dismissedAt time.Time) time.Time {
	t := dismissedAt.UTC()
	if unit == domain.IntervalHours {
		return t.AddDate(0, 0, int(duration/24)).Add(time.Duration(duration%24) * time.Hour)
	}
	return t.AddDate(0, 0, int(duration*unit.Days()))
}

// Availability reports whether an entry may be shown at now. When it may
// not, remaining reads like "in 3 hours". An entry that was never
// dismissed is always available.
func Availability(duration int64, unit domain.Interval, dismissedAt *time.Time, now time.Time) (available bool, remaining string) {
	if dismissedAt == nil {
		return true, ""
	}
	at := AvailableAt(duration, unit, *dismissedAt)
	if !now.Before(at) {
		return true, ""
	}
	return false, "in " + largestUnit(at.Sub(now))
}

func largestUnit(d time.Duration) string {
	switch {
	case d >= day:
		return plural(int64(d/day), "day")
	case d >= time.Hour:
		return plural(int64(d/time.Hour), "hour")
	default:
		return plural(int64(d/time.Minute), "minute")
	}
}

// LastSeen renders how long ago an entry was dismissed, e.g. "2 weeks ago".
// Months and years are 30 and 365 day blocks.
func LastSeen(dismissedAt *time.Time, now time.Time) string {
	if dismissedAt == nil {
		return ""
	}
	diff := now.Sub(*dismissedAt)
	if diff < 0 {
		return "just now"
	}

	days := int64(diff / day)
	switch {
	case days > 365:
		return plural(days/365, "year") + " ago"
	case days > 30:
		return plural(days/30, "month") + " ago"
	case days > 7:
		return plural(days/7, "week") + " ago"
	case days > 0:
		return plural(days, "day") + " ago"
	case diff >= time.Hour:
		return plural(int64(diff/time.Hour), "hour") + " ago"
	case diff >= time.Minute:
		return plural(int64(diff/time.Minute), "minute") + " ago"
	}
	return "just now"
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ParseInstant reads a stored timestamp. Anything unreadable becomes
// fallback and ok is false.
func ParseInstant(raw string, fallback time.Time) (t time.Time, ok bool) {
	for _, layout := range instantLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return fallback, false
}

// FormatInstant is the storage form read back by ParseInstant.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(storageLayout)
}
