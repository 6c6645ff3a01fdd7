package domain

import "fmt"

// Interval is the unit an entry's review duration is counted in.
type Interval uint8

const (
	IntervalHours Interval = iota + 1
	IntervalDays
	IntervalWeeks
	IntervalMonths
	IntervalYears
)

var intervalNames = map[Interval]string{
	IntervalHours:  "hours",
	IntervalDays:   "days",
	IntervalWeeks:  "weeks",
	IntervalMonths: "months",
	IntervalYears:  "years",
}

// Intervals lists every unit in ascending order of length.
func Intervals() []Interval {
	return []Interval{IntervalHours, IntervalDays, IntervalWeeks, IntervalMonths, IntervalYears}
}

func (i Interval) String() string {
	if name, ok := intervalNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interval(%d)", uint8(i))
}

func (i Interval) Valid() bool {
	_, ok := intervalNames[i]
	return ok
}

// Days is the length of one interval in days. Months and years are fixed
// at 30 and 365 days; hours report 0.
func (i Interval) Days() int64 {
	switch i {
	case IntervalDays:
		return 1
	case IntervalWeeks:
		return 7
	case IntervalMonths:
		return 30
	case IntervalYears:
		return 365
	}
	return 0
}

// ParseInterval maps the persisted name back to an Interval.
func ParseInterval(s string) (Interval, error) {
	for i, name := range intervalNames {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterval, s)
}

// ParseIntervalLenient is used by the legacy importer only. Unknown names
// fall back to days and ok reports false.
func ParseIntervalLenient(s string) (i Interval, ok bool) {
	i, err := ParseInterval(s)
	if err != nil {
		return IntervalDays, false
	}
	return i, true
}

func (i Interval) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInterval, uint8(i))
	}
	return []byte(i.String()), nil
}

func (i *Interval) UnmarshalText(b []byte) error {
	parsed, err := ParseInterval(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
