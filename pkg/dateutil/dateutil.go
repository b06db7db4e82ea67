package dateutil

import "time"

// DayFormat is the canonical day-bucket value stored on status rows.
const DayFormat = "2006-01-02"

func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

func Today() string {
	return Day(time.Now())
}

func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// IsDay reports whether s is a well-formed day bucket.
func IsDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}
