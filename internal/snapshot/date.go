package snapshot

import "time"

// DateLayout is the storage format for snapshot dates.
const DateLayout = "2006-01-02"

// DateIn returns the calendar date of instant t in loc. Day boundaries are a
// product decision, so the caller always passes the reference timezone rather
// than relying on host-local time.
func DateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// PrevDate returns the calendar date one day before date.
func PrevDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(DateLayout), nil
}
