package points

import "time"

// The activity day rolls over at 07:00 Moscow time, which is a fixed
// 04:00 UTC. Before the reset instant the previous calendar date is still
// the current activity day; this keeps dashboards from showing an empty
// day between midnight UTC and the reset job.
const (
	ResetHourUTC = 4

	// DayFormat is the activity-day key format used in completion rows.
	DayFormat = "2006-01-02"
)

// ActivityDayFor returns the activity-day key for an instant.
// This is the single source of truth for completion keys; toggle, lookup and
// rendering must all go through it.
func ActivityDayFor(t time.Time) string {
	utc := t.UTC()
	if utc.Hour() < ResetHourUTC {
		utc = utc.AddDate(0, 0, -1)
	}
	return utc.Format(DayFormat)
}

// CurrentActivityDay returns the activity-day key for now.
func CurrentActivityDay() string {
	return ActivityDayFor(time.Now())
}

// NextReset returns the first reset instant strictly after t.
func NextReset(t time.Time) time.Time {
	utc := t.UTC()
	reset := time.Date(utc.Year(), utc.Month(), utc.Day(), ResetHourUTC, 0, 0, 0, time.UTC)
	if !reset.After(utc) {
		reset = reset.AddDate(0, 0, 1)
	}
	return reset
}
