package repository

import "time"

// timeLayout is used for every timestamp column. Fixed-width nanoseconds keep
// lexical and chronological order identical.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nowUTC() string {
	return formatTime(time.Now())
}
