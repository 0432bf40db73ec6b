package report

import "time"

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp returns t as an ISO-8601 UTC timestamp string.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
