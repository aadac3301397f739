package services

import "time"

// recordTimestampLayout is RFC3339 UTC with millisecond resolution. The
// formatted value doubles as the record identity, so millisecond precision
// is what keeps near-simultaneous confirms apart.
const recordTimestampLayout = "2006-01-02T15:04:05.000Z"

func newRecordTimestamp() string {
	return time.Now().UTC().Format(recordTimestampLayout)
}
