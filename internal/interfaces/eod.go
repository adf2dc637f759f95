package interfaces

import "time"

// EodSummarizer writes the per-account daily CSV from the report journal.
type EodSummarizer interface {
	SummarizeDay(t time.Time) (csvPath string, err error)
	SummarizeToday() (csvPath string, err error)
	SummarizePreviousDay() (csvPath string, err error)
	// ShouldRunNow is true when the previous day's summary is missing or stale.
	ShouldRunNow() (shouldRun bool, csvPath string)
}
