package eod

import (
	"time"

	"account-monitor/internal/interfaces"
)

var defaultSummarizer interfaces.EodSummarizer = NewSummarizer()

func SetDefaultSummarizer(summarizer interfaces.EodSummarizer) {
	defaultSummarizer = summarizer
}

func NewSummarizer() interfaces.EodSummarizer {
	return &eodSummarizer{now: time.Now}
}

func SummarizeToday() (string, error) {
	return defaultSummarizer.SummarizeToday()
}

func SummarizePreviousDay() (string, error) {
	return defaultSummarizer.SummarizePreviousDay()
}

func ShouldRunNow() (bool, string) {
	return defaultSummarizer.ShouldRunNow()
}
