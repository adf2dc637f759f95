package eodobs

import (
	"context"
	"time"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/trace"
)

type observableEodSummarizer struct {
	summarizer interfaces.EodSummarizer
}

var _ interfaces.EodSummarizer = (*observableEodSummarizer)(nil)

func Wrap(summarizer interfaces.EodSummarizer) interfaces.EodSummarizer {
	return &observableEodSummarizer{summarizer: summarizer}
}

func (oes *observableEodSummarizer) SummarizeDay(t time.Time) (string, error) {
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizeDay")
	defer span.End()

	date := t.Format("2006-01-02")
	start := time.Now()
	csvPath, err := oes.summarizer.SummarizeDay(t)
	logResult(ctx, date, csvPath, start, err)
	return csvPath, err
}

func (oes *observableEodSummarizer) SummarizeToday() (string, error) {
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizeToday")
	defer span.End()

	start := time.Now()
	csvPath, err := oes.summarizer.SummarizeToday()
	logResult(ctx, "today", csvPath, start, err)
	return csvPath, err
}

func (oes *observableEodSummarizer) SummarizePreviousDay() (string, error) {
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizePreviousDay")
	defer span.End()

	start := time.Now()
	csvPath, err := oes.summarizer.SummarizePreviousDay()
	logResult(ctx, "previous", csvPath, start, err)
	return csvPath, err
}

func (oes *observableEodSummarizer) ShouldRunNow() (bool, string) {
	ctx, span := trace.StartSpan(context.Background(), "eod.ShouldRunNow")
	defer span.End()

	shouldRun, csvPath := oes.summarizer.ShouldRunNow()
	logger.DebugSkip(ctx, 1, "EOD check", "should_run", shouldRun, "csv_path", csvPath)
	return shouldRun, csvPath
}

func logResult(ctx context.Context, date, csvPath string, start time.Time, err error) {
	took := time.Since(start).Milliseconds()
	switch {
	case err != nil:
		logger.ErrorWithErrSkip(ctx, 2, "EOD summary failed", err, "date", date, "duration_ms", took)
	case csvPath == "":
		logger.InfoSkip(ctx, 2, "No journal entries to summarize", "date", date)
	default:
		logger.InfoSkip(ctx, 2, "EOD summary written", "date", date, "csv_path", csvPath, "duration_ms", took)
	}
}
