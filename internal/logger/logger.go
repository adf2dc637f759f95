package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"account-monitor/internal/trace"
)

var (
	// base is a no-op until Init so packages can log from tests
	base = zap.NewNop()
	// sugar is base with the wrapper frames skipped
	sugar           = base.Sugar()
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or console
	DetailedLogging bool   // forces DEBUG and adds stack traces on errors
	Output          io.Writer
}

// Init initializes the global logger from environment variables
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// LoadConfigFromEnv loads logging configuration from environment variables
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig builds the zap core for the given configuration
func InitWithConfig(config LogConfig) error {
	detailedLogging = config.DetailedLogging

	level := parseLogLevel(config.Level)
	if detailedLogging {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(config.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var out io.Writer = os.Stdout
	if config.Output != nil {
		out = config.Output
	}

	opts := []zap.Option{zap.AddCaller()}
	if detailedLogging {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	Use(zap.New(zapcore.NewCore(encoder, zapcore.AddSync(out), level), opts...))
	return nil
}

// Use replaces the global logger, e.g. with an observer in tests
func Use(l *zap.Logger) {
	base = l
	sugar = l.WithOptions(zap.AddCallerSkip(2)).Sugar()
}

// Sync flushes buffered entries; stdout sync errors are ignored
func Sync() {
	_ = base.Sync()
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func Debug(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.DebugLevel, 0, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, 0, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.WarnLevel, 0, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.ErrorLevel, 0, msg, args...)
}

// ErrorWithErr logs err and records it on the active span
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	recordError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, 0, msg, append([]any{"error", err}, args...)...)
}

// The *Skip variants report the caller skip frames further up; used by
// the observability wrappers so lines point at the real call site.

func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.DebugLevel, skip, msg, args...)
}

func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, skip, msg, args...)
}

func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	recordError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, skip, msg, append([]any{"error", err}, args...)...)
}

func recordError(ctx context.Context, err error) {
	if !trace.Enabled() || err == nil {
		return
	}
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func logWithTrace(ctx context.Context, level zapcore.Level, skip int, msg string, args ...any) {
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}

	l := sugar
	if skip > 0 {
		l = l.WithOptions(zap.AddCallerSkip(skip))
	}
	l.Logw(level, msg, args...)
}

// OperationTimer measures an operation and closes its span
type OperationTimer struct {
	ctx    context.Context
	span   oteltrace.Span
	start  time.Time
	fields []any
}

// StartOperation opens a span named after the operation; fields become
// span attributes.
func StartOperation(ctx context.Context, operation string, fields ...any) *OperationTimer {
	ctx, span := trace.StartSpan(ctx, operation)
	span.SetAttributes(toAttributes(fields)...)

	Debug(ctx, "Operation started", append([]any{"operation", operation}, fields...)...)

	return &OperationTimer{
		ctx:    ctx,
		span:   span,
		start:  time.Now(),
		fields: append([]any{"operation", operation}, fields...),
	}
}

func (ot *OperationTimer) End(additionalFields ...any) {
	duration := time.Since(ot.start)

	ot.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
	ot.span.SetAttributes(toAttributes(additionalFields)...)
	ot.span.SetStatus(codes.Ok, "completed")
	ot.span.End()

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds())
	Debug(ot.ctx, "Operation completed", append(fields, additionalFields...)...)
}

func (ot *OperationTimer) EndWithError(err error, additionalFields ...any) {
	duration := time.Since(ot.start)

	ot.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
	ot.span.RecordError(err)
	ot.span.SetStatus(codes.Error, err.Error())
	ot.span.End()

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds(), "error", err)
	Error(ot.ctx, "Operation failed", append(fields, additionalFields...)...)
}

// Context returns the context carrying the operation span
func (ot *OperationTimer) Context() context.Context {
	return ot.ctx
}

// Report logs a delivered account snapshot (always at info level)
func Report(ctx context.Context, accountID int64, growth, investment float64, fields ...any) {
	span := oteltrace.SpanFromContext(ctx)
	if trace.Enabled() && span.SpanContext().IsValid() {
		span.AddEvent("report_delivered", oteltrace.WithAttributes(
			attribute.Int64("account_id", accountID),
			attribute.Float64("growth", growth),
			attribute.Float64("investment", investment),
		))
	}

	allFields := append([]any{
		"type", "REPORT",
		"account_id", accountID,
		"growth", growth,
		"investment", investment,
	}, fields...)
	logWithTrace(ctx, zapcore.InfoLevel, 0, "Account update delivered", allFields...)
}

func toAttributes(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		}
	}
	return attrs
}

// IsDebugEnabled reports whether the installed logger writes DEBUG entries.
func IsDebugEnabled() bool {
	return base.Core().Enabled(zapcore.DebugLevel)
}
