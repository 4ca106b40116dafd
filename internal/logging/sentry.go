package logging

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global Sentry hub. The returned flush func is safe to call
// when Sentry is disabled.
func InitSentry(dsn, environment string, tracesSampleRate float64) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		EnableTracing:    tracesSampleRate > 0,
		TracesSampleRate: tracesSampleRate,
		Environment:      environment,
		BeforeSend:       scrubEvent,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		event.Request.QueryString = RedactQuery(event.Request.QueryString)
		event.Request.URL = redactURL(event.Request.URL)
	}
	return event
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	u.RawQuery = RedactQuery(u.RawQuery)
	return u.String()
}

// SentryHandler records every log line as a breadcrumb and reports ERROR records as events.
type SentryHandler struct {
	attrs []slog.Attr
	group string
	level slog.Level
}

func NewSentryHandler(level slog.Level) *SentryHandler {
	return &SentryHandler{level: level}
}

func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *SentryHandler) Handle(ctx context.Context, record slog.Record) error {
	data := make(map[string]interface{}, record.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		data[h.key(a.Key)] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		data[h.key(a.Key)] = a.Value.Any()
		return true
	})

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	if record.Level >= slog.LevelError {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetContext("log", data)
			if err, ok := data["error"].(error); ok {
				scope.SetExtra("message", record.Message)
				hub.CaptureException(err)
				return
			}
			hub.CaptureMessage(record.Message)
		})
		return nil
	}

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  "log",
		Message:   record.Message,
		Level:     sentryLevel(record.Level),
		Data:      data,
		Timestamp: record.Time,
	}, nil)
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}

func (h *SentryHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func sentryLevel(level slog.Level) sentry.Level {
	switch {
	case level >= slog.LevelError:
		return sentry.LevelError
	case level >= slog.LevelWarn:
		return sentry.LevelWarning
	case level >= slog.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
