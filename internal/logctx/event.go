package logctx

import (
	"context"
	"fmt"
	"strings"
	"svclog/internal/global"
	"time"
)

// Entry for logging events
func LogEvent(ctx context.Context, eventLevel int, severity string, message string, vars ...any) {
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}

	text := message
	// Only format when there is something to format with
	if len(vars) > 0 && strings.Contains(message, "%") {
		text = fmt.Sprintf(message, vars...)
	}
	logger.record(eventLevel, severity, GetTagList(ctx), text)
}

// Queues event for the watcher if the level allows it (errors always pass)
func (logger *Logger) record(eventLevel int, severity string, tags []string, text string) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	if eventLevel > logger.PrintLevel && severity != global.ErrorLog {
		return
	}

	logger.queue = append(logger.queue, Event{
		Timestamp: time.Now(),
		Tags:      tags,
		Severity:  severity,
		Message:   text,
	})
	logger.cond.Signal()
}

// Stringify full event.
// No newline is added, message creator determines newlines
func (event Event) Format() (text string) {
	var parts []string
	if !event.Timestamp.IsZero() {
		parts = append(parts, "["+padTimestamp(event.Timestamp)+"]")
	}
	if len(event.Tags) > 0 {
		parts = append(parts, "["+strings.Join(event.Tags, "/")+"]")
	}
	if event.Severity != "" {
		parts = append(parts, "["+event.Severity+"]")
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}
	text = strings.Join(parts, " ")
	return
}

// Ensures fixed length strings for timestamps (nanoseconds always 9 digits)
func padTimestamp(timestamp time.Time) (formatted string) {
	formatted = timestamp.Format("2006-01-02T15:04:05.000000000Z07:00")
	return
}
