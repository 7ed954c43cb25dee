package event

import (
	"strconv"
	"strings"
	"time"
)

// Number of columns in every rendered line
const FieldCount int = 10

// Renders the event as one log line (no newline).
// Columns: service, parent, pid, execution, transaction id, start, end, pending, code, order.
// Fields are not escaped, a delimiter inside a field value is written as is.
func Format(ev ServiceCallEvent, delimiter string) (line string) {
	fields := [FieldCount]string{
		ev.Service,
		ev.Parent,
		strconv.FormatInt(ev.PID, 10),
		ev.Execution.String(),
		ev.TransactionID,
		micros(ev.Start),
		micros(ev.End),
		strconv.FormatInt(ev.Pending.Microseconds(), 10),
		ev.Code,
		ev.Order,
	}
	line = strings.Join(fields[:], delimiter)
	return
}

// Epoch microseconds, zero time renders as 0
func micros(t time.Time) (text string) {
	if t.IsZero() {
		text = "0"
		return
	}
	text = strconv.FormatInt(t.UnixMicro(), 10)
	return
}
