package source

import (
	"fmt"
	"strconv"
	"svclog/internal/event"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"
)

// Decodes one JSON event object.
// Timestamps are epoch microseconds, pending is a microsecond duration.
func DecodeEvent(parser *fastjson.Parser, line []byte) (ev event.ServiceCallEvent, err error) {
	val, err := parser.ParseBytes(line)
	if err != nil {
		err = fmt.Errorf("invalid json: %w", err)
		return
	}
	if val.Type() != fastjson.TypeObject {
		err = fmt.Errorf("expected json object, got %s", val.Type())
		return
	}

	ev.Service = string(val.GetStringBytes("service"))
	if ev.Service == "" {
		err = fmt.Errorf("missing service name")
		return
	}
	ev.Parent = string(val.GetStringBytes("parent"))
	ev.TransactionID = text(val.Get("transactionId"))
	ev.Code = text(val.Get("code"))
	ev.Order = text(val.Get("order"))

	ev.PID, err = integer(val, "pid")
	if err != nil {
		return
	}

	rawExecution := string(val.GetStringBytes("execution"))
	if rawExecution != "" {
		ev.Execution, err = uuid.Parse(rawExecution)
		if err != nil {
			err = fmt.Errorf("invalid execution id %q: %w", rawExecution, err)
			return
		}
	}

	start, err := integer(val, "start")
	if err != nil {
		return
	}
	end, err := integer(val, "end")
	if err != nil {
		return
	}
	pending, err := integer(val, "pending")
	if err != nil {
		return
	}

	if start != 0 {
		ev.Start = time.UnixMicro(start)
	}
	if end != 0 {
		ev.End = time.UnixMicro(end)
	}
	ev.Pending = time.Duration(pending) * time.Microsecond
	return
}

// Optional integer field, absent or null is zero
func integer(val *fastjson.Value, key string) (number int64, err error) {
	field := val.Get(key)
	if field == nil || field.Type() == fastjson.TypeNull {
		return
	}
	number, err = field.Int64()
	if err != nil {
		err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return
}

// Strings are taken as is, numbers keep their JSON spelling
func text(field *fastjson.Value) (str string) {
	if field == nil {
		return
	}
	switch field.Type() {
	case fastjson.TypeString:
		str = string(field.GetStringBytes())
	case fastjson.TypeNumber:
		str = field.String()
	case fastjson.TypeTrue, fastjson.TypeFalse:
		str = strconv.FormatBool(field.Type() == fastjson.TypeTrue)
	}
	return
}
