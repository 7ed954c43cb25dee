package source

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		check     func(t *testing.T, service, parent, code, order, tx string, pid int64, start, end time.Time, pending time.Duration, exec uuid.UUID)
		wantError bool
	}{
		{
			name: "full event",
			line: `{"service":"svc.orders","parent":"svc.gw","pid":42,"execution":"6f1c2a4e-9d7b-4c1e-8a52-3f0e5b7d9c10","transactionId":"tx-1","start":1700000000000000,"end":1700000000001000,"pending":250,"code":"OK","order":"7"}`,
			check: func(t *testing.T, service, parent, code, order, tx string, pid int64, start, end time.Time, pending time.Duration, exec uuid.UUID) {
				if service != "svc.orders" || parent != "svc.gw" || code != "OK" || order != "7" || tx != "tx-1" {
					t.Fatalf("unexpected string fields: %s %s %s %s %s", service, parent, code, order, tx)
				}
				if pid != 42 {
					t.Fatalf("expected pid 42, got %d", pid)
				}
				if start.UnixMicro() != 1700000000000000 || end.UnixMicro() != 1700000000001000 {
					t.Fatalf("unexpected times %v %v", start, end)
				}
				if pending != 250*time.Microsecond {
					t.Fatalf("expected 250us pending, got %v", pending)
				}
				if exec.String() != "6f1c2a4e-9d7b-4c1e-8a52-3f0e5b7d9c10" {
					t.Fatalf("unexpected execution %v", exec)
				}
			},
		},
		{
			name: "numeric code and order",
			line: `{"service":"a","code":200,"order":3}`,
			check: func(t *testing.T, service, parent, code, order, tx string, pid int64, start, end time.Time, pending time.Duration, exec uuid.UUID) {
				if code != "200" || order != "3" {
					t.Fatalf("expected numeric fields as text, got %q %q", code, order)
				}
				if !start.IsZero() || exec != uuid.Nil {
					t.Fatalf("expected zero optional fields")
				}
			},
		},
		{name: "not json", line: `service=a`, wantError: true},
		{name: "array", line: `[1,2]`, wantError: true},
		{name: "missing service", line: `{"pid":1}`, wantError: true},
		{name: "bad pid", line: `{"service":"a","pid":"x"}`, wantError: true},
		{name: "bad execution", line: `{"service":"a","execution":"nope"}`, wantError: true},
		{name: "fractional start", line: `{"service":"a","start":1.5}`, wantError: true},
	}

	var parser fastjson.Parser
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent(&parser, []byte(tt.line))
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got %+v", ev)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, ev.Service, ev.Parent, ev.Code, ev.Order, ev.TransactionID, ev.PID, ev.Start, ev.End, ev.Pending, ev.Execution)
		})
	}
}
