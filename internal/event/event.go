// Service call completion events and their log line rendering
package event

import (
	"time"

	"github.com/google/uuid"
)

// One completed service call as reported by the event server.
// Passed by value, never mutated after decoding.
type ServiceCallEvent struct {
	Service       string        // name of the invoked service
	Parent        string        // name of the calling service (may be empty)
	PID           int64         // process id on the event server host
	Execution     uuid.UUID     // execution identifier
	TransactionID string        // transaction correlation id
	Start         time.Time     // call start
	End           time.Time     // call end (not checked against Start)
	Pending       time.Duration // time spent pending before execution
	Code          string        // result code
	Order         string        // ordering token assigned by the event server
}
