package supervisor

import (
	"fmt"
	"io"
	"os"
)

// Creates a notice sink writing to out (stdout when nil)
func NewNotices(out io.Writer) (notices *Notices) {
	if out == nil {
		out = os.Stdout
	}
	notices = &Notices{out: out}
	return
}

// Writes one notice line
func (notices *Notices) Printf(format string, vars ...any) {
	if notices == nil {
		return
	}
	notices.mu.Lock()
	defer notices.mu.Unlock()
	fmt.Fprintf(notices.out, format+"\n", vars...)
}

func (state State) String() (name string) {
	switch state {
	case Disconnected:
		name = "disconnected"
	case Connecting:
		name = "connecting"
	case Connected:
		name = "connected"
	case Stopped:
		name = "stopped"
	default:
		name = "unknown"
	}
	return
}
