// Service name inclusive/exclusive filtering
package filter

import (
	"fmt"
	"svclog/internal/event"

	"github.com/dlclark/regexp2"
)

// Compiled filter configuration. Immutable after Compile, safe for concurrent use.
type Spec struct {
	inclusive *regexp2.Regexp // nil when not configured
	exclusive *regexp2.Regexp // nil when not configured
}

// Compiles the optional inclusive and exclusive patterns.
// Empty string means the pattern is not configured.
// Patterns must match the whole service name.
func Compile(inclusive, exclusive string) (spec Spec, err error) {
	spec.inclusive, err = compileFull(inclusive)
	if err != nil {
		err = fmt.Errorf("invalid inclusive filter %q: %w", inclusive, err)
		return
	}
	spec.exclusive, err = compileFull(exclusive)
	if err != nil {
		err = fmt.Errorf("invalid exclusive filter %q: %w", exclusive, err)
		return
	}
	return
}

func compileFull(pattern string) (re *regexp2.Regexp, err error) {
	if pattern == "" {
		return
	}
	// The bare pattern must compile on its own, otherwise a stray ")" could close the
	// anchoring group early and leave an alternative unanchored
	_, err = regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return
	}
	re, err = regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	return
}

// Reports whether the event passes the filter.
// Inclusive is checked first (reject on no match), then exclusive (reject on match).
func (spec Spec) ShouldLog(ev event.ServiceCallEvent) (accept bool) {
	if spec.inclusive != nil && !matches(spec.inclusive, ev.Service) {
		return
	}
	if spec.exclusive != nil && matches(spec.exclusive, ev.Service) {
		return
	}
	accept = true
	return
}

// Match errors (timeouts) count as no match
func matches(re *regexp2.Regexp, name string) (ok bool) {
	ok, err := re.MatchString(name)
	if err != nil {
		ok = false
	}
	return
}
