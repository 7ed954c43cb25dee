package source

import (
	"fmt"
	"net/url"
	"strconv"
)

// Splits an event server URL (e.g. tcp://events.local:7070) into host and port.
// Both must be present, the scheme is informational.
func ParseEndpoint(rawURL string) (host string, port int, err error) {
	if rawURL == "" {
		err = fmt.Errorf("event server url is empty")
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		err = fmt.Errorf("invalid event server url %q: %w", rawURL, err)
		return
	}

	host = parsed.Hostname()
	if host == "" {
		err = fmt.Errorf("event server url %q has no host", rawURL)
		return
	}

	rawPort := parsed.Port()
	if rawPort == "" {
		err = fmt.Errorf("event server url %q has no port", rawURL)
		return
	}
	port, err = strconv.Atoi(rawPort)
	if err != nil || port <= 0 || port > 65535 {
		err = fmt.Errorf("event server url %q has invalid port %q", rawURL, rawPort)
		return
	}
	return
}
