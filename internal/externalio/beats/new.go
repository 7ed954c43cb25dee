// Forwards accepted events to a beats (lumberjack v2) server
package beats

import (
	"fmt"
	"svclog/internal/global"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Creates new beats output module. Returns nil nil if no address.
// The first connection is made here so a bad address fails startup.
func NewOutput(namespace []string, address string, delimiter string) (module *OutModule, err error) {
	if address == "" {
		return
	}

	module = &OutModule{
		Namespace:     append(append([]string{}, namespace...), global.NSoBeats),
		address:       address,
		delimiter:     delimiter,
		dialTimeout:   global.DefaultBeatsDialTimeout,
		redialBackoff: global.DefaultBeatsRedialBackoff,
		dial:          dialLumberjack,
		Metrics:       &MetricStorage{},
	}

	module.sink, err = module.dial(address, module.dialTimeout)
	if err != nil {
		module = nil
		return
	}
	return
}

func dialLumberjack(address string, timeout time.Duration) (client sender, err error) {
	ljClient, err := lumberjack.SyncDial(address,
		lumberjack.CompressionLevel(0),
		lumberjack.Timeout(timeout),
	)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}
	client = ljClient
	return
}

func (mod *OutModule) Name() (name string) {
	name = "beats"
	return
}

// Gracefully stops module
func (mod *OutModule) Shutdown() (err error) {
	if mod == nil {
		return
	}
	mod.mu.Lock()
	mod.closed = true
	if mod.sink != nil {
		err = mod.sink.Close()
		mod.sink = nil
	}
	mod.mu.Unlock()

	// A redial finishing after this point closes its own client
	mod.wg.Wait()
	return
}
