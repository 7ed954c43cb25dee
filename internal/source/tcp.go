// Event server client boundary and the bundled TCP implementation
package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strconv"
	"svclog/internal/global"
	"svclog/internal/logctx"
)

// Largest accepted event line
const DefaultMaxLineSize int = 1024 * 1024

// Creates a TCP connector
func NewTCPConnector(namespace []string) (new *TCPConnector) {
	new = &TCPConnector{
		Namespace:   append(append([]string{}, namespace...), global.NSSource),
		DialTimeout: global.DefaultDialTimeout,
		MaxLineSize: DefaultMaxLineSize,
		Metrics:     &MetricStorage{},
	}
	return
}

// Dials the event server and starts reading events.
// onDisconnect fires exactly once when the stream ends for any reason (including Close).
func (connector *TCPConnector) Connect(ctx context.Context, host string, port int, onEvent EventObserver, onDisconnect ConnectionObserver) (client Client, err error) {
	dialer := net.Dialer{Timeout: connector.DialTimeout}

	connector.Metrics.Dials.Add(1)
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return
	}

	tcp := &tcpClient{conn: conn}
	client = tcp

	ctx = logctx.AppendCtxTag(ctx, global.NSSource)
	go connector.read(ctx, tcp, onEvent, onDisconnect)
	return
}

// Reads lines until EOF or error, then reports the disconnect
func (connector *TCPConnector) read(ctx context.Context, client *tcpClient, onEvent EventObserver, onDisconnect ConnectionObserver) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in event reader: %v\n%s", fatalError, debug.Stack())
		}
		client.Close()
		if onDisconnect != nil {
			onDisconnect()
		}
	}()

	scanner := bufio.NewScanner(client.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), connector.MaxLineSize)

	parser := connector.parsers.Get()
	defer connector.parsers.Put(parser)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		connector.Metrics.Lines.Add(1)
		connector.Metrics.Bytes.Add(uint64(len(line)))

		ev, err := DecodeEvent(parser, line)
		if err != nil {
			connector.Metrics.Malformed.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Skipping malformed event from %s: %v\n", client.conn.RemoteAddr(), err)
			continue
		}
		connector.Metrics.Decoded.Add(1)

		logctx.LogEvent(ctx, global.VerbosityFullData, global.InfoLog,
			"Received event for service %q\n", ev.Service)
		if onEvent != nil {
			onEvent(ev)
		}
	}

	err := scanner.Err()
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"Event stream from %s ended: %v\n", client.conn.RemoteAddr(), err)
	}
}

// Closes the connection. Safe to call more than once.
func (client *tcpClient) Close() (err error) {
	client.closeOnce.Do(func() {
		client.closeErr = client.conn.Close()
		if client.closeErr != nil {
			client.closeErr = fmt.Errorf("failed closing event server connection: %w", client.closeErr)
		}
	})
	err = client.closeErr
	return
}
