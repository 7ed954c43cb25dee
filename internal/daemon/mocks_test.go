package daemon

import (
	"bytes"
	"context"
	"svclog/internal/source"
	"sync"
)

// Connector that hands its observers to the test instead of reading a socket
type fakeConnector struct {
	mu           sync.Mutex
	onEvent      source.EventObserver
	onDisconnect source.ConnectionObserver
	connected    chan struct{}
	closed       int
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{connected: make(chan struct{}, 8)}
}

func (conn *fakeConnector) Connect(ctx context.Context, host string, port int, onEvent source.EventObserver, onDisconnect source.ConnectionObserver) (source.Client, error) {
	conn.mu.Lock()
	conn.onEvent = onEvent
	conn.onDisconnect = onDisconnect
	conn.mu.Unlock()
	conn.connected <- struct{}{}
	return &fakeClient{conn: conn}, nil
}

func (conn *fakeConnector) observer() source.EventObserver {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.onEvent
}

func (conn *fakeConnector) closeCount() int {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.closed
}

type fakeClient struct {
	conn *fakeConnector
	once sync.Once
}

func (client *fakeClient) Close() error {
	client.once.Do(func() {
		client.conn.mu.Lock()
		client.conn.closed++
		client.conn.mu.Unlock()
	})
	return nil
}

// Concurrency safe stdout stand-in
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
