package supervisor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"svclog/internal/event"
	"svclog/internal/source"
	"sync"
	"sync/atomic"
)

// Connector failing a scripted number of times before succeeding
type fakeConnector struct {
	mu        sync.Mutex
	failures   int
	nilClients int // calls after the failures returning no client and no error
	calls      int
	blockDial  chan struct{} // when set, Connect waits here or on ctx
	clients    []*fakeClient
}

type fakeClient struct {
	onEvent      source.EventObserver
	onDisconnect source.ConnectionObserver
	closed       atomic.Int32
	dropOnce     sync.Once
}

func (conn *fakeConnector) Connect(ctx context.Context, host string, port int, onEvent source.EventObserver, onDisconnect source.ConnectionObserver) (source.Client, error) {
	conn.mu.Lock()
	conn.calls++
	call := conn.calls
	block := conn.blockDial
	conn.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if call <= conn.failures {
		return nil, errors.New("connection refused")
	}
	if call <= conn.failures+conn.nilClients {
		return nil, nil
	}

	client := &fakeClient{onEvent: onEvent, onDisconnect: onDisconnect}
	conn.mu.Lock()
	conn.clients = append(conn.clients, client)
	conn.mu.Unlock()
	return client, nil
}

func (conn *fakeConnector) lastClient() *fakeClient {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.clients) == 0 {
		return nil
	}
	return conn.clients[len(conn.clients)-1]
}

func (conn *fakeConnector) callCount() int {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.calls
}

func (client *fakeClient) Close() error {
	client.closed.Add(1)
	client.drop()
	return nil
}

// Simulates the server going away
func (client *fakeClient) drop() {
	client.dropOnce.Do(func() {
		if client.onDisconnect != nil {
			client.onDisconnect()
		}
	})
}

func (client *fakeClient) send(ev event.ServiceCallEvent) {
	client.onEvent(ev)
}

// Thread safe notice capture
type noticeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *noticeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *noticeBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	text := strings.TrimSuffix(b.buf.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
