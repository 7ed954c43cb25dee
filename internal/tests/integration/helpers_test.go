package integration

import (
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// Event server stand-in: each accepted connection receives whatever is pushed to it
type eventServer struct {
	listener net.Listener
	conns    chan net.Conn
}

func startEventServer(t *testing.T) (server *eventServer) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server = &eventServer{listener: listener, conns: make(chan net.Conn, 4)}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				close(server.conns)
				return
			}
			server.conns <- conn
		}
	}()
	return
}

func (server *eventServer) url() string {
	return "tcp://" + server.listener.Addr().String()
}

// Waits for the next client connection
func (server *eventServer) accept(t *testing.T) (conn net.Conn) {
	t.Helper()
	select {
	case conn = <-server.conns:
		t.Cleanup(func() { conn.Close() })
	case <-time.After(5 * time.Second):
		t.Fatal("client never connected")
	}
	return
}

func send(t *testing.T, conn net.Conn, service string, order int) {
	t.Helper()
	line := fmt.Sprintf(`{"service":%q,"parent":"caller","pid":42,"execution":"6f1d2a8e-3c4b-4f5a-9e7d-1b2c3d4e5f60","transactionId":"tx","start":1700000000000000,"end":1700000000000250,"pending":12,"code":"OK","order":"%d"}`+"\n", service, order)
	_, err := conn.Write([]byte(line))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
}

func readLines(path string) (lines []string) {
	content, err := os.ReadFile(path)
	if err != nil || len(content) == 0 {
		return
	}
	lines = strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	return
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Concurrency safe stdout stand-in
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
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
