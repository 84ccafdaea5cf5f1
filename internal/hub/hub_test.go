package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"alertgraph/internal/metrics"
)

func connect(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil || line != ": connected\n" {
		t.Fatalf("expected connected comment, got %q (%v)", line, err)
	}
	// Blank line terminating the comment
	reader.ReadString('\n')
	return reader
}

func readFrame(t *testing.T, reader *bufio.Reader) string {
	t.Helper()
	done := make(chan string, 1)
	go func() {
		var b strings.Builder
		for {
			line, err := reader.ReadString('\n')
			if err != nil || line == "\n" {
				done <- b.String()
				return
			}
			b.WriteString(line)
		}
	}()
	select {
	case frame := <-done:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestHubBroadcast(t *testing.T) {
	reg := metrics.NewRegistry()
	h := New(nil, reg)
	srv := httptest.NewServer(h)
	defer srv.Close()

	// Stopping the hub ends open streams, so it must run before srv.Close
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	all := connect(t, srv.URL)
	scoped := connect(t, srv.URL+"?session=a")

	gauge := func() float64 {
		var m dto.Metric
		if err := reg.SSEClients.Write(&m); err != nil {
			t.Fatalf("Failed to write metric: %v", err)
		}
		return m.Gauge.GetValue()
	}
	deadline := time.Now().Add(2 * time.Second)
	for (h.ClientCount() != 2 || gauge() != 2) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := h.ClientCount(); n != 2 {
		t.Fatalf("expected 2 clients, got %d", n)
	}
	if v := gauge(); v != 2 {
		t.Errorf("expected SSE client gauge 2, got %v", v)
	}

	h.Broadcast(Message{Topic: "b", Event: "selection_changed", Data: map[string]string{"kind": "idle"}})
	h.Broadcast(Message{Topic: "a", Event: "network_loaded", Data: map[string]int{"nodes": 2}})

	if frame := readFrame(t, all); frame != "event: selection_changed\ndata: {\"kind\":\"idle\"}\n" {
		t.Errorf("unexpected first frame for unscoped client: %q", frame)
	}
	if frame := readFrame(t, all); !strings.HasPrefix(frame, "event: network_loaded\n") {
		t.Errorf("unexpected second frame for unscoped client: %q", frame)
	}
	if frame := readFrame(t, scoped); frame != "event: network_loaded\ndata: {\"nodes\":2}\n" {
		t.Errorf("expected scoped client to skip other topics, got %q", frame)
	}
}

func TestEncode(t *testing.T) {
	frame, err := encode(Message{Data: []int{1}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(frame) != "data: [1]\n\n" {
		t.Errorf("unexpected frame %q", frame)
	}

	if _, err := encode(Message{Data: make(chan int)}); err == nil {
		t.Error("expected an error for an unencodable payload")
	}
}
