package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNetworkUnmarshalJSON(t *testing.T) {
	t.Run("decodes loosely typed ranks", func(t *testing.T) {
		payload := `{
			"nodes": [
				{"id": "p1", "label": "cmd.exe", "type": "process", "rank": 0},
				{"id": "f1", "label": "a.txt", "type": "file", "rank": "1"},
				{"id": "s1", "label": "10.0.0.1:443", "type": "socket"},
				{"id": "x1", "label": "x", "type": "file", "rank": "deep"},
				{"id": "y1", "label": "y", "type": "file", "rank": null}
			],
			"edges": []
		}`

		var network Network
		if err := json.Unmarshal([]byte(payload), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := map[string]Rank{"p1": 0, "f1": 1, "s1": 0, "x1": 0, "y1": 0}
		for _, node := range network.Nodes {
			if node.Rank != want[node.ID] {
				t.Errorf("node %s: expected rank %d, got %d", node.ID, want[node.ID], node.Rank)
			}
		}
	})

	t.Run("accepts legacy names key", func(t *testing.T) {
		payload := `{"nodes": [{"id": "p1", "type": "process", "nodes": ["a.exe", "b.exe"]}], "edges": []}`

		var network Network
		if err := json.Unmarshal([]byte(payload), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(network.Nodes[0].Names) != 2 {
			t.Errorf("expected 2 names, got %v", network.Nodes[0].Names)
		}
	})

	t.Run("names key wins over legacy key", func(t *testing.T) {
		payload := `{"nodes": [{"id": "p1", "names": ["n"], "nodes": ["legacy"]}], "edges": []}`

		var network Network
		if err := json.Unmarshal([]byte(payload), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(network.Nodes[0].Names) != 1 || network.Nodes[0].Names[0] != "n" {
			t.Errorf("expected names [n], got %v", network.Nodes[0].Names)
		}
	})

	t.Run("decodes edges", func(t *testing.T) {
		payload := `{"nodes": [], "edges": [
			{"source": "p1", "target": "f1", "label": "write", "time": "2024-01-01 10:00:00", "transparent": true, "alname": "A1"}
		]}`

		var network Network
		if err := json.Unmarshal([]byte(payload), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(network.Edges) != 1 {
			t.Fatalf("expected 1 edge, got %d", len(network.Edges))
		}
		edge := network.Edges[0]
		if !edge.Transparent || edge.Alname != "A1" || edge.Time != "2024-01-01 10:00:00" {
			t.Errorf("unexpected edge: %+v", edge)
		}
	})

	t.Run("missing edges decodes to empty slice", func(t *testing.T) {
		var network Network
		if err := json.Unmarshal([]byte(`{"nodes": []}`), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if network.Edges == nil {
			t.Error("expected Edges to be initialized")
		}
	})

	t.Run("quarantines mistyped edge", func(t *testing.T) {
		payload := `{
			"nodes": [
				{"id": "p1", "type": "process"},
				{"id": "f1", "type": "file", "rank": 1}
			],
			"edges": [
				{"source": "p1", "target": "f1", "label": "write", "time": "2024-01-01 10:00:00"},
				{"source": "f1", "target": "p1", "label": "read", "time": 1700000000}
			]
		}`

		var network Network
		if err := json.Unmarshal([]byte(payload), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(network.Nodes) != 2 || len(network.Edges) != 1 {
			t.Fatalf("expected 2 nodes and 1 edge, got %d and %d", len(network.Nodes), len(network.Edges))
		}

		clean, rejected := Sanitize(&network)
		if len(clean.Edges) != 1 || clean.Edges[0].Label != "write" {
			t.Errorf("expected the write edge to survive, got %+v", clean.Edges)
		}
		if len(rejected) != 1 {
			t.Fatalf("expected 1 rejection, got %v", rejected)
		}
		r := rejected[0]
		if r.Kind != RecordEdge || r.Index != 1 || r.ID != "f1-p1" || !strings.Contains(r.Reason, "time") {
			t.Errorf("unexpected rejection: %+v", r)
		}
	})

	t.Run("quarantines mistyped nodes", func(t *testing.T) {
		payload := `{
			"nodes": [
				{"id": 5, "type": "process"},
				{"id": "f1", "type": "file", "transparent": "yes"},
				{"id": "s1", "type": "socket"},
				{"id": "s1", "type": "socket"}
			],
			"edges": []
		}`

		var network Network
		if err := json.Unmarshal([]byte(payload), &network); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		clean, rejected := Sanitize(&network)
		if len(clean.Nodes) != 1 || clean.Nodes[0].ID != "s1" {
			t.Errorf("expected only s1 to survive, got %+v", clean.Nodes)
		}
		if len(rejected) != 3 {
			t.Fatalf("expected 3 rejections, got %v", rejected)
		}
		if rejected[0].Index != 0 || rejected[0].ID != "" {
			t.Errorf("unexpected rejection for numeric id: %+v", rejected[0])
		}
		if rejected[1].Index != 1 || rejected[1].ID != "f1" {
			t.Errorf("unexpected rejection for string flag: %+v", rejected[1])
		}
		if rejected[2].Index != 3 || rejected[2].Reason != "duplicate node id" {
			t.Errorf("expected the duplicate to keep its payload index, got %+v", rejected[2])
		}
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		var network Network
		if err := json.Unmarshal([]byte(`{"nodes": {}}`), &network); err == nil {
			t.Error("expected error for malformed payload")
		}
	})
}

func TestNetworkHasTransparent(t *testing.T) {
	t.Run("opaque network", func(t *testing.T) {
		network := NewNetwork()
		network.AddNode(Node{ID: "a"})
		network.AddEdge(Edge{Source: "a", Target: "a"})
		if network.HasTransparent() {
			t.Error("expected HasTransparent to be false")
		}
	})

	t.Run("transparent node", func(t *testing.T) {
		network := NewNetwork()
		network.AddNode(Node{ID: "a", Transparent: true})
		if !network.HasTransparent() {
			t.Error("expected HasTransparent to be true")
		}
	})

	t.Run("transparent edge", func(t *testing.T) {
		network := NewNetwork()
		network.AddEdge(Edge{Source: "a", Target: "b", Transparent: true})
		if !network.HasTransparent() {
			t.Error("expected HasTransparent to be true")
		}
	})
}
