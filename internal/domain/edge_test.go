package domain

import (
	"testing"
)

func TestNewEdge(t *testing.T) {
	edge := NewEdge("p1", "f1", "write", "2024-01-01T00:00:00Z")

	if edge.Source != "p1" {
		t.Errorf("expected Source 'p1', got %s", edge.Source)
	}
	if edge.Target != "f1" {
		t.Errorf("expected Target 'f1', got %s", edge.Target)
	}
	if edge.Transparent {
		t.Error("expected new edge to be opaque")
	}
	if edge.HasAlname() {
		t.Error("expected new edge to have no alname")
	}
}

func TestEdgeKey(t *testing.T) {
	t.Run("id is source-target", func(t *testing.T) {
		edge := NewEdge("p1", "f1", "", "")
		if edge.ID() != "p1-f1" {
			t.Errorf("expected ID 'p1-f1', got %s", edge.ID())
		}
	})

	t.Run("key is ordered", func(t *testing.T) {
		a := NewEdge("a", "b", "", "")
		b := NewEdge("b", "a", "", "")
		if a.Key() == b.Key() {
			t.Error("expected reversed endpoints to produce different keys")
		}
	})

	t.Run("same pair produces same key", func(t *testing.T) {
		a := NewEdge("a", "b", "read", "t0")
		b := NewEdge("a", "b", "write", "t1")
		if a.Key() != b.Key() {
			t.Error("expected same pair to produce the same key")
		}
	})
}

func TestEdgeTouches(t *testing.T) {
	edge := NewEdge("p1", "f1", "", "")

	tests := []struct {
		nodeID string
		want   bool
	}{
		{"p1", true},
		{"f1", true},
		{"s1", false},
	}

	for _, tt := range tests {
		if got := edge.Touches(tt.nodeID); got != tt.want {
			t.Errorf("Touches(%q) = %v, want %v", tt.nodeID, got, tt.want)
		}
	}
}
