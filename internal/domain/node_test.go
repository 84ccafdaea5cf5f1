package domain

import (
	"encoding/json"
	"testing"
)

func TestNewNode(t *testing.T) {
	node := NewNode("p1", NodeTypeProcess, "cmd.exe")

	if node.ID != "p1" {
		t.Errorf("expected ID 'p1', got %s", node.ID)
	}
	if node.Type != NodeTypeProcess {
		t.Errorf("expected Type %s, got %s", NodeTypeProcess, node.Type)
	}
	if node.Rank != 0 {
		t.Errorf("expected Rank 0, got %d", node.Rank)
	}
	if node.HasNames() {
		t.Error("expected new node to have no names")
	}
}

func TestNodeTypeValid(t *testing.T) {
	tests := []struct {
		nodeType NodeType
		valid    bool
	}{
		{NodeTypeProcess, true},
		{NodeTypeFile, true},
		{NodeTypeSocket, true},
		{"registry", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.nodeType.Valid(); got != tt.valid {
			t.Errorf("NodeType(%q).Valid() = %v, want %v", tt.nodeType, got, tt.valid)
		}
	}
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Rank
	}{
		{"nil", nil, 0},
		{"int", 3, 3},
		{"negative int", -2, 0},
		{"int64", int64(7), 7},
		{"float integral", float64(2), 2},
		{"float fractional", 1.5, 0},
		{"numeric string", "4", 4},
		{"padded string", " 5 ", 5},
		{"float string", "2.0", 2},
		{"garbage string", "two", 0},
		{"empty string", "", 0},
		{"json number", json.Number("6"), 6},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRank(tt.input); got != tt.want {
				t.Errorf("ParseRank(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNodeHasNames(t *testing.T) {
	t.Run("empty names", func(t *testing.T) {
		node := Node{ID: "n", Names: []string{}}
		if node.HasNames() {
			t.Error("expected HasNames to be false for empty slice")
		}
	})

	t.Run("with names", func(t *testing.T) {
		node := Node{ID: "n", Names: []string{"a.exe", "b.exe"}}
		if !node.HasNames() {
			t.Error("expected HasNames to be true")
		}
	})
}
