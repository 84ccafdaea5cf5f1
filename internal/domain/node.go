package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NodeType represents the kind of entity a node stands for
type NodeType string

const (
	NodeTypeProcess NodeType = "process"
	NodeTypeFile    NodeType = "file"
	NodeTypeSocket  NodeType = "socket"
)

// Valid reports whether t is one of the known node types
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeProcess, NodeTypeFile, NodeTypeSocket:
		return true
	}
	return false
}

// Rank is the layout layer index of a node. Zero is the origin layer.
type Rank int

// ParseRank converts a loosely typed rank value into a Rank.
// Missing, negative, fractional or non-numeric values all map to 0.
func ParseRank(v any) Rank {
	switch r := v.(type) {
	case nil:
		return 0
	case Rank:
		if r < 0 {
			return 0
		}
		return r
	case int:
		if r < 0 {
			return 0
		}
		return Rank(r)
	case int64:
		if r < 0 || r > math.MaxInt32 {
			return 0
		}
		return Rank(r)
	case uint64:
		if r > math.MaxInt32 {
			return 0
		}
		return Rank(r)
	case float64:
		if r < 0 || r != math.Trunc(r) || r > math.MaxInt32 {
			return 0
		}
		return Rank(r)
	case json.Number:
		return ParseRank(string(r))
	case string:
		s := strings.TrimSpace(r)
		if n, err := strconv.ParseInt(s, 10, 32); err == nil {
			return ParseRank(n)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ParseRank(f)
		}
		return 0
	default:
		return 0
	}
}

// Node represents an entity in the alert network
type Node struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Label       string   `json:"label" yaml:"label"`
	Type        NodeType `json:"type" yaml:"type" validate:"omitempty,oneof=process file socket"`
	Rank        Rank     `json:"rank" yaml:"rank"`
	Transparent bool     `json:"transparent" yaml:"transparent"`
	Names       []string `json:"names,omitempty" yaml:"names,omitempty"`
}

// HasNames reports whether the node carries alternate names for its detail popup
func (n *Node) HasNames() bool {
	return len(n.Names) > 0
}

// NewNode creates a node of the given type at rank 0
func NewNode(id string, nodeType NodeType, label string) *Node {
	return &Node{
		ID:    id,
		Type:  nodeType,
		Label: label,
	}
}
