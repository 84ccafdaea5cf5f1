package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Network is the raw node/edge payload of one alert
type Network struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`

	// Records that could not be decoded, and the payload position of every
	// record that could. Set only by UnmarshalJSON.
	decodeRejections []Rejection
	nodePos          []int
	edgePos          []int
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// AddNode appends a node to the network
func (n *Network) AddNode(node Node) {
	n.Nodes = append(n.Nodes, node)
}

// AddEdge appends an edge to the network
func (n *Network) AddEdge(edge Edge) {
	n.Edges = append(n.Edges, edge)
}

// HasTransparent reports whether any node or edge is marked transparent
func (n *Network) HasTransparent() bool {
	for i := range n.Nodes {
		if n.Nodes[i].Transparent {
			return true
		}
	}
	for i := range n.Edges {
		if n.Edges[i].Transparent {
			return true
		}
	}
	return false
}

// wireNode is a node as published by the data service. Rank arrives as a
// number, a numeric string or not at all, and alternate names are published
// under "nodes" by older service versions.
type wireNode struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	Rank        any      `json:"rank"`
	Transparent bool     `json:"transparent"`
	Names       []string `json:"names"`
	LegacyNames []string `json:"nodes"`
}

func (w wireNode) node() Node {
	node := Node{
		ID:          w.ID,
		Label:       w.Label,
		Type:        w.Type,
		Rank:        ParseRank(w.Rank),
		Transparent: w.Transparent,
		Names:       w.Names,
	}
	if len(node.Names) == 0 && len(w.LegacyNames) > 0 {
		node.Names = w.LegacyNames
	}
	return node
}

// UnmarshalJSON decodes a network payload, tolerating loosely typed ranks.
// Each node and edge is decoded on its own: a record with a mistyped field is
// quarantined as a Rejection, picked up by Sanitize, and the rest of the
// network still decodes. Only a payload whose shape is wrong fails outright.
func (n *Network) UnmarshalJSON(data []byte) error {
	var wire struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode network: %w", err)
	}

	n.Nodes = make([]Node, 0, len(wire.Nodes))
	n.Edges = make([]Edge, 0, len(wire.Edges))
	n.decodeRejections = nil
	n.nodePos = make([]int, 0, len(wire.Nodes))
	n.edgePos = make([]int, 0, len(wire.Edges))

	for i, raw := range wire.Nodes {
		var w wireNode
		if err := decodeRecord(raw, &w); err != nil {
			n.reject(RecordNode, i, raw, err)
			continue
		}
		n.Nodes = append(n.Nodes, w.node())
		n.nodePos = append(n.nodePos, i)
	}

	for i, raw := range wire.Edges {
		var edge Edge
		if err := decodeRecord(raw, &edge); err != nil {
			n.reject(RecordEdge, i, raw, err)
			continue
		}
		n.Edges = append(n.Edges, edge)
		n.edgePos = append(n.edgePos, i)
	}
	return nil
}

func decodeRecord(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func (n *Network) reject(kind RecordKind, index int, raw json.RawMessage, err error) {
	n.decodeRejections = append(n.decodeRejections, Rejection{
		Kind:   kind,
		Index:  index,
		ID:     recordID(kind, raw),
		Reason: decodeReason(err),
	})
}

// recordID recovers an identifier from an undecodable record when the
// identifying fields themselves are well formed.
func recordID(kind RecordKind, raw json.RawMessage) string {
	var fields map[string]any
	if json.Unmarshal(raw, &fields) != nil {
		return ""
	}
	if kind == RecordNode {
		id, _ := fields["id"].(string)
		return id
	}
	source, _ := fields["source"].(string)
	target, _ := fields["target"].(string)
	if source == "" || target == "" {
		return ""
	}
	return EdgeKey{Source: source, Target: target}.String()
}

func decodeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return err.Error()
}

// position maps an index into Nodes or Edges back to the record's position in
// the decoded payload.
func position(pos []int, i int) int {
	if i < len(pos) {
		return pos[i]
	}
	return i
}
