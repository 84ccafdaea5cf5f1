// Package layout converts the flat node/edge list of an alert into a
// deterministic rank-based 2D layout.
//
// Nodes are bucketed into layers by rank. Each layer is a column at
// x = rank * RankSpacing, ordered by ascending degree so that low-degree nodes
// sit toward the ends of the column, and centered vertically on y = 0.
//
// Centering uses y = i*V - (n-1)*V/2, so a single-node layer sits exactly on
// y = 0. The alert dashboard offsets columns by n*V/2, which shifts every
// layer up by half a row; Config.LegacyOffset reproduces that placement.
// Edges are ordered chronologically for consumers that want the causal
// sequence; the placement itself does not depend on edge order.
package layout

import (
	"sort"
	"time"

	"alertgraph/internal/domain"
)

const (
	// DefaultRankSpacing is the horizontal distance between rank columns
	DefaultRankSpacing = 200
	// DefaultLayerSpacing is the vertical distance between nodes of a column
	DefaultLayerSpacing = 100
)

// Config configures layout parameters
type Config struct {
	RankSpacing  float64    // Horizontal spacing H between ranks
	LayerSpacing float64    // Vertical spacing V within a rank
	LegacyOffset bool       // Offset columns by n*V/2 instead of centering them
	ParseTime    TimeParser // Edge timestamp parser, ParseTimestamp when nil
}

// DefaultConfig returns the spacing used by the alert dashboard
func DefaultConfig() Config {
	return Config{
		RankSpacing:  DefaultRankSpacing,
		LayerSpacing: DefaultLayerSpacing,
		ParseTime:    ParseTimestamp,
	}
}

// Layer is one rank column in placement order
type Layer struct {
	Rank    domain.Rank `json:"rank"`
	NodeIDs []string    `json:"node_ids"`
}

// Model is the positioned form of one alert network
type Model struct {
	// Nodes in input order, each with exactly one position
	Nodes []domain.PositionedNode `json:"nodes"`
	// Edges sorted ascending by time, ties in input order
	Edges []domain.Edge `json:"edges"`
	// Layers sorted by ascending rank
	Layers []Layer `json:"layers"`
	// DuplicateKeys lists pairs that occur on more than one edge
	DuplicateKeys []domain.EdgeKey `json:"duplicate_keys,omitempty"`
	// TimeErrors lists edges whose timestamp could not be parsed
	TimeErrors []*TimeParseError `json:"-"`

	nodeIndex map[string]int
	edgeIndex map[domain.EdgeKey]int
}

// Node returns the positioned node with the given id
func (m *Model) Node(id string) (*domain.PositionedNode, bool) {
	i, ok := m.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &m.Nodes[i], true
}

// Position returns the position of the node with the given id
func (m *Model) Position(id string) (domain.Position, bool) {
	node, ok := m.Node(id)
	if !ok {
		return domain.Position{}, false
	}
	return node.Position, true
}

// Edge returns the edge indexed under key. When several edges share the pair,
// the one latest in chronological order wins.
func (m *Model) Edge(key domain.EdgeKey) (*domain.Edge, bool) {
	i, ok := m.edgeIndex[key]
	if !ok {
		return nil, false
	}
	return &m.Edges[i], true
}

// HasTransparent reports whether any node or edge of the model is transparent
func (m *Model) HasTransparent() bool {
	for i := range m.Nodes {
		if m.Nodes[i].Transparent {
			return true
		}
	}
	for i := range m.Edges {
		if m.Edges[i].Transparent {
			return true
		}
	}
	return false
}

// Builder computes layouts for alert networks
type Builder struct {
	config Config
}

// NewBuilder creates a builder, filling unset spacing with defaults
func NewBuilder(config Config) *Builder {
	if config.RankSpacing == 0 {
		config.RankSpacing = DefaultRankSpacing
	}
	if config.LayerSpacing == 0 {
		config.LayerSpacing = DefaultLayerSpacing
	}
	if config.ParseTime == nil {
		config.ParseTime = ParseTimestamp
	}
	return &Builder{config: config}
}

// Config returns the effective builder configuration
func (b *Builder) Config() Config {
	return b.config
}

// Build positions every node of the network and orders its edges.
// The network is expected to be sanitized; Build itself never fails.
func (b *Builder) Build(network *domain.Network) *Model {
	if network == nil {
		network = domain.NewNetwork()
	}

	model := &Model{
		Nodes:     make([]domain.PositionedNode, len(network.Nodes)),
		Layers:    make([]Layer, 0),
		nodeIndex: make(map[string]int, len(network.Nodes)),
		edgeIndex: make(map[domain.EdgeKey]int, len(network.Edges)),
	}

	model.Edges, model.TimeErrors = b.sortEdges(network.Edges)

	for i, edge := range model.Edges {
		key := edge.Key()
		if _, exists := model.edgeIndex[key]; exists {
			model.DuplicateKeys = appendKey(model.DuplicateKeys, key)
		}
		model.edgeIndex[key] = i
	}

	degree := degrees(network.Edges)

	// Bucket node indices by rank; every node lands in exactly one bucket
	buckets := make(map[domain.Rank][]int)
	for i, node := range network.Nodes {
		rank := domain.ParseRank(node.Rank)
		buckets[rank] = append(buckets[rank], i)
	}

	ranks := make([]domain.Rank, 0, len(buckets))
	for rank := range buckets {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

	for _, rank := range ranks {
		members := buckets[rank]
		sort.SliceStable(members, func(i, j int) bool {
			return degree[network.Nodes[members[i]].ID] < degree[network.Nodes[members[j]].ID]
		})

		layer := Layer{Rank: rank, NodeIDs: make([]string, 0, len(members))}
		n := len(members)
		for slot, idx := range members {
			node := network.Nodes[idx]
			node.Rank = rank
			model.Nodes[idx] = domain.PositionedNode{
				Node:     node,
				Position: b.place(rank, slot, n),
			}
			layer.NodeIDs = append(layer.NodeIDs, node.ID)
		}
		model.Layers = append(model.Layers, layer)
	}

	for i := range model.Nodes {
		model.nodeIndex[model.Nodes[i].ID] = i
	}

	return model
}

// place returns the coordinates of slot i in a rank column of n nodes,
// centered on y = 0 unless LegacyOffset is set
func (b *Builder) place(rank domain.Rank, i, n int) domain.Position {
	v := b.config.LayerSpacing
	offset := float64(n-1) * v / 2
	if b.config.LegacyOffset {
		offset = float64(n) * v / 2
	}
	return domain.Position{
		X: float64(rank) * b.config.RankSpacing,
		Y: float64(i)*v - offset,
	}
}

// sortEdges returns a chronologically ordered copy of edges. Edges whose time
// cannot be parsed keep their relative order after all parseable edges.
func (b *Builder) sortEdges(edges []domain.Edge) ([]domain.Edge, []*TimeParseError) {
	type stamped struct {
		edge domain.Edge
		at   time.Time
		ok   bool
	}

	var errs []*TimeParseError
	items := make([]stamped, len(edges))
	for i, edge := range edges {
		at, err := b.config.ParseTime(edge.Time)
		if err != nil {
			errs = append(errs, &TimeParseError{Index: i, Key: edge.Key(), Value: edge.Time, Err: err})
		}
		items[i] = stamped{edge: edge, at: at, ok: err == nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		if !items[i].ok {
			return false
		}
		return items[i].at.Before(items[j].at)
	})

	sorted := make([]domain.Edge, len(items))
	for i, item := range items {
		sorted[i] = item.edge
	}
	return sorted, errs
}

// degrees counts incident edges per node id; a self loop counts once
func degrees(edges []domain.Edge) map[string]int {
	degree := make(map[string]int)
	for _, edge := range edges {
		degree[edge.Source]++
		if edge.Target != edge.Source {
			degree[edge.Target]++
		}
	}
	return degree
}

func appendKey(keys []domain.EdgeKey, key domain.EdgeKey) []domain.EdgeKey {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}
