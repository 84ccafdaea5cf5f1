package domain

// EdgeKey is the lookup identity of an edge: the ordered (source, target) pair.
// Its string form "source-target" is the id reported by the rendering surface.
type EdgeKey struct {
	Source string
	Target string
}

// String returns the "source-target" form used as the rendered edge id
func (k EdgeKey) String() string {
	return k.Source + "-" + k.Target
}

// Edge represents a timestamped action between two nodes
type Edge struct {
	Source      string `json:"source" yaml:"source" validate:"required"`
	Target      string `json:"target" yaml:"target" validate:"required"`
	Label       string `json:"label" yaml:"label"`
	Time        string `json:"time" yaml:"time"`
	Transparent bool   `json:"transparent" yaml:"transparent"`
	Alname      string `json:"alname,omitempty" yaml:"alname,omitempty"`
}

// NewEdge creates an edge between two nodes
func NewEdge(source, target, label, time string) *Edge {
	return &Edge{
		Source: source,
		Target: target,
		Label:  label,
		Time:   time,
	}
}

// Key returns the pair identity of the edge
func (e *Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}

// ID returns the rendered edge id
func (e *Edge) ID() string {
	return e.Key().String()
}

// Touches reports whether the node participates in the edge as source or target
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// HasAlname reports whether the edge references a related alert
func (e *Edge) HasAlname() bool {
	return e.Alname != ""
}
