package render

// Options are the global vis-network options used with projected graphs.
// Positions come from the layout, so physics and hierarchical layout stay off.
type Options struct {
	AutoResize  bool               `json:"autoResize"`
	Layout      LayoutOptions      `json:"layout"`
	Edges       EdgeOptions        `json:"edges"`
	Nodes       NodeOptions        `json:"nodes"`
	Interaction InteractionOptions `json:"interaction"`
	Physics     PhysicsOptions     `json:"physics"`
}

type LayoutOptions struct {
	Hierarchical bool `json:"hierarchical"`
}

type EdgeOptions struct {
	Color  EdgeColorOptions `json:"color"`
	Arrows ArrowOptions     `json:"arrows"`
	Smooth SmoothOptions    `json:"smooth"`
	Font   Font             `json:"font"`
}

type EdgeColorOptions struct {
	Color     string `json:"color"`
	Highlight string `json:"highlight"`
	Hover     string `json:"hover"`
}

type ArrowOptions struct {
	To ArrowHead `json:"to"`
}

type ArrowHead struct {
	Enabled     bool    `json:"enabled"`
	ScaleFactor float64 `json:"scaleFactor"`
}

type SmoothOptions struct {
	Type      string  `json:"type"`
	Roundness float64 `json:"roundness"`
}

type NodeOptions struct {
	Shape string   `json:"shape"`
	Size  int      `json:"size"`
	Font  NodeFont `json:"font"`
}

type NodeFont struct {
	Size int    `json:"size"`
	Face string `json:"face"`
}

type InteractionOptions struct {
	DragNodes            bool `json:"dragNodes"`
	Hover                bool `json:"hover"`
	SelectConnectedEdges bool `json:"selectConnectedEdges"`
}

type PhysicsOptions struct {
	Enabled bool `json:"enabled"`
}

// DefaultOptions returns the options of the alert graph page
func DefaultOptions() Options {
	return Options{
		AutoResize: true,
		Edges: EdgeOptions{
			Color:  EdgeColorOptions{Color: EdgeDefault, Highlight: EdgeRelated, Hover: EdgeRelated},
			Arrows: ArrowOptions{To: ArrowHead{Enabled: true, ScaleFactor: 1}},
			Smooth: SmoothOptions{Type: "cubicBezier", Roundness: 0.2},
			Font:   Font{Size: 12, Align: "top"},
		},
		Nodes: NodeOptions{
			Shape: "dot",
			Size:  20,
			Font:  NodeFont{Size: 14, Face: "Arial"},
		},
		Interaction: InteractionOptions{
			DragNodes: true,
			Hover:     true,
		},
	}
}
