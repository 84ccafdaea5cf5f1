// Package render projects a visible view onto the attribute set of a
// vis-network rendering surface.
//
// The projection is pure: the same view always yields the same graph. Node
// shapes, sizes and colors follow the entity type and transparency of the
// record; edge colors encode whether an edge is transparent and whether it
// references a related alert.
package render

import (
	"strings"

	"alertgraph/internal/domain"
	"alertgraph/internal/visibility"
)

// Node shapes
const (
	ShapeCircle  = "circle"
	ShapeDiamond = "diamond"
	ShapeBox     = "box"
)

// Colors used by the projection
const (
	FillOpaque           = "rgb(151, 194, 252)"
	FillTransparent      = "rgba(151, 194, 252, 0.5)"
	Border               = "#2B7CE9"
	HighlightOpaque      = "#D2E5FF"
	HighlightTransparent = "rgba(210, 229, 255, 0.1)"

	EdgeRelatedTransparent = "#ff9999"
	EdgeRelated            = "#ff0000"
	EdgeTransparent        = "#d3d3d3"
	EdgeDefault            = "#000000"
)

// ClassDimmed marks transparent elements drawn while transparent elements are shown
const ClassDimmed = "dimmed"

// CombinedFileLabel is the label of aggregated file nodes, never truncated
const CombinedFileLabel = "comb-file"

// MaxLabelLength is the longest file label shown untruncated
const MaxLabelLength = 12

// Font is a vis-network font specification
type Font struct {
	Size        int    `json:"size" yaml:"size"`
	VAdjust     int    `json:"vadjust,omitempty" yaml:"vadjust,omitempty"`
	Align       string `json:"align,omitempty" yaml:"align,omitempty"`
	Background  string `json:"background,omitempty" yaml:"background,omitempty"`
	StrokeWidth *int   `json:"strokeWidth,omitempty" yaml:"stroke_width,omitempty"`
}

// Highlight is the color of a selected node
type Highlight struct {
	Background string `json:"background" yaml:"background"`
	Border     string `json:"border" yaml:"border"`
}

// NodeColor is the color set of a node
type NodeColor struct {
	Background string    `json:"background" yaml:"background"`
	Border     string    `json:"border" yaml:"border"`
	Highlight  Highlight `json:"highlight" yaml:"highlight"`
}

// Node is a node as handed to the rendering surface
type Node struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Type      string    `json:"type" yaml:"type"`
	X         float64   `json:"x" yaml:"x"`
	Y         float64   `json:"y" yaml:"y"`
	Shape     string    `json:"shape" yaml:"shape"`
	Size      int       `json:"size" yaml:"size"`
	Font      Font      `json:"font" yaml:"font"`
	Color     NodeColor `json:"color" yaml:"color"`
	ClassName string    `json:"className,omitempty" yaml:"class_name,omitempty"`
}

// Edge is an edge as handed to the rendering surface
type Edge struct {
	ID        string `json:"id" yaml:"id"`
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Label     string `json:"label" yaml:"label"`
	Arrows    string `json:"arrows" yaml:"arrows"`
	Color     string `json:"color" yaml:"color"`
	Font      Font   `json:"font" yaml:"font"`
	ClassName string `json:"className,omitempty" yaml:"class_name,omitempty"`
}

// Graph is the complete projected graph
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Projector projects views into rendering attributes
type Projector struct{}

// NewProjector creates a projector
func NewProjector() *Projector {
	return &Projector{}
}

// Project converts every visible node and edge of the view
func (p *Projector) Project(view *visibility.View) *Graph {
	graph := &Graph{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
	if view == nil {
		return graph
	}

	for i := range view.Nodes {
		graph.Nodes = append(graph.Nodes, p.Node(&view.Nodes[i], view.ShowTransparent))
	}
	for i := range view.Edges {
		graph.Edges = append(graph.Edges, p.Edge(&view.Edges[i], view.ShowTransparent))
	}
	return graph
}

// Node projects a single positioned node
func (p *Projector) Node(node *domain.PositionedNode, showTransparent bool) Node {
	out := Node{
		ID:    node.ID,
		Label: node.Label,
		Type:  string(node.Type),
		X:     node.Position.X,
		Y:     node.Position.Y,
		Shape: Shape(node.Type),
		Size:  20,
		Font:  Font{Size: 14},
		Color: NodeColor{
			Background: FillOpaque,
			Border:     Border,
			Highlight:  Highlight{Background: HighlightOpaque, Border: Border},
		},
	}

	if node.Type == domain.NodeTypeFile {
		out.Label = TruncateLabel(node.Label)
		out.Title = node.Label
	}
	if node.Type == domain.NodeTypeSocket {
		out.Size = 40
		out.Font = Font{Size: 10, VAdjust: -50}
	}
	if node.Transparent {
		out.Color.Background = FillTransparent
		out.Color.Highlight.Background = HighlightTransparent
	}
	out.ClassName = className(node.Transparent, showTransparent)

	return out
}

// Edge projects a single edge
func (p *Projector) Edge(edge *domain.Edge, showTransparent bool) Edge {
	stroke := 0
	return Edge{
		ID:     edge.ID(),
		From:   edge.Source,
		To:     edge.Target,
		Label:  edge.Label,
		Arrows: "to",
		Color:  EdgeColor(edge),
		Font: Font{
			Size:        12,
			Align:       "horizontal",
			Background:  "white",
			StrokeWidth: &stroke,
		},
		ClassName: className(edge.Transparent, showTransparent),
	}
}

// Shape returns the node shape for an entity type. Unknown types draw as boxes.
func Shape(t domain.NodeType) string {
	switch t {
	case domain.NodeTypeProcess:
		return ShapeCircle
	case domain.NodeTypeSocket:
		return ShapeDiamond
	default:
		return ShapeBox
	}
}

// EdgeColor returns the edge color. A related alert outranks transparency.
func EdgeColor(edge *domain.Edge) string {
	switch {
	case edge.HasAlname() && edge.Transparent:
		return EdgeRelatedTransparent
	case edge.HasAlname():
		return EdgeRelated
	case edge.Transparent:
		return EdgeTransparent
	default:
		return EdgeDefault
	}
}

// TruncateLabel shortens a long path label to its first segment followed by
// an ellipsis, e.g. `C:\Windows\System32\cmd.exe` becomes `C:\...`.
// Labels of at most MaxLabelLength characters, single-segment labels and the
// combined file label are returned unchanged.
func TruncateLabel(label string) string {
	if label == CombinedFileLabel || len([]rune(label)) <= MaxLabelLength {
		return label
	}

	sep := "/"
	if strings.Contains(label, `\`) {
		sep = `\`
	}
	parts := strings.Split(label, sep)
	if len(parts) < 2 {
		return label
	}
	return parts[0] + sep + "..."
}

func className(transparent, showTransparent bool) string {
	if transparent && showTransparent {
		return ClassDimmed
	}
	return ""
}
