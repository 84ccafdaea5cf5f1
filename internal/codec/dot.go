package codec

import (
	"fmt"
	"io"
	"strings"

	"alertgraph/internal/render"
)

// DOTCodec exports projected graphs as Graphviz DOT. Node positions are
// pinned so that `neato -n` reproduces the computed layout.
type DOTCodec struct{}

// NewDOTCodec creates a new DOT codec
func NewDOTCodec() *DOTCodec {
	return &DOTCodec{}
}

// Format returns the codec format identifier
func (c *DOTCodec) Format() string {
	return "dot"
}

// ContentType returns the MIME type of exported documents
func (c *DOTCodec) ContentType() string {
	return "text/vnd.graphviz"
}

// Export writes the graph in Graphviz DOT format
func (c *DOTCodec) Export(graph *render.Graph, w io.Writer) error {
	var b strings.Builder

	b.WriteString("digraph AlertGraph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [style=filled, fontname=\"Arial\"];\n")
	b.WriteString("  edge [fontname=\"Arial\", fontsize=12];\n")

	for _, node := range graph.Nodes {
		// DOT's y axis points up; avoid printing -0
		y := -node.Y
		if y == 0 {
			y = 0
		}
		attrs := []string{
			fmt.Sprintf("label=%s", quote(node.Label)),
			fmt.Sprintf("shape=%s", node.Shape),
			fmt.Sprintf("fillcolor=%s", quote(dotColor(node.Color.Background))),
			fmt.Sprintf("color=%s", quote(dotColor(node.Color.Border))),
			fmt.Sprintf("fontsize=%d", node.Font.Size),
			fmt.Sprintf("pos=\"%g,%g!\"", node.X, y),
		}
		if node.Title != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%s", quote(node.Title)))
		}
		if node.ClassName != "" {
			attrs = append(attrs, fmt.Sprintf("class=%s", quote(node.ClassName)))
		}
		fmt.Fprintf(&b, "  %s [%s];\n", quote(node.ID), strings.Join(attrs, ", "))
	}

	for _, edge := range graph.Edges {
		attrs := []string{
			fmt.Sprintf("id=%s", quote(edge.ID)),
			fmt.Sprintf("label=%s", quote(edge.Label)),
			fmt.Sprintf("color=%s", quote(dotColor(edge.Color))),
		}
		if edge.ClassName != "" {
			attrs = append(attrs, fmt.Sprintf("class=%s", quote(edge.ClassName)))
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", quote(edge.From), quote(edge.To), strings.Join(attrs, ", "))
	}

	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write DOT: %w", err)
	}
	return nil
}

// quote returns s as a DOT double-quoted string
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// dotColor converts CSS rgb()/rgba() colors to the #RRGGBB[AA] form DOT
// understands. Other values pass through unchanged.
func dotColor(css string) string {
	var r, g, b int
	var a float64
	if n, _ := fmt.Sscanf(css, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); n == 4 {
		return fmt.Sprintf("#%02x%02x%02x%02x", clamp(r), clamp(g), clamp(b), clamp(int(a*255+0.5)))
	}
	if n, _ := fmt.Sscanf(css, "rgb(%d, %d, %d)", &r, &g, &b); n == 3 {
		return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
	}
	return css
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
