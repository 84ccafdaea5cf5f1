package domain

// Position represents the derived coordinates of a node in the visualization
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PositionedNode is a node decorated with its layout position
type PositionedNode struct {
	Node
	Position Position `json:"position"`
}
