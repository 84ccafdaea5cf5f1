package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"alertgraph/internal/domain"
	"alertgraph/internal/render"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlNetwork represents the YAML structure of an alert network
type yamlNetwork struct {
	Nodes []yamlNode    `yaml:"nodes"`
	Edges []domain.Edge `yaml:"edges"`
}

// yamlNode keeps rank loosely typed; hand-written files use numbers,
// quoted numbers or omit it
type yamlNode struct {
	ID          string   `yaml:"id"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"`
	Rank        any      `yaml:"rank"`
	Transparent bool     `yaml:"transparent"`
	Names       []string `yaml:"names,omitempty"`
	LegacyNames []string `yaml:"nodes,omitempty"`
}

// Parse imports an alert network from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Network, error) {
	var yn yamlNetwork
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yn); err != nil {
		if err == io.EOF {
			return domain.NewNetwork(), nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	network := domain.NewNetwork()

	for _, n := range yn.Nodes {
		node := domain.Node{
			ID:          n.ID,
			Label:       n.Label,
			Type:        domain.NodeType(n.Type),
			Rank:        domain.ParseRank(n.Rank),
			Transparent: n.Transparent,
			Names:       n.Names,
		}
		if len(node.Names) == 0 {
			node.Names = n.LegacyNames
		}
		network.AddNode(node)
	}

	for _, e := range yn.Edges {
		network.AddEdge(e)
	}

	return network, nil
}

// Export exports a projected graph to YAML
func (c *YAMLCodec) Export(graph *render.Graph, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
