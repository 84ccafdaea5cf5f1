package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"alertgraph/internal/domain"
	"alertgraph/internal/render"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports an alert network from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Network, error) {
	var network domain.Network
	if err := json.NewDecoder(r).Decode(&network); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &network, nil
}

// Export exports a projected graph to JSON
func (c *JSONCodec) Export(graph *render.Graph, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
