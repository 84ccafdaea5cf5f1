// Package codec reads alert networks from files and writes projected graphs
// in exchange formats.
//
// Importers accept the same payload the alert data service publishes
// ({nodes, edges}) in JSON or YAML. Exporters write a projected graph as
// JSON or YAML for rendering surfaces, or as Graphviz DOT for offline review.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"alertgraph/internal/domain"
	"alertgraph/internal/render"
)

// Importer parses alert networks from a serialized format
type Importer interface {
	Parse(r io.Reader) (*domain.Network, error)
	Format() string
}

// Exporter writes projected graphs to a serialized format
type Exporter interface {
	Export(graph *render.Graph, w io.Writer) error
	Format() string
	ContentType() string
}

var (
	importers = map[string]Importer{}
	exporters = map[string]Exporter{}
)

func init() {
	for _, imp := range []Importer{NewJSONCodec(), NewYAMLCodec()} {
		importers[imp.Format()] = imp
	}
	for _, exp := range []Exporter{NewJSONCodec(), NewYAMLCodec(), NewDOTCodec()} {
		exporters[exp.Format()] = exp
	}
}

// ImporterFor returns the importer registered for format
func ImporterFor(format string) (Importer, error) {
	imp, ok := importers[normalize(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported import format %q (supported: %s)", format, strings.Join(keys(importers), ", "))
	}
	return imp, nil
}

// ExporterFor returns the exporter registered for format
func ExporterFor(format string) (Exporter, error) {
	exp, ok := exporters[normalize(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(keys(exporters), ", "))
	}
	return exp, nil
}

// ExportFormats lists the supported export formats
func ExportFormats() []string {
	return keys(exporters)
}

// FormatFromPath infers an import format from a file extension, defaulting to JSON
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "yml":
		return "yaml"
	case "gv", "graphviz":
		return "dot"
	}
	return f
}

func keys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
