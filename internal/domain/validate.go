package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// RecordKind names the kind of record a Rejection refers to
type RecordKind string

const (
	RecordNode RecordKind = "node"
	RecordEdge RecordKind = "edge"
)

// Rejection describes a record quarantined at the system boundary
type Rejection struct {
	Kind   RecordKind `json:"kind"`
	Index  int        `json:"index"`
	ID     string     `json:"id,omitempty"`
	Reason string     `json:"reason"`
}

// Error implements error so rejections can be logged or wrapped directly
func (r Rejection) Error() string {
	if r.ID != "" {
		return fmt.Sprintf("%s %d (%s): %s", r.Kind, r.Index, r.ID, r.Reason)
	}
	return fmt.Sprintf("%s %d: %s", r.Kind, r.Index, r.Reason)
}

// Sanitize validates every record of a network and returns the records that
// are safe to lay out together with the ones that were quarantined.
//
// Nodes without an id, nodes of an unknown type and repeated node ids are
// rejected; an empty type is normalized to file. Edges without a source or
// target are rejected. Edges whose endpoints are not in the node list are kept:
// they still count toward degrees, and the rendering surface ignores them.
// Records that failed to decode are reported first. Rejection indexes refer to
// positions in the decoded payload.
func Sanitize(network *Network) (*Network, []Rejection) {
	clean := NewNetwork()
	if network == nil {
		return clean, nil
	}

	rejected := append([]Rejection(nil), network.decodeRejections...)
	seen := make(map[string]struct{}, len(network.Nodes))

	for i, node := range network.Nodes {
		if node.Type == "" {
			node.Type = NodeTypeFile
		}
		if err := validate.Struct(node); err != nil {
			rejected = append(rejected, Rejection{Kind: RecordNode, Index: position(network.nodePos, i), ID: node.ID, Reason: describe(err)})
			continue
		}
		if _, dup := seen[node.ID]; dup {
			rejected = append(rejected, Rejection{Kind: RecordNode, Index: position(network.nodePos, i), ID: node.ID, Reason: "duplicate node id"})
			continue
		}
		seen[node.ID] = struct{}{}
		clean.AddNode(node)
	}

	for i, edge := range network.Edges {
		if err := validate.Struct(edge); err != nil {
			rejected = append(rejected, Rejection{Kind: RecordEdge, Index: position(network.edgePos, i), ID: edge.ID(), Reason: describe(err)})
			continue
		}
		clean.AddEdge(edge)
	}

	return clean, rejected
}

// describe converts validator errors to a short human readable reason
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s %q is not one of [%s]", strings.ToLower(fe.Field()), fe.Value(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
