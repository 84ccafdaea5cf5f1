// Package domain defines the core domain types for the alertgraph alert visualization system.
//
// This package contains the entities and value objects that describe a single
// security alert and the entity-relationship network attached to it.
//
// # Core Types
//
// Node represents an entity involved in the alert (process, file, socket) with
// a layout rank, a transparency flag and an optional list of alternate names.
//
// Edge represents a timestamped action between two nodes. An edge may be
// transparent (low-signal) or carry an alname referencing a related alert.
// Edges are identified by the ordered (source, target) pair; see EdgeKey.
//
// Position is a derived 2D coordinate produced by the layout package. It is
// never supplied by the data service and never persisted.
//
// Alert is the metadata record of one alert, with a totally ordered Severity.
//
// Network is the raw node/edge payload returned by the data service for one
// alert id.
//
// # Boundary Validation
//
// Sanitize validates a Network against the node/edge schema before it reaches
// layout math. Malformed records are quarantined as Rejections rather than
// propagated with zero-valued fields.
//
// # Design Principles
//
// - Records are immutable once fetched for an alert id
// - No network or storage dependencies
// - Malformed rank values collapse to rank 0 instead of failing
package domain
