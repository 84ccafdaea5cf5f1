// Package service coordinates the alert graph pipeline between the data
// service client and the presentation adapters.
//
// # Services
//
// GraphService runs the synchronous pipeline: boundary validation, layout,
// visibility filtering and projection. It holds no per-alert state and can
// be shared freely.
//
// Session is the stateful edge of the system. It owns the inspection state
// of one viewer: the current alert, its laid out model, the transparency
// toggle and the selection. Loading an alert issues the metadata fetch and
// the network fetch concurrently; each response is applied independently,
// and only if no newer load has started since it was issued. A response
// from a superseded load is discarded, so switching quickly from alert X to
// alert Y can never leave X's network on screen under Y's title.
//
// Sessions keeps many sessions alive for the HTTP server, keyed by uuid.
//
// # Event System
//
// Sessions publish events via EventBus for real-time updates to connected
// clients via Server-Sent Events (SSE). Event types cover loads, failures,
// discarded stale responses, visibility toggles and selection changes.
package service
